package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Boltflix/oh-my-freud-backend/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestIDMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.CORS),
		errorHandlingMiddleware(handler.logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger),
		bodyLimitMiddleware(cfg.HTTP.MaxBodyBytes),
	)

	router.POST("/interpret", handler.Interpret)

	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		api.POST("/interpret", handler.Interpret)
		api.POST("/interpret-dream", handler.Interpret)

		api.POST("/wellness/sleep-hygiene", handler.SleepHygiene)
		api.POST("/wellness/free-association", handler.FreeAssociation)

		api.POST("/stripe/checkout", handler.Checkout)
		api.POST("/create-checkout-session", handler.LegacyCheckout)
		api.POST("/stripe-webhook", handler.StripeWebhook)

		api.POST("/apply-edit", handler.ApplyEdit)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
