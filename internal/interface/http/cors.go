package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Boltflix/oh-my-freud-backend/internal/infra/config"
)

// corsMiddleware admits the configured browser origins. A "*" entry opens the API to any origin.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Authorization", "Stripe-Signature", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			origins = nil
			break
		}
		origins = append(origins, origin)
	}
	if !c.AllowAllOrigins {
		if len(origins) == 0 {
			c.AllowAllOrigins = true
		} else {
			c.AllowOrigins = origins
		}
	}
	return cors.New(c)
}
