package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/health"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/inlineedit"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/interpretation"
	"github.com/Boltflix/oh-my-freud-backend/internal/domain/wellness"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	interpretSvc interpretation.Service
	wellnessSvc  wellness.Service
	billingSvc   billing.Service
	editSvc      inlineedit.Service
	healthSvc    health.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(interpretSvc interpretation.Service, wellnessSvc wellness.Service, billingSvc billing.Service, editSvc inlineedit.Service, healthSvc health.Service, logger *slog.Logger) *Handler {
	return &Handler{
		interpretSvc: interpretSvc,
		wellnessSvc:  wellnessSvc,
		billingSvc:   billingSvc,
		editSvc:      editSvc,
		healthSvc:    healthSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

// Interpret runs the dream interpretation pipeline. Upstream failures never
// surface here; only invalid input is rejected.
func (h *Handler) Interpret(c *gin.Context) {
	var req interpretation.Request
	if !bindOptionalJSON(c, &req) {
		return
	}

	body, err := h.interpretSvc.Interpret(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomain(err, "interpret_failed"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// SleepHygiene returns a sleep-hygiene kit.
func (h *Handler) SleepHygiene(c *gin.Context) {
	var req wellness.SleepRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	body, err := h.wellnessSvc.SleepHygiene(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomain(err, "wellness_failed"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// FreeAssociation returns a free-association session.
func (h *Handler) FreeAssociation(c *gin.Context) {
	var req wellness.AssociationRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	body, err := h.wellnessSvc.FreeAssociation(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomain(err, "wellness_failed"))
		return
	}
	c.JSON(http.StatusOK, body)
}

// Checkout opens a hosted checkout session. The plan comes from the body or ?plan=.
func (h *Handler) Checkout(c *gin.Context) {
	h.checkout(c, "")
}

// LegacyCheckout behaves like Checkout but defaults to the monthly plan.
func (h *Handler) LegacyCheckout(c *gin.Context) {
	h.checkout(c, billing.PlanMonthly)
}

func (h *Handler) checkout(c *gin.Context, defaultPlan billing.Plan) {
	var req billing.CheckoutRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	if req.Plan == "" {
		req.Plan = c.Query("plan")
	}
	if req.Plan == "" {
		req.Plan = string(defaultPlan)
	}

	resp, err := h.billingSvc.Checkout(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomain(err, "checkout_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StripeWebhook verifies and applies a processor event from the raw body.
func (h *Handler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "could not read request body", err))
		return
	}

	result, err := h.billingSvc.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		abortWithError(c, fromDomain(err, "webhook_failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApplyEdit stores a client-side edit when the hook is enabled.
func (h *Handler) ApplyEdit(c *gin.Context) {
	var req inlineedit.Request
	if !bindOptionalJSON(c, &req) {
		return
	}

	resp, err := h.editSvc.Apply(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomain(err, "apply_edit_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Health reports which integrations are configured.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.healthSvc.Report())
}

// bindOptionalJSON decodes the body into dst. An empty body leaves dst zero so
// the domain can report what is missing.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return false
	}
	return true
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return "request body too large"
	}
	return err.Error()
}
