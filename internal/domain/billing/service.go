package billing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/Boltflix/oh-my-freud-backend/pkg/errors"
	"github.com/Boltflix/oh-my-freud-backend/pkg/util"
)

// Service handles subscription checkout and processor webhooks.
type Service interface {
	Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookResult, error)
	Status() Status
}

type service struct {
	cfg     Config
	gateway Gateway
	subs    SubscriptionRepository
	events  EventStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the billing domain. gateway may be nil when the processor
// is not configured.
func NewService(cfg Config, gateway Gateway, subs SubscriptionRepository, events EventStore, logger *slog.Logger) Service {
	if cfg.EventTTL <= 0 {
		cfg.EventTTL = 7 * 24 * time.Hour
	}
	cfg.FrontendOrigin = strings.TrimRight(strings.TrimSpace(cfg.FrontendOrigin), "/")
	return &service{
		cfg:     cfg,
		gateway: gateway,
		subs:    subs,
		events:  events,
		logger:  logger.With("component", "billing.service"),
		now:     util.NowUTC,
	}
}

func (s *service) Status() Status {
	return Status{
		Checkout: s.gateway != nil && len(s.cfg.Prices) > 0,
		Webhook:  s.gateway != nil && s.cfg.WebhookSecret != "",
	}
}

func (s *service) Checkout(ctx context.Context, req CheckoutRequest) (CheckoutResponse, error) {
	if s.gateway == nil {
		return CheckoutResponse{}, apperrors.Wrap(apperrors.CodeStripeNotConfigured, "payment processor is not configured", nil)
	}
	plan, ok := ParsePlan(req.Plan)
	if !ok {
		return CheckoutResponse{}, apperrors.Wrap(apperrors.CodeInvalidPlan, "plan must be monthly or annual", nil)
	}
	priceID := strings.TrimSpace(s.cfg.Prices[plan])
	if priceID == "" {
		return CheckoutResponse{}, apperrors.Wrap(apperrors.CodeStripeNotConfigured, "no price configured for plan "+string(plan), nil)
	}

	// redirect targets always derive from the configured origin
	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutParams{
		PriceID:       priceID,
		SuccessURL:    s.cfg.FrontendOrigin + "/premium?success=1&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.FrontendOrigin + "/premium?canceled=1",
		CustomerEmail: strings.TrimSpace(req.Email),
	})
	if err != nil {
		return CheckoutResponse{}, apperrors.Wrap(apperrors.CodeCheckoutFailed, "could not create checkout session", err)
	}
	s.logger.Info("checkout session created", "plan", plan, "session_id", session.ID)
	return CheckoutResponse{CheckoutURL: session.URL, URL: session.URL, SessionID: session.ID}, nil
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, signature string) (WebhookResult, error) {
	if s.gateway == nil || s.cfg.WebhookSecret == "" {
		s.logger.Warn("webhook received but not configured")
		return WebhookResult{Received: false}, nil
	}
	event, err := s.gateway.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return WebhookResult{}, apperrors.Wrap(apperrors.CodeInvalidSignature, "webhook signature verification failed", err)
	}

	first, err := s.events.Claim(ctx, event.ID, s.cfg.EventTTL)
	if err != nil {
		return WebhookResult{}, apperrors.Wrap(apperrors.CodeWebhookFailed, "could not record webhook event", err)
	}
	if !first {
		s.logger.Info("duplicate webhook event skipped", "event_id", event.ID, "type", event.Type)
		return WebhookResult{Received: true, Duplicate: true, EventType: event.Type}, nil
	}

	handled, err := s.apply(ctx, event)
	if err != nil {
		if releaseErr := s.events.Release(ctx, event.ID); releaseErr != nil {
			s.logger.Error("release webhook event failed", "event_id", event.ID, "error", releaseErr)
		}
		return WebhookResult{}, apperrors.Wrap(apperrors.CodeWebhookFailed, "could not process webhook event", err)
	}
	return WebhookResult{Received: true, Ignored: !handled, EventType: event.Type}, nil
}

func (s *service) apply(ctx context.Context, event Event) (bool, error) {
	switch event.Type {
	case EventCheckoutCompleted:
		if event.Checkout == nil {
			return false, nil
		}
		return true, s.applyCheckout(ctx, *event.Checkout)
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		if event.Subscription == nil {
			return false, nil
		}
		return true, s.applySubscription(ctx, *event.Subscription)
	default:
		s.logger.Debug("webhook event ignored", "event_id", event.ID, "type", event.Type)
		return false, nil
	}
}

func (s *service) applyCheckout(ctx context.Context, checkout CheckoutCompleted) error {
	email := normalizeEmail(checkout.Email)
	if email == "" {
		s.logger.Warn("checkout completed without email", "customer_id", checkout.CustomerID)
		return nil
	}
	existing, found, err := s.subs.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	sub := Subscription{
		Email:            email,
		Provider:         ProviderStripe,
		CustomerID:       checkout.CustomerID,
		PriceID:          util.FirstNonEmpty(checkout.PriceID, s.cfg.Prices[PlanMonthly]),
		Status:           "active",
		CurrentPeriodEnd: checkout.ExpiresAt,
		UpdatedAt:        s.now(),
	}
	// subscription events may arrive first and carry the real plan and period
	if found {
		sub.PriceID = util.FirstNonEmpty(existing.PriceID, sub.PriceID)
		if existing.CurrentPeriodEnd != nil {
			sub.CurrentPeriodEnd = existing.CurrentPeriodEnd
		}
		sub.CustomerID = util.FirstNonEmpty(sub.CustomerID, existing.CustomerID)
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return err
	}
	s.logger.Info("subscription activated", "customer_id", checkout.CustomerID)
	return nil
}

func (s *service) applySubscription(ctx context.Context, change SubscriptionChange) error {
	if change.CustomerID == "" {
		return nil
	}
	email, err := s.gateway.CustomerEmail(ctx, change.CustomerID)
	if err != nil {
		return err
	}
	email = normalizeEmail(email)
	if email == "" {
		s.logger.Warn("subscription customer has no email", "customer_id", change.CustomerID)
		return nil
	}
	sub := Subscription{
		Email:            email,
		Provider:         ProviderStripe,
		CustomerID:       change.CustomerID,
		PriceID:          change.PriceID,
		Status:           change.Status,
		CurrentPeriodEnd: change.CurrentPeriodEnd,
		UpdatedAt:        s.now(),
	}
	existing, found, err := s.subs.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if found && sub.PriceID == "" {
		sub.PriceID = existing.PriceID
	}
	if err := s.subs.Upsert(ctx, sub); err != nil {
		return err
	}
	s.logger.Info("subscription updated", "customer_id", change.CustomerID, "status", change.Status)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
