package billing

import (
	"context"
	"strings"
	"time"
)

// Plan is a subscription plan a client may buy.
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanAnnual  Plan = "annual"
)

// ParsePlan accepts the plan name case-insensitively.
func ParsePlan(raw string) (Plan, bool) {
	switch Plan(strings.ToLower(strings.TrimSpace(raw))) {
	case PlanMonthly:
		return PlanMonthly, true
	case PlanAnnual:
		return PlanAnnual, true
	default:
		return "", false
	}
}

// Event types handled by the webhook.
const (
	EventCheckoutCompleted   = "checkout.session.completed"
	EventSubscriptionCreated = "customer.subscription.created"
	EventSubscriptionUpdated = "customer.subscription.updated"
	EventSubscriptionDeleted = "customer.subscription.deleted"
)

// ProviderStripe tags subscriptions created through Stripe.
const ProviderStripe = "stripe"

// CheckoutRequest starts a hosted checkout.
type CheckoutRequest struct {
	Plan  string `json:"plan"`
	Email string `json:"email"`
}

// CheckoutResponse carries the hosted checkout URL. URL is kept for clients
// of the first API version.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	URL         string `json:"url"`
	SessionID   string `json:"sessionId,omitempty"`
}

// CheckoutParams is what the gateway needs to open a session.
type CheckoutParams struct {
	PriceID       string
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
}

// CheckoutSession is the gateway answer.
type CheckoutSession struct {
	ID  string
	URL string
}

// Event is a verified webhook event translated out of the processor SDK.
type Event struct {
	ID           string
	Type         string
	Checkout     *CheckoutCompleted
	Subscription *SubscriptionChange
}

// CheckoutCompleted is the payload of a completed checkout.
type CheckoutCompleted struct {
	Email      string
	CustomerID string
	PriceID    string
	ExpiresAt  *time.Time
}

// SubscriptionChange is the payload of a subscription lifecycle event.
type SubscriptionChange struct {
	CustomerID       string
	Status           string
	PriceID          string
	CurrentPeriodEnd *time.Time
}

// Subscription is the persisted entitlement, keyed by email.
type Subscription struct {
	Email            string
	Provider         string
	CustomerID       string
	PriceID          string
	Status           string
	CurrentPeriodEnd *time.Time
	UpdatedAt        time.Time
}

// WebhookResult is returned to the processor.
type WebhookResult struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Ignored   bool   `json:"ignored,omitempty"`
	EventType string `json:"eventType,omitempty"`
}

// Gateway is the payment processor.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (CheckoutSession, error)
	ConstructEvent(payload []byte, signature, secret string) (Event, error)
	CustomerEmail(ctx context.Context, customerID string) (string, error)
}

// SubscriptionRepository persists subscriptions.
type SubscriptionRepository interface {
	Upsert(ctx context.Context, sub Subscription) error
	FindByEmail(ctx context.Context, email string) (Subscription, bool, error)
}

// EventStore remembers processed webhook event ids.
type EventStore interface {
	// Claim records id and reports whether this caller is the first to see it.
	Claim(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, id string) error
}

// Config wires runtime settings for billing.
type Config struct {
	FrontendOrigin string
	Prices         map[Plan]string
	WebhookSecret  string
	EventTTL       time.Duration
}

// Status reports which billing integrations are configured.
type Status struct {
	Checkout bool
	Webhook  bool
}
