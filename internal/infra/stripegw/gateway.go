package stripegw

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/Boltflix/oh-my-freud-backend/internal/domain/billing"
)

// Gateway adapts the Stripe SDK to billing.Gateway.
type Gateway struct {
	api    *client.API
	logger *slog.Logger
}

// New constructs a Stripe gateway. It returns an error when no secret key is set.
func New(secretKey string, logger *slog.Logger) (*Gateway, error) {
	secretKey = strings.TrimSpace(secretKey)
	if secretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		api:    client.New(secretKey, nil),
		logger: logger.With("component", "stripegw.gateway"),
	}, nil
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, params billing.CheckoutParams) (billing.CheckoutSession, error) {
	sp := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(params.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		AllowPromotionCodes:      stripe.Bool(true),
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
	}
	if params.CustomerEmail != "" {
		sp.CustomerEmail = stripe.String(params.CustomerEmail)
	}
	sp.Context = ctx

	session, err := g.api.CheckoutSessions.New(sp)
	if err != nil {
		return billing.CheckoutSession{}, err
	}
	return billing.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (g *Gateway) ConstructEvent(payload []byte, signature, secret string) (billing.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return billing.Event{}, err
	}
	return translateEvent(event)
}

func (g *Gateway) CustomerEmail(ctx context.Context, customerID string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	customer, err := g.api.Customers.Get(customerID, params)
	if err != nil {
		return "", err
	}
	return customer.Email, nil
}

func translateEvent(event stripe.Event) (billing.Event, error) {
	out := billing.Event{ID: event.ID, Type: string(event.Type)}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return out, nil
	}
	switch out.Type {
	case billing.EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return billing.Event{}, fmt.Errorf("decode checkout session: %w", err)
		}
		out.Checkout = checkoutFromSession(session)
	case billing.EventSubscriptionCreated, billing.EventSubscriptionUpdated, billing.EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return billing.Event{}, fmt.Errorf("decode subscription: %w", err)
		}
		out.Subscription = changeFromSubscription(sub)
	}
	return out, nil
}

func checkoutFromSession(session stripe.CheckoutSession) *billing.CheckoutCompleted {
	completed := &billing.CheckoutCompleted{Email: session.CustomerEmail}
	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		completed.Email = session.CustomerDetails.Email
	}
	if session.Customer != nil {
		completed.CustomerID = session.Customer.ID
	}
	if session.LineItems != nil && len(session.LineItems.Data) > 0 && session.LineItems.Data[0].Price != nil {
		completed.PriceID = session.LineItems.Data[0].Price.ID
	}
	completed.ExpiresAt = unixPtr(session.ExpiresAt)
	return completed
}

func changeFromSubscription(sub stripe.Subscription) *billing.SubscriptionChange {
	change := &billing.SubscriptionChange{
		Status:           string(sub.Status),
		CurrentPeriodEnd: unixPtr(sub.CurrentPeriodEnd),
	}
	if sub.Customer != nil {
		change.CustomerID = sub.Customer.ID
	}
	if sub.Items != nil && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		change.PriceID = sub.Items.Data[0].Price.ID
	}
	return change
}

func unixPtr(sec int64) *time.Time {
	if sec <= 0 {
		return nil
	}
	ts := time.Unix(sec, 0).UTC()
	return &ts
}

var _ billing.Gateway = (*Gateway)(nil)
