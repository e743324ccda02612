// Package billing integrates Stripe subscriptions: checkout, the customer
// portal, and webhook-driven subscription state sync.
package billing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/halteresai/server/internal/account"
	"github.com/halteresai/server/internal/errors"
)

var (
	// ErrAlreadySubscribed is returned when starting checkout for a user with
	// an active subscription.
	ErrAlreadySubscribed = errors.NewSentinel("user already has an active subscription")
	// ErrNoCustomer is returned when opening the billing portal for a user
	// that has never gone through checkout.
	ErrNoCustomer = errors.NewSentinel("user has no billing account")
)

// Config carries the Stripe keys and URLs the service needs.
type Config struct {
	SecretKey     string
	WebhookSecret string
	PriceID       string
	BaseURL       string
}

// Service talks to Stripe and keeps account subscription state in sync.
type Service struct {
	accounts *account.Service
	api      *client.API
	cfg      Config
	logger   *slog.Logger
}

// NewService creates a billing service backed by the Stripe API.
func NewService(accounts *account.Service, logger *slog.Logger, cfg Config) *Service {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Service{
		accounts: accounts,
		api:      api,
		cfg:      cfg,
		logger:   logger,
	}
}

// CheckoutURL creates a Stripe Checkout session for the subscription price
// and returns the hosted payment page URL. The Stripe customer is created on
// first use and linked to the user for webhook lookups.
func (s *Service) CheckoutURL(ctx context.Context, user account.User) (string, error) {
	if user.HasActiveSubscription() {
		return "", ErrAlreadySubscribed
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		params := &stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.Name),
		}
		params.AddMetadata("user_id", user.ID)
		customer, err := s.api.Customers.New(params)
		if err != nil {
			return "", fmt.Errorf("create stripe customer: %w", err)
		}
		customerID = customer.ID
		if err = s.accounts.SetStripeCustomer(ctx, user.ID, customerID); err != nil {
			return "", errors.Wrap(err, "link stripe customer",
				slog.String("stripe_customer_id", customerID))
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "created stripe customer",
			slog.String("stripe_customer_id", customerID))
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(s.cfg.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.cfg.BaseURL + "/?checkout=success"),
		CancelURL:  stripe.String(s.cfg.BaseURL + "/?checkout=cancelled"),
	}
	params.AddMetadata("user_id", user.ID)

	session, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return session.URL, nil
}

// PortalURL creates a Stripe billing portal session where the user can manage
// or cancel the subscription.
func (s *Service) PortalURL(_ context.Context, user account.User) (string, error) {
	if user.StripeCustomerID == "" {
		return "", ErrNoCustomer
	}
	session, err := s.api.BillingPortalSessions.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(user.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.BaseURL + "/"),
	})
	if err != nil {
		return "", fmt.Errorf("create billing portal session: %w", err)
	}
	return session.URL, nil
}
