package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/halteresai/server/internal/account"
	"github.com/halteresai/server/internal/errors"
)

// ErrBadSignature is returned when a webhook payload fails signature
// verification.
var ErrBadSignature = errors.NewSentinel("webhook signature verification failed")

// HandleWebhook verifies a Stripe webhook payload and applies its event.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.WebhookSecret)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrBadSignature, err)
	}
	return s.Reconcile(ctx, string(event.Type), event.Data.Raw)
}

// Reconcile applies a single Stripe event to local subscription state.
// Irrelevant event types are ignored.
func (s *Service) Reconcile(ctx context.Context, eventType string, data json.RawMessage) error {
	switch eventType {
	case "checkout.session.completed":
		return s.reconcileCheckout(ctx, data)
	case "customer.subscription.created", "customer.subscription.updated":
		return s.reconcileSubscription(ctx, data)
	case "customer.subscription.deleted":
		return s.reconcileSubscriptionDeleted(ctx, data)
	default:
		s.logger.LogAttrs(ctx, slog.LevelDebug, "ignoring webhook event",
			slog.String("event_type", eventType))
		return nil
	}
}

// reconcileCheckout links the Stripe customer to the user that started
// checkout. The user id travels in the session metadata.
func (s *Service) reconcileCheckout(ctx context.Context, data json.RawMessage) error {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("unmarshal checkout session: %w", err)
	}
	userID := session.Metadata["user_id"]
	if userID == "" || session.Customer == nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "checkout session without user metadata",
			slog.String("session_id", session.ID))
		return nil
	}
	if err := s.accounts.SetStripeCustomer(ctx, userID, session.Customer.ID); err != nil {
		return errors.Wrap(err, "link stripe customer from checkout",
			slog.String("stripe_customer_id", session.Customer.ID))
	}
	return nil
}

func (s *Service) reconcileSubscription(ctx context.Context, data json.RawMessage) error {
	subscription, err := unmarshalSubscription(data)
	if err != nil {
		return err
	}

	var (
		priceID   string
		periodEnd time.Time
	)
	if subscription.Items != nil && len(subscription.Items.Data) > 0 {
		item := subscription.Items.Data[0]
		if item.Price != nil {
			priceID = item.Price.ID
		}
		if item.CurrentPeriodEnd > 0 {
			periodEnd = time.Unix(item.CurrentPeriodEnd, 0).UTC()
		}
	}

	return s.syncSubscription(ctx, subscription, subscriptionStatus(subscription.Status), priceID, periodEnd)
}

func (s *Service) reconcileSubscriptionDeleted(ctx context.Context, data json.RawMessage) error {
	subscription, err := unmarshalSubscription(data)
	if err != nil {
		return err
	}
	return s.syncSubscription(ctx, subscription, account.SubscriptionCanceled, "", time.Time{})
}

func (s *Service) syncSubscription(
	ctx context.Context, subscription stripe.Subscription,
	status account.SubscriptionStatus, priceID string, periodEnd time.Time,
) error {
	err := s.accounts.SyncSubscription(ctx, subscription.Customer.ID, status, priceID, periodEnd)
	if errors.Is(err, account.ErrNotFound) {
		// Stripe can retain subscriptions for customers deleted locally.
		s.logger.LogAttrs(ctx, slog.LevelWarn, "subscription event for unknown customer",
			slog.String("stripe_customer_id", subscription.Customer.ID),
			slog.String("subscription_id", subscription.ID))
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "sync subscription",
			slog.String("subscription_id", subscription.ID))
	}
	return nil
}

func unmarshalSubscription(data json.RawMessage) (stripe.Subscription, error) {
	var subscription stripe.Subscription
	if err := json.Unmarshal(data, &subscription); err != nil {
		return stripe.Subscription{}, fmt.Errorf("unmarshal subscription: %w", err)
	}
	// An empty customer id would match every never-linked user row.
	if subscription.Customer == nil || subscription.Customer.ID == "" {
		return stripe.Subscription{}, fmt.Errorf("subscription %s has no customer", subscription.ID)
	}
	return subscription, nil
}

func subscriptionStatus(status stripe.SubscriptionStatus) account.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return account.SubscriptionActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return account.SubscriptionPastDue
	default:
		return account.SubscriptionCanceled
	}
}
