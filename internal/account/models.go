// Package account manages users, password authentication, sessions, and
// subscription state.
package account

import "time"

// SubscriptionStatus tracks where a user's Stripe subscription stands.
type SubscriptionStatus string

const (
	SubscriptionNone     SubscriptionStatus = "none"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

// User is a coach or gym owner account.
type User struct {
	ID                    string             `json:"id"`
	Email                 string             `json:"email"`
	Name                  string             `json:"name"`
	IsAdmin               bool               `json:"-"`
	StripeCustomerID      string             `json:"-"`
	SubscriptionStatus    SubscriptionStatus `json:"subscription_status"`
	SubscriptionPriceID   string             `json:"-"`
	SubscriptionPeriodEnd *time.Time         `json:"subscription_period_end,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
}

// HasActiveSubscription reports whether the user should have access to paid
// features. Past-due subscriptions keep access until Stripe gives up.
func (u User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == SubscriptionActive || u.SubscriptionStatus == SubscriptionPastDue
}
