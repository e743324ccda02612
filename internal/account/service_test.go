package account_test

import (
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/halteresai/server/internal/account"
	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/sqlite"
	"github.com/halteresai/server/internal/testhelpers"
)

func newTestService(t *testing.T) *account.Service {
	t.Helper()
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))

	db, err := sqlite.NewDatabase(ctx, ":memory:", logger)
	if err != nil {
		t.Fatalf("create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return account.NewService(db, logger, scs.New())
}

func TestService_signUpAndAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := t.Context()

	user, err := svc.SignUp(ctx, "  Coach@Example.com ", "correct horse", "Coach")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.Email != "coach@example.com" {
		t.Errorf("email = %q, want normalized coach@example.com", user.Email)
	}
	if user.SubscriptionStatus != account.SubscriptionNone {
		t.Errorf("subscription status = %q, want none", user.SubscriptionStatus)
	}

	authed, err := svc.Authenticate(ctx, "coach@example.com", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Errorf("authenticated user id = %q, want %q", authed.ID, user.ID)
	}

	if _, err = svc.Authenticate(ctx, "coach@example.com", "wrong password"); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want ErrInvalidCredentials", err)
	}
	if _, err = svc.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_signUpValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := t.Context()

	if _, err := svc.SignUp(ctx, "not-an-email", "correct horse", ""); !errors.Is(err, account.ErrInvalidCredentials) {
		t.Errorf("bad email error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.SignUp(ctx, "coach@example.com", "short", ""); !errors.Is(err, account.ErrWeakPassword) {
		t.Errorf("short password error = %v, want ErrWeakPassword", err)
	}

	if _, err := svc.SignUp(ctx, "coach@example.com", "correct horse", "Coach"); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	// Emails are unique regardless of case.
	if _, err := svc.SignUp(ctx, "COACH@example.com", "another password", ""); !errors.Is(err, account.ErrEmailTaken) {
		t.Errorf("duplicate email error = %v, want ErrEmailTaken", err)
	}
}

func TestService_subscriptionSync(t *testing.T) {
	svc := newTestService(t)
	ctx := t.Context()

	user, err := svc.SignUp(ctx, "coach@example.com", "correct horse", "Coach")
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if err = svc.SetStripeCustomer(ctx, user.ID, "cus_123"); err != nil {
		t.Fatalf("set stripe customer: %v", err)
	}

	periodEnd := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	if err = svc.SyncSubscription(ctx, "cus_123", account.SubscriptionActive, "price_123", periodEnd); err != nil {
		t.Fatalf("sync subscription: %v", err)
	}

	user, err = svc.UserByStripeCustomer(ctx, "cus_123")
	if err != nil {
		t.Fatalf("get user by stripe customer: %v", err)
	}
	if !user.HasActiveSubscription() {
		t.Errorf("user subscription status = %q, want active access", user.SubscriptionStatus)
	}
	if user.SubscriptionPeriodEnd == nil || !user.SubscriptionPeriodEnd.Equal(periodEnd) {
		t.Errorf("subscription period end = %v, want %v", user.SubscriptionPeriodEnd, periodEnd)
	}

	if err = svc.SyncSubscription(ctx, "cus_123", account.SubscriptionCanceled, "price_123", time.Time{}); err != nil {
		t.Fatalf("sync canceled subscription: %v", err)
	}
	user, err = svc.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if user.HasActiveSubscription() {
		t.Error("canceled subscription still reports active access")
	}

	if err = svc.SyncSubscription(ctx, "cus_unknown", account.SubscriptionActive, "", time.Time{}); !errors.Is(err, account.ErrNotFound) {
		t.Errorf("sync for unknown customer error = %v, want ErrNotFound", err)
	}
}
