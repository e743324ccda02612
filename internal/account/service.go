package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/sqlite"
)

var (
	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.NewSentinel("invalid credentials")
	// ErrWeakPassword is returned when a password does not meet the minimum length.
	ErrWeakPassword = errors.NewSentinel("password must be at least 8 characters")
)

const minPasswordLength = 8

const userIDSessionKey = "userID"

// Service handles user accounts and their sessions.
type Service struct {
	repo     *repository
	sessions *scs.SessionManager
	logger   *slog.Logger
}

// NewService creates a new account service.
func NewService(db *sqlite.Database, logger *slog.Logger, sessions *scs.SessionManager) *Service {
	return &Service{
		repo:     &repository{db: db},
		sessions: sessions,
		logger:   logger,
	}
}

// SignUp registers a new user with a bcrypt-hashed password.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return User{}, fmt.Errorf("email %q: %w", email, ErrInvalidCredentials)
	}
	if len(password) < minPasswordLength {
		return User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:                 uuid.NewString(),
		Email:              email,
		Name:               name,
		SubscriptionStatus: SubscriptionNone,
	}
	if err = s.repo.create(ctx, user, hash); err != nil {
		return User{}, err
	}
	return s.repo.get(ctx, user.ID)
}

// Authenticate checks the email/password pair and returns the user.
// The same error is returned for unknown emails and wrong passwords.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, hash, err := s.repo.getByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("get user by email: %w", err)
	}
	if err = bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.get(ctx, id)
}

// LogIn stores the user in the session. The token is renewed to prevent
// session fixation.
func (s *Service) LogIn(ctx context.Context, user User) error {
	if err := s.sessions.RenewToken(ctx); err != nil {
		return fmt.Errorf("renew session token: %w", err)
	}
	s.sessions.Put(ctx, userIDSessionKey, user.ID)
	return nil
}

// LogOut destroys the session.
func (s *Service) LogOut(ctx context.Context) error {
	if err := s.sessions.Destroy(ctx); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// SetStripeCustomer links a Stripe customer id to a user.
func (s *Service) SetStripeCustomer(ctx context.Context, userID, customerID string) error {
	return s.repo.setStripeCustomer(ctx, userID, customerID)
}

// UserByStripeCustomer resolves a user from a Stripe customer id.
func (s *Service) UserByStripeCustomer(ctx context.Context, customerID string) (User, error) {
	return s.repo.getByStripeCustomer(ctx, customerID)
}

// SyncSubscription applies subscription state derived from a Stripe webhook
// to the user owning the customer id.
func (s *Service) SyncSubscription(
	ctx context.Context, customerID string, status SubscriptionStatus, priceID string, periodEnd time.Time,
) error {
	if err := s.repo.updateSubscription(ctx, customerID, status, priceID, periodEnd); err != nil {
		return err
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "subscription synced",
		slog.String("stripe_customer_id", customerID),
		slog.String("status", string(status)))
	return nil
}
