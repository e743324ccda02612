package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/ptr"
	"github.com/halteresai/server/internal/sqlite"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.NewSentinel("user not found")
	// ErrEmailTaken is returned when signing up with an existing email.
	ErrEmailTaken = errors.NewSentinel("email already registered")
)

// repository handles database operations for users.
type repository struct {
	db *sqlite.Database
}

func (r *repository) create(ctx context.Context, user User, passwordHash []byte) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, string(passwordHash), user.Name)
	if isUniqueViolation(err) {
		return fmt.Errorf("email %s: %w", user.Email, ErrEmailTaken)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *repository) get(ctx context.Context, id string) (User, error) {
	user, _, err := r.scanUser(r.db.ReadOnly.QueryRowContext(ctx, userSelect+`WHERE id = ?`, id))
	if err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *repository) getByEmail(ctx context.Context, email string) (User, []byte, error) {
	return r.scanUser(r.db.ReadOnly.QueryRowContext(ctx, userSelect+`WHERE email = ?`, email))
}

func (r *repository) getByStripeCustomer(ctx context.Context, customerID string) (User, error) {
	user, _, err := r.scanUser(r.db.ReadOnly.QueryRowContext(ctx,
		userSelect+`WHERE stripe_customer_id = ?`, customerID))
	if err != nil {
		return User{}, err
	}
	return user, nil
}

const userSelect = `
	SELECT id, email, password_hash, name, is_admin, stripe_customer_id,
	       subscription_status, subscription_price_id, subscription_period_end, created_at
	FROM users
	`

func (r *repository) scanUser(row *sql.Row) (User, []byte, error) {
	var (
		user         User
		passwordHash string
		periodEnd    sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Email, &passwordHash, &user.Name, &user.IsAdmin,
		&user.StripeCustomerID, &user.SubscriptionStatus, &user.SubscriptionPriceID,
		&periodEnd, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, nil, ErrNotFound
	}
	if err != nil {
		return User{}, nil, fmt.Errorf("scan user: %w", err)
	}
	if periodEnd.Valid {
		user.SubscriptionPeriodEnd = ptr.Ref(periodEnd.Time)
	}
	return user, []byte(passwordHash), nil
}

func (r *repository) setStripeCustomer(ctx context.Context, userID, customerID string) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE users SET stripe_customer_id = ? WHERE id = ?`, customerID, userID)
	if err != nil {
		return fmt.Errorf("set stripe customer: %w", err)
	}
	return nil
}

func (r *repository) updateSubscription(
	ctx context.Context, customerID string, status SubscriptionStatus, priceID string, periodEnd time.Time,
) error {
	var end sql.NullTime
	if !periodEnd.IsZero() {
		end = sql.NullTime{Time: periodEnd, Valid: true}
	}
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE users
		SET subscription_status = ?, subscription_price_id = ?, subscription_period_end = ?
		WHERE stripe_customer_id = ?`,
		string(status), priceID, end, customerID)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("stripe customer %s: %w", customerID, ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
