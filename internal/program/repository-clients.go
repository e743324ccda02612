package program

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/sqlite"
)

// clientRepository handles database operations for clients.
type clientRepository struct {
	db *sqlite.Database
}

func (r *clientRepository) create(ctx context.Context, c Client) error {
	m := c.Metrics
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO clients (
			id, user_id, name, gender, height_cm, weight_kg,
			bench_1rm, squat_1rm, deadlift_1rm, mile_time, recovery_score, injury_history
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, m.Gender,
		nullFloat(m.HeightCM), nullFloat(m.WeightKG),
		nullFloat(m.Bench1RM), nullFloat(m.Squat1RM), nullFloat(m.Deadlift1RM),
		m.MileTime, nullFloat(m.RecoveryScore), m.InjuryHistory)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *clientRepository) get(ctx context.Context, id string) (Client, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, name, gender, height_cm, weight_kg,
		       bench_1rm, squat_1rm, deadlift_1rm, mile_time, recovery_score, injury_history,
		       created_at
		FROM clients
		WHERE id = ?`, id)
	c, err := scanClient(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Client{}, fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Client{}, fmt.Errorf("query client: %w", err)
	}
	return c, nil
}

func (r *clientRepository) list(ctx context.Context, userID string) ([]Client, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, name, gender, height_cm, weight_kg,
		       bench_1rm, squat_1rm, deadlift_1rm, mile_time, recovery_score, injury_history,
		       created_at
		FROM clients
		WHERE user_id = ?
		ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("query clients: %w", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if c, err = scanClient(rows.Scan); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return clients, nil
}

func (r *clientRepository) updateMetrics(ctx context.Context, id string, m ClientMetrics) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `
		UPDATE clients
		SET gender = ?, height_cm = ?, weight_kg = ?,
		    bench_1rm = ?, squat_1rm = ?, deadlift_1rm = ?,
		    mile_time = ?, recovery_score = ?, injury_history = ?
		WHERE id = ?`,
		m.Gender, nullFloat(m.HeightCM), nullFloat(m.WeightKG),
		nullFloat(m.Bench1RM), nullFloat(m.Squat1RM), nullFloat(m.Deadlift1RM),
		m.MileTime, nullFloat(m.RecoveryScore), m.InjuryHistory, id)
	if err != nil {
		return fmt.Errorf("update client metrics: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanClient(scan func(...any) error) (Client, error) {
	var c Client
	var height, weight, bench, squat, deadlift, recovery sql.NullFloat64
	if err := scan(&c.ID, &c.UserID, &c.Name, &c.Metrics.Gender, &height, &weight,
		&bench, &squat, &deadlift, &c.Metrics.MileTime, &recovery, &c.Metrics.InjuryHistory,
		&c.CreatedAt); err != nil {
		return Client{}, err
	}
	c.Metrics.HeightCM = height.Float64
	c.Metrics.WeightKG = weight.Float64
	c.Metrics.Bench1RM = bench.Float64
	c.Metrics.Squat1RM = squat.Float64
	c.Metrics.Deadlift1RM = deadlift.Float64
	c.Metrics.RecoveryScore = recovery.Float64
	return c, nil
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v != 0}
}
