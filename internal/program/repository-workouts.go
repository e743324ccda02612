package program

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/sqlite"
)

// workoutRepository handles database operations for workouts.
type workoutRepository struct {
	db *sqlite.Database
}

func (r *workoutRepository) create(ctx context.Context, w Workout) error {
	tags, err := json.Marshal(w.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO workouts (id, program_id, title, body, scheduled_date, is_reference, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.ProgramID, w.Title, w.Body, w.ScheduledDate, w.IsReference, string(tags))
	if err != nil {
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

func (r *workoutRepository) get(ctx context.Context, id string) (Workout, error) {
	row := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, program_id, title, body, scheduled_date, is_reference, tags, created_at
		FROM workouts
		WHERE id = ?`, id)
	w, err := scanWorkout(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Workout{}, fmt.Errorf("workout %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Workout{}, fmt.Errorf("query workout: %w", err)
	}
	return w, nil
}

func (r *workoutRepository) list(ctx context.Context, programID string) ([]Workout, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, program_id, title, body, scheduled_date, is_reference, tags, created_at
		FROM workouts
		WHERE program_id = ?
		ORDER BY scheduled_date, created_at`, programID)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		if w, err = scanWorkout(rows.Scan); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workouts: %w", err)
	}
	return workouts, nil
}

// listReferences returns the reference workouts of a program, most recent
// first, so prompts lean on the freshest material.
func (r *workoutRepository) listReferences(ctx context.Context, programID string) ([]ReferenceWorkout, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT title, body
		FROM workouts
		WHERE program_id = ? AND is_reference
		ORDER BY created_at DESC`, programID)
	if err != nil {
		return nil, fmt.Errorf("query reference workouts: %w", err)
	}
	defer rows.Close()

	var references []ReferenceWorkout
	for rows.Next() {
		var reference ReferenceWorkout
		if err = rows.Scan(&reference.Title, &reference.Body); err != nil {
			return nil, fmt.Errorf("scan reference workout: %w", err)
		}
		references = append(references, reference)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reference workouts: %w", err)
	}
	return references, nil
}

func scanWorkout(scan func(...any) error) (Workout, error) {
	var (
		w    Workout
		tags string
	)
	if err := scan(&w.ID, &w.ProgramID, &w.Title, &w.Body, &w.ScheduledDate,
		&w.IsReference, &tags, &w.CreatedAt); err != nil {
		return Workout{}, err
	}
	if err := json.Unmarshal([]byte(tags), &w.Tags); err != nil {
		return Workout{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	return w, nil
}
