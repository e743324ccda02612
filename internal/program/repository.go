package program

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/halteresai/server/internal/errors"
	"github.com/halteresai/server/internal/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.NewSentinel("not found")

// repository aggregates the sqlite-backed repositories of the package.
type repository struct {
	programs    *programRepository
	workouts    *workoutRepository
	clients     *clientRepository
	generations *generationRepository
}

func newRepository(db *sqlite.Database) *repository {
	return &repository{
		programs:    &programRepository{db: db},
		workouts:    &workoutRepository{db: db},
		clients:     &clientRepository{db: db},
		generations: &generationRepository{db: db},
	}
}

// programRepository handles database operations for programs.
type programRepository struct {
	db *sqlite.Database
}

func (r *programRepository) create(ctx context.Context, p Program) error {
	settings, err := marshalSettings(p.Settings)
	if err != nil {
		return err
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO programs (id, user_id, client_id, title, description, overview, settings)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, nullString(p.ClientID), p.Title, p.Description, p.Overview, settings)
	if err != nil {
		return fmt.Errorf("insert program: %w", err)
	}
	return nil
}

func (r *programRepository) get(ctx context.Context, id string) (Program, error) {
	var (
		p        Program
		clientID sql.NullString
		settings string
	)
	err := r.db.ReadOnly.QueryRowContext(ctx, `
		SELECT id, user_id, client_id, title, description, overview, settings, created_at, updated_at
		FROM programs
		WHERE id = ?`, id).Scan(
		&p.ID, &p.UserID, &clientID, &p.Title, &p.Description, &p.Overview, &settings,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Program{}, fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Program{}, fmt.Errorf("query program: %w", err)
	}
	p.ClientID = clientID.String
	if err = json.Unmarshal([]byte(settings), &p.Settings); err != nil {
		return Program{}, fmt.Errorf("unmarshal program settings: %w", err)
	}
	return p, nil
}

func (r *programRepository) list(ctx context.Context, userID string) ([]Program, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, user_id, client_id, title, description, overview, settings, created_at, updated_at
		FROM programs
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query programs: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		var (
			p        Program
			clientID sql.NullString
			settings string
		)
		if err = rows.Scan(&p.ID, &p.UserID, &clientID, &p.Title, &p.Description, &p.Overview,
			&settings, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan program: %w", err)
		}
		p.ClientID = clientID.String
		if err = json.Unmarshal([]byte(settings), &p.Settings); err != nil {
			return nil, fmt.Errorf("unmarshal program settings: %w", err)
		}
		programs = append(programs, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate programs: %w", err)
	}
	return programs, nil
}

func (r *programRepository) delete(ctx context.Context, id string) error {
	result, err := r.db.ReadWrite.ExecContext(ctx, `DELETE FROM programs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete program: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("program %s: %w", id, ErrNotFound)
	}
	return nil
}

// updateGenerated applies the program-level outcome of a generation run.
func (r *programRepository) updateGenerated(
	ctx context.Context, id, title, description, overview string, settings map[string]any,
) error {
	settingsJSON, err := marshalSettings(settings)
	if err != nil {
		return err
	}
	_, err = r.db.ReadWrite.ExecContext(ctx, `
		UPDATE programs
		SET title = ?, description = ?, overview = ?, settings = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		title, description, overview, settingsJSON, id)
	if err != nil {
		return fmt.Errorf("update program: %w", err)
	}
	return nil
}

func marshalSettings(settings map[string]any) (string, error) {
	if settings == nil {
		return "{}", nil
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return "", fmt.Errorf("marshal settings: %w", err)
	}
	return string(data), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
