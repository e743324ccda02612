package program

import (
	"context"
	"fmt"

	"github.com/halteresai/server/internal/sqlite"
)

// generationRepository records generation runs for auditing.
type generationRepository struct {
	db *sqlite.Database
}

func (r *generationRepository) create(ctx context.Context, g Generation) error {
	_, err := r.db.ReadWrite.ExecContext(ctx, `
		INSERT INTO generations (id, program_id, raw_content, status)
		VALUES (?, ?, ?, ?)`,
		g.ID, g.ProgramID, g.RawContent, g.Status)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}
	return nil
}

func (r *generationRepository) list(ctx context.Context, programID string) ([]Generation, error) {
	rows, err := r.db.ReadOnly.QueryContext(ctx, `
		SELECT id, program_id, raw_content, status, created_at
		FROM generations
		WHERE program_id = ?
		ORDER BY created_at DESC`, programID)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var generations []Generation
	for rows.Next() {
		var g Generation
		if err = rows.Scan(&g.ID, &g.ProgramID, &g.RawContent, &g.Status, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		generations = append(generations, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generations: %w", err)
	}
	return generations, nil
}
