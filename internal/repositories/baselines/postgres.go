// Package baselines provides PostgreSQL- and SQLite-backed repositories for
// per-user clinical assessment baselines (replace-on-write).
package baselines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the user's baseline or common.ErrNotFound.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.Baseline, error) {
	query := `SELECT user_id, phq9_score, phq9_severity, gad7_score, gad7_severity,
			assessed_on, updated_at
		FROM baselines WHERE user_id = $1`

	var b models.Baseline
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&b.UserID, &b.PHQ9Score, &b.PHQ9Severity, &b.GAD7Score, &b.GAD7Severity,
		&b.AssessedOn, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select baseline: %w", err)
	}
	b.AssessedOn = models.Day(b.AssessedOn)
	return &b, nil
}

// Replace overwrites the user's baseline, creating the row when absent.
func (r *PostgresRepository) Replace(ctx context.Context, b *models.Baseline) error {
	query := `
		INSERT INTO baselines (user_id, phq9_score, phq9_severity, gad7_score,
			gad7_severity, assessed_on, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id)
		DO UPDATE SET
			phq9_score = EXCLUDED.phq9_score,
			phq9_severity = EXCLUDED.phq9_severity,
			gad7_score = EXCLUDED.gad7_score,
			gad7_severity = EXCLUDED.gad7_severity,
			assessed_on = EXCLUDED.assessed_on,
			updated_at = now()`

	_, err := r.db.ExecContext(ctx, query,
		b.UserID, b.PHQ9Score, b.PHQ9Severity, b.GAD7Score, b.GAD7Severity,
		models.Day(b.AssessedOn))
	if err != nil {
		return fmt.Errorf("failed to replace baseline: %w", err)
	}
	return nil
}
