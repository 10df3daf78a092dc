package baselines

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/models"
)

const dateLayout = "2006-01-02"

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// Get returns the user's baseline or common.ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*models.Baseline, error) {
	query := `SELECT user_id, phq9_score, phq9_severity, gad7_score, gad7_severity,
			assessed_on, updated_at
		FROM baselines WHERE user_id = ?`

	var (
		b          models.Baseline
		assessedOn string
		updatedAt  string
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&b.UserID, &b.PHQ9Score, &b.PHQ9Severity, &b.GAD7Score, &b.GAD7Severity,
		&assessedOn, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select baseline: %w", err)
	}

	if b.AssessedOn, err = time.ParseInLocation(dateLayout, assessedOn, time.UTC); err != nil {
		return nil, fmt.Errorf("bad assessed_on %q: %w", assessedOn, err)
	}
	if b.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}
	return &b, nil
}

// Replace overwrites the user's baseline, creating the row when absent.
func (r *SQLiteRepository) Replace(ctx context.Context, b *models.Baseline) error {
	query := `
		INSERT INTO baselines (user_id, phq9_score, phq9_severity, gad7_score,
			gad7_severity, assessed_on, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			phq9_score = excluded.phq9_score,
			phq9_severity = excluded.phq9_severity,
			gad7_score = excluded.gad7_score,
			gad7_severity = excluded.gad7_severity,
			assessed_on = excluded.assessed_on,
			updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		b.UserID, b.PHQ9Score, b.PHQ9Severity, b.GAD7Score, b.GAD7Severity,
		models.Day(b.AssessedOn).Format(dateLayout),
		r.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to replace baseline: %w", err)
	}
	return nil
}
