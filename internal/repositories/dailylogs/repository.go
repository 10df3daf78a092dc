package dailylogs

import (
	"context"
	"time"

	"github.com/avelichka/mindfulme/internal/models"
)

// Repository is the persistence contract for daily signal records.
//
// Upsert inserts or patches the row keyed by (user, date): nil patch fields
// leave existing column values untouched, Mood always wins. SelectRange
// returns logs with from <= log_date <= to in chronological order.
type Repository interface {
	Upsert(ctx context.Context, p *models.DailyLogPatch) (*models.DailyLog, error)
	SelectRange(ctx context.Context, userID string, from, to time.Time) ([]*models.DailyLog, error)
}
