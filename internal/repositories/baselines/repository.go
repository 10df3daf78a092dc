package baselines

import (
	"context"

	"github.com/avelichka/mindfulme/internal/models"
)

// Repository is the persistence contract for clinical assessment baselines.
// Exactly one live baseline exists per user: Replace overwrites it in full.
// Get returns common.ErrNotFound when the user has no baseline yet.
type Repository interface {
	Get(ctx context.Context, userID string) (*models.Baseline, error)
	Replace(ctx context.Context, b *models.Baseline) error
}
