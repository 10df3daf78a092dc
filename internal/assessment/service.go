package assessment

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/logging"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
	"github.com/avelichka/mindfulme/internal/repositories/repomanager"
)

// AssessmentResult is the outcome of a completed two-instrument assessment.
type AssessmentResult struct {
	PHQ9     models.ScoreResult
	GAD7     models.ScoreResult
	Baseline models.Baseline
}

// Service owns the write path to Baseline records.
type Service struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	scorer *Scorer
	logger logging.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, p policy.Policy, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		rm:     rm,
		scorer: NewScorer(p),
		logger: logger,
		now:    time.Now,
	}
}

// Scorer exposes the pure scoring functions for callers that only need a
// score without persisting a baseline.
func (s *Service) Scorer() *Scorer {
	return s.scorer
}

// CompleteAssessment scores both instruments and replaces the user's baseline
// in one transaction. Either both scores land or neither does: a validation
// failure on the second instrument leaves the stored baseline untouched.
func (s *Service) CompleteAssessment(ctx context.Context, userID string, phq9, gad7 []int) (*AssessmentResult, error) {
	phq9Result, err := s.scorer.ScorePHQ9(phq9)
	if err != nil {
		return nil, fmt.Errorf("phq9: %w", err)
	}
	gad7Result, err := s.scorer.ScoreGAD7(gad7)
	if err != nil {
		return nil, fmt.Errorf("gad7: %w", err)
	}

	baseline := models.Baseline{
		UserID:       userID,
		PHQ9Score:    phq9Result.Raw,
		PHQ9Severity: phq9Result.Severity,
		GAD7Score:    gad7Result.Raw,
		GAD7Severity: gad7Result.Severity,
		AssessedOn:   models.Day(s.now()),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Baselines(tx).Replace(ctx, &baseline)
	})
	if err != nil {
		return nil, fmt.Errorf("replacing baseline: %w", err)
	}

	s.logger.Info(ctx, "baseline replaced",
		"user", userID,
		"phq9", phq9Result.Raw, "phq9_severity", phq9Result.Severity,
		"gad7", gad7Result.Raw, "gad7_severity", gad7Result.Severity)

	return &AssessmentResult{PHQ9: phq9Result, GAD7: gad7Result, Baseline: baseline}, nil
}
