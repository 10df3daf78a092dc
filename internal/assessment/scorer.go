// Package assessment scores the PHQ-9 and GAD-7 clinical questionnaires and
// maintains the per-user assessment baseline.
//
// Scoring is pure: the raw score is the sum of the answers and the severity
// band comes from the policy cut-point tables, so identical answer vectors
// always produce identical results.
package assessment

import (
	"fmt"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
)

const (
	PHQ9Length = 9
	GAD7Length = 7

	answerMin = 0
	answerMax = 3
)

// Scorer maps questionnaire answer vectors to raw scores and severity bands.
type Scorer struct {
	phq9Bands []policy.SeverityBand
	gad7Bands []policy.SeverityBand
}

func NewScorer(p policy.Policy) *Scorer {
	return &Scorer{phq9Bands: p.PHQ9Bands, gad7Bands: p.GAD7Bands}
}

// ScorePHQ9 scores a 9-item depression questionnaire.
func (s *Scorer) ScorePHQ9(answers []int) (models.ScoreResult, error) {
	return score(answers, PHQ9Length, s.phq9Bands)
}

// ScoreGAD7 scores a 7-item anxiety questionnaire.
func (s *Scorer) ScoreGAD7(answers []int) (models.ScoreResult, error) {
	return score(answers, GAD7Length, s.gad7Bands)
}

func score(answers []int, wantLen int, bands []policy.SeverityBand) (models.ScoreResult, error) {
	if len(answers) != wantLen {
		return models.ScoreResult{}, fmt.Errorf("%w: expected %d answers, got %d",
			common.ErrValidation, wantLen, len(answers))
	}

	raw := 0
	for i, a := range answers {
		if a < answerMin || a > answerMax {
			return models.ScoreResult{}, fmt.Errorf("%w: answer %d out of range [%d,%d]: %d",
				common.ErrValidation, i+1, answerMin, answerMax, a)
		}
		raw += a
	}

	for _, b := range bands {
		if raw >= b.Min && raw <= b.Max {
			return models.ScoreResult{Raw: raw, Severity: b.Severity}, nil
		}
	}
	// Validate() guarantees the bands cover the full reachable range.
	return models.ScoreResult{}, fmt.Errorf("%w: no severity band covers score %d", common.ErrInternal, raw)
}
