package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
)

func newScorer() *Scorer {
	return NewScorer(policy.Default())
}

func TestScorePHQ9_RawEqualsSum(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name    string
		answers []int
		wantRaw int
		want    models.Severity
	}{
		{"all zero", []int{0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, models.SeverityMinimal},
		{"all max", []int{3, 3, 3, 3, 3, 3, 3, 3, 3}, 27, models.SeveritySevere},
		{"mild", []int{1, 1, 1, 1, 1, 0, 0, 0, 0}, 5, models.SeverityMild},
		{"moderate", []int{2, 2, 2, 2, 2, 0, 0, 0, 0}, 10, models.SeverityModerate},
		{"moderately severe", []int{2, 2, 2, 2, 2, 2, 2, 1, 0}, 15, models.SeverityModeratelySevere},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ScorePHQ9(tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.wantRaw, got.Raw)
			assert.Equal(t, tc.want, got.Severity)
		})
	}
}

func TestScoreGAD7_Bands(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name    string
		answers []int
		want    models.Severity
	}{
		{"minimal", []int{0, 0, 0, 0, 0, 0, 0}, models.SeverityMinimal},
		{"mild", []int{1, 1, 1, 1, 1, 0, 0}, models.SeverityMild},
		{"moderate", []int{2, 2, 2, 2, 2, 0, 0}, models.SeverityModerate},
		{"severe max", []int{3, 3, 3, 3, 3, 3, 3}, models.SeveritySevere},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.ScoreGAD7(tc.answers)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Severity)
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	s := newScorer()
	answers := []int{1, 0, 2, 3, 1, 0, 2, 1, 1}

	first, err := s.ScorePHQ9(answers)
	require.NoError(t, err)
	second, err := s.ScorePHQ9(answers)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScore_RejectsBadInput(t *testing.T) {
	s := newScorer()

	tests := []struct {
		name    string
		answers []int
	}{
		{"too short", []int{1, 2, 3}},
		{"too long", []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
		{"negative answer", []int{1, 1, -1, 1, 1, 1, 1, 1, 1}},
		{"answer above max", []int{1, 1, 4, 1, 1, 1, 1, 1, 1}},
		{"nil", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ScorePHQ9(tc.answers)
			assert.True(t, errors.Is(err, common.ErrValidation), "want ErrValidation, got %v", err)
		})
	}
}
