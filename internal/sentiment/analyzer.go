package sentiment

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
)

// Analyzer is the inference entry point used by the aggregator. It trims and
// truncates journal text, then runs it through the shared model.
type Analyzer struct {
	provider *Provider
	maxRunes int
}

func NewAnalyzer(provider *Provider, p policy.Policy) *Analyzer {
	return &Analyzer{provider: provider, maxRunes: p.Sentiment.MaxRunes}
}

// Analyze infers polarity, emotion and cognitive distortions for one
// journal entry. Empty or whitespace-only text fails with
// common.ErrInference; text beyond the configured maximum is truncated
// deterministically, never rejected.
func (a *Analyzer) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.SentimentResult{}, fmt.Errorf("%w: empty journal text", common.ErrInference)
	}

	if runes := []rune(trimmed); len(runes) > a.maxRunes {
		trimmed = string(runes[:a.maxRunes])
	}

	model, err := a.provider.Get(ctx)
	if err != nil {
		return models.SentimentResult{}, err
	}

	norm := normalize(trimmed)
	result := model.Infer(strings.Fields(norm))
	result.Distortions = model.DetectDistortions(norm)
	return result, nil
}

// normalize lowercases the text and collapses every run of non-letter,
// non-digit characters to a single space. Both token inference and phrase
// matching work on this form.
func normalize(text string) string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
