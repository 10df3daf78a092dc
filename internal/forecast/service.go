// Package forecast turns a rolling window of daily logs plus the clinical
// baseline into a burnout risk forecast. It is read-only and deterministic:
// the same window and baseline always produce the same result.
package forecast

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
	"github.com/avelichka/mindfulme/internal/repositories/repomanager"
)

// Service computes forecasts and trailing-week summaries.
type Service struct {
	db  *sql.DB
	rm  repomanager.RepositoryManager
	cfg policy.Forecast
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, p policy.Policy) *Service {
	return &Service{db: db, rm: rm, cfg: p.Forecast}
}

// Forecast reads the windowDays most recent logs up to asOf (0 selects the
// configured default window) and the user's baseline, and computes the
// composite risk. Fewer than the minimum required days of history yields
// Status indeterminate with no numeric score; that is a defined outcome,
// not an error.
func (s *Service) Forecast(ctx context.Context, userID string, asOf time.Time, windowDays int) (*models.ForecastResult, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.WindowDays
	}
	to := models.Day(asOf)
	from := to.AddDate(0, 0, -(windowDays - 1))

	logs, err := s.rm.DailyLogs(s.db).SelectRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("reading log window: %w", err)
	}

	result := &models.ForecastResult{
		WindowDays:   windowDays,
		DaysObserved: len(logs),
	}
	if len(logs) < s.cfg.MinRequiredDays {
		result.Status = models.ForecastIndeterminate
		return result, nil
	}

	baseline, err := s.rm.Baselines(s.db).Get(ctx, userID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("reading baseline: %w", err)
	}

	score := s.composite(logs, from, baseline)
	band := s.band(score)

	result.Status = models.ForecastOK
	result.RiskScore = &score
	result.Band = &band
	return result, nil
}

// composite combines the documented risk components:
//
//   - mood trend: the least-squares slope of mood over the window, mapped to
//     [0,1] so that a flat trend is neutral (0.5) and a decline of
//     MoodSlopeScale points per day saturates at 1;
//   - sentiment trend: same mapping for polarity, neutral when fewer than
//     two logs carry sentiment;
//   - vocal tension: the mean stored tension, zero when no log has one
//     (absent vocal evidence adds no risk);
//
// weighted per policy, multiplied by the baseline severity multiplier and
// clipped to [0,1].
func (s *Service) composite(logs []*models.DailyLog, from time.Time, baseline *models.Baseline) float64 {
	moodXs := make([]float64, 0, len(logs))
	moodYs := make([]float64, 0, len(logs))
	var sentXs, sentYs []float64
	var tensionSum float64
	tensionCount := 0

	for _, log := range logs {
		x := log.LogDate.Sub(from).Hours() / 24
		moodXs = append(moodXs, x)
		moodYs = append(moodYs, float64(log.Mood))
		if log.SentimentPolarity != nil {
			sentXs = append(sentXs, x)
			sentYs = append(sentYs, *log.SentimentPolarity)
		}
		if log.VocalTension != nil {
			tensionSum += *log.VocalTension
			tensionCount++
		}
	}

	moodRisk := trendRisk(slope(moodXs, moodYs), s.cfg.MoodSlopeScale)

	sentimentRisk := 0.5
	if len(sentXs) >= 2 {
		sentimentRisk = trendRisk(slope(sentXs, sentYs), s.cfg.SentimentSlopeScale)
	}

	tensionRisk := 0.0
	if tensionCount > 0 {
		tensionRisk = tensionSum / float64(tensionCount)
	}

	score := s.cfg.MoodTrendWeight*moodRisk +
		s.cfg.SentimentTrendWeight*sentimentRisk +
		s.cfg.TensionWeight*tensionRisk

	return clamp01(score * s.multiplier(baseline))
}

// multiplier picks the larger of the two instrument multipliers; a user
// without a baseline gets a neutral 1.0.
func (s *Service) multiplier(baseline *models.Baseline) float64 {
	if baseline == nil {
		return 1.0
	}
	m := 1.0
	if v, ok := s.cfg.BaselineMultipliers[baseline.PHQ9Severity]; ok {
		m = v
	}
	if v, ok := s.cfg.BaselineMultipliers[baseline.GAD7Severity]; ok && v > m {
		m = v
	}
	return m
}

func (s *Service) band(score float64) models.RiskBand {
	switch {
	case score <= s.cfg.LowMax:
		return models.RiskLow
	case score <= s.cfg.ModerateMax:
		return models.RiskModerate
	default:
		return models.RiskHigh
	}
}

// trendRisk maps a per-day slope to [0,1]: flat is 0.5, a decline of scale
// units per day is 1, an equally steep improvement is 0.
func trendRisk(slope, scale float64) float64 {
	return clamp01(0.5 - slope/scale)
}

// slope returns the least-squares slope of y over x; 0 when the xs do not
// span more than a single point.
func slope(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var num, den float64
	for i := range xs {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// WeeklyStats summarizes the trailing seven days up to asOf: mean mood,
// mean sleep, journal count, emotion distribution and mean vocal tension.
func (s *Service) WeeklyStats(ctx context.Context, userID string, asOf time.Time) (*models.WeeklyStats, error) {
	to := models.Day(asOf)
	from := to.AddDate(0, 0, -6)

	logs, err := s.rm.DailyLogs(s.db).SelectRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("reading log window: %w", err)
	}

	stats := &models.WeeklyStats{
		SentimentDistribution: make(map[models.Emotion]int),
		DaysObserved:          len(logs),
	}
	if len(logs) == 0 {
		return stats, nil
	}

	var moodSum, sleepSum, tensionSum float64
	sleepCount, tensionCount := 0, 0
	for _, log := range logs {
		moodSum += float64(log.Mood)
		if log.JournalText != nil {
			stats.JournalCount++
		}
		if log.SentimentEmotion != nil {
			stats.SentimentDistribution[*log.SentimentEmotion]++
		}
		if log.SleepHours != nil {
			sleepSum += *log.SleepHours
			sleepCount++
		}
		if log.VocalTension != nil {
			tensionSum += *log.VocalTension
			tensionCount++
		}
	}

	stats.MeanMood = moodSum / float64(len(logs))
	if sleepCount > 0 {
		mean := sleepSum / float64(sleepCount)
		stats.MeanSleepHours = &mean
	}
	if tensionCount > 0 {
		mean := tensionSum / float64(tensionCount)
		stats.MeanVocalTension = &mean
	}
	return stats, nil
}

func clamp01(x float64) float64 {
	return math.Min(1, math.Max(0, x))
}
