// Package journal aggregates per-day signals (mood, journal text, voice,
// sleep) into one DailyLog per user per calendar date. It owns the write
// path to daily logs; forecasting reads them through the repositories.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/logging"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
	"github.com/avelichka/mindfulme/internal/repositories/repomanager"
)

// SentimentAnalyzer infers polarity and emotion from journal text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (models.SentimentResult, error)
}

// VoiceExtractor derives vocal biomarkers from decoded PCM samples.
type VoiceExtractor interface {
	Extract(samples []float64, sampleRate int) (models.VocalResult, error)
}

// AudioClip is a decoded recording as delivered by the audio supplier.
type AudioClip struct {
	Samples    []float64
	SampleRate int
}

// SubmitRequest carries one daily check-in. Date zero means "derive the
// calendar date from the submission time". Nil optional fields are omitted:
// on resubmission they keep whatever the stored row already has.
type SubmitRequest struct {
	UserID       string
	Date         time.Time
	Mood         int
	JournalText  *string
	Audio        *AudioClip
	SleepHours   *float64
	SleepQuality *int
}

// Service combines extractor outputs with manual entries and upserts the
// result. All writes go through one transaction per submission.
type Service struct {
	db        *sql.DB
	rm        repomanager.RepositoryManager
	analyzer  SentimentAnalyzer
	extractor VoiceExtractor
	bounds    policy.Journal
	logger    logging.Logger
	now       func() time.Time
}

func NewService(db *sql.DB, rm repomanager.RepositoryManager, analyzer SentimentAnalyzer,
	extractor VoiceExtractor, p policy.Policy, logger logging.Logger) *Service {
	return &Service{
		db:        db,
		rm:        rm,
		analyzer:  analyzer,
		extractor: extractor,
		bounds:    p.Journal,
		logger:    logger,
		now:       time.Now,
	}
}

// Submit validates the request, runs the optional journal text and audio
// through their extractors and upserts the (user, date) row.
//
// Failure policy: validation and audio errors reject the submission with no
// write. A sentiment inference failure degrades instead: the log is saved
// without sentiment fields and the failure is logged, so a broken model
// never blocks a check-in.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.DailyLog, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	patch := &models.DailyLogPatch{
		ID:           uuid.NewString(),
		UserID:       req.UserID,
		LogDate:      models.Day(date),
		Mood:         req.Mood,
		SleepHours:   req.SleepHours,
		SleepQuality: req.SleepQuality,
	}

	if req.JournalText != nil {
		text := strings.TrimSpace(*req.JournalText)
		if text != "" {
			patch.JournalText = &text
			s.attachSentiment(ctx, patch, text)
		}
	}

	if req.Audio != nil {
		vocal, err := s.extractor.Extract(req.Audio.Samples, req.Audio.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("extracting vocal biomarkers: %w", err)
		}
		patch.VocalPitchHz = &vocal.PitchHz
		patch.VocalJitter = &vocal.Jitter
		patch.VocalTension = vocal.Tension
	}

	var saved *models.DailyLog
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		saved, err = s.rm.DailyLogs(tx).Upsert(ctx, patch)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("saving daily log: %w", err)
	}

	s.logger.Info(ctx, "daily log saved",
		"user", req.UserID, "date", patch.LogDate.Format("2006-01-02"),
		"mood", req.Mood,
		"has_journal", patch.JournalText != nil,
		"has_sentiment", patch.SentimentPolarity != nil,
		"has_audio", req.Audio != nil)

	return saved, nil
}

// attachSentiment fills the sentiment fields, degrading silently on
// inference failures. Anything that is not an inference failure (e.g.
// caller cancellation) is still only logged: a check-in must always
// outlive the model.
func (s *Service) attachSentiment(ctx context.Context, patch *models.DailyLogPatch, text string) {
	res, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		if errors.Is(err, common.ErrInference) {
			s.logger.Warn(ctx, "sentiment inference failed, saving log without sentiment",
				"user", patch.UserID, "error", err)
		} else {
			s.logger.Warn(ctx, "sentiment analysis aborted, saving log without sentiment",
				"user", patch.UserID, "error", err)
		}
		return
	}
	patch.SentimentPolarity = &res.Polarity
	emotion := res.Emotion
	patch.SentimentEmotion = &emotion

	// Distortions are advisory; they ride in the log stream, not the row.
	if len(res.Distortions) > 0 {
		s.logger.Info(ctx, "cognitive distortions detected",
			"user", patch.UserID, "distortions", res.Distortions)
	}
}

func (s *Service) validate(req SubmitRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return fmt.Errorf("%w: missing user id", common.ErrValidation)
	}
	if req.Mood < s.bounds.MoodMin || req.Mood > s.bounds.MoodMax {
		return fmt.Errorf("%w: mood %d outside [%d,%d]",
			common.ErrValidation, req.Mood, s.bounds.MoodMin, s.bounds.MoodMax)
	}
	if req.SleepHours != nil {
		if *req.SleepHours < 0 || *req.SleepHours >= s.bounds.SleepHoursMax {
			return fmt.Errorf("%w: sleep hours %.1f outside [0,%.0f)",
				common.ErrValidation, *req.SleepHours, s.bounds.SleepHoursMax)
		}
	}
	if req.SleepQuality != nil {
		if *req.SleepQuality < s.bounds.SleepQualityMin || *req.SleepQuality > s.bounds.SleepQualityMax {
			return fmt.Errorf("%w: sleep quality %d outside [%d,%d]",
				common.ErrValidation, *req.SleepQuality, s.bounds.SleepQualityMin, s.bounds.SleepQualityMax)
		}
	}
	return nil
}
