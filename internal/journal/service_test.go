package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/logging"
	"github.com/avelichka/mindfulme/internal/models"
	"github.com/avelichka/mindfulme/internal/policy"
	"github.com/avelichka/mindfulme/internal/repositories/baselines"
	"github.com/avelichka/mindfulme/internal/repositories/dailylogs"
)

// --- fakes ---

type fakeAnalyzer struct {
	result models.SentimentResult
	err    error
	calls  int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (models.SentimentResult, error) {
	f.calls++
	if f.err != nil {
		return models.SentimentResult{}, f.err
	}
	return f.result, nil
}

type fakeExtractor struct {
	result models.VocalResult
	err    error
	calls  int
}

func (f *fakeExtractor) Extract(samples []float64, sampleRate int) (models.VocalResult, error) {
	f.calls++
	if f.err != nil {
		return models.VocalResult{}, f.err
	}
	return f.result, nil
}

type fakeLogsRepo struct {
	upserts []*models.DailyLogPatch
	err     error
}

func (f *fakeLogsRepo) Upsert(ctx context.Context, p *models.DailyLogPatch) (*models.DailyLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.upserts = append(f.upserts, p)
	return &models.DailyLog{
		ID:                p.ID,
		UserID:            p.UserID,
		LogDate:           p.LogDate,
		Mood:              p.Mood,
		JournalText:       p.JournalText,
		SentimentPolarity: p.SentimentPolarity,
		SentimentEmotion:  p.SentimentEmotion,
		VocalPitchHz:      p.VocalPitchHz,
		VocalJitter:       p.VocalJitter,
		VocalTension:      p.VocalTension,
		SleepHours:        p.SleepHours,
		SleepQuality:      p.SleepQuality,
	}, nil
}

func (f *fakeLogsRepo) SelectRange(ctx context.Context, userID string, from, to time.Time) ([]*models.DailyLog, error) {
	return nil, nil
}

type fakeRepoManager struct {
	logs *fakeLogsRepo
}

func (m *fakeRepoManager) Conn() *sql.DB                              { return nil }
func (m *fakeRepoManager) DailyLogs(db dbx.DBTX) dailylogs.Repository { return m.logs }
func (m *fakeRepoManager) Baselines(db dbx.DBTX) baselines.Repository { return nil }
func (m *fakeRepoManager) RunMigrations(ctx context.Context) error    { return nil }
func (m *fakeRepoManager) Close() error                               { return nil }

type deps struct {
	service   *Service
	mock      sqlmock.Sqlmock
	analyzer  *fakeAnalyzer
	extractor *fakeExtractor
	logs      *fakeLogsRepo
}

func newTestService(t *testing.T) *deps {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	d := &deps{
		mock:      mock,
		analyzer:  &fakeAnalyzer{result: models.SentimentResult{Polarity: 0.4, Emotion: models.EmotionJoy}},
		extractor: &fakeExtractor{result: models.VocalResult{PitchHz: 185, Jitter: 0.012}},
		logs:      &fakeLogsRepo{},
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	d.service = NewService(db, &fakeRepoManager{logs: d.logs}, d.analyzer, d.extractor, policy.Default(), logger)
	d.service.now = func() time.Time { return time.Date(2026, 3, 14, 16, 45, 0, 0, time.UTC) }
	return d
}

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func intPtr(i int) *int         { return &i }

func TestSubmit_FullCheckIn(t *testing.T) {
	d := newTestService(t)
	tension := 0.35
	d.extractor.result.Tension = &tension

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	saved, err := d.service.Submit(context.Background(), SubmitRequest{
		UserID:       "u1",
		Mood:         6,
		JournalText:  strPtr("  a decent day overall  "),
		Audio:        &AudioClip{Samples: make([]float64, 16000), SampleRate: 16000},
		SleepHours:   f64Ptr(7.5),
		SleepQuality: intPtr(4),
	})
	require.NoError(t, err)

	// date derived from submission time
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), saved.LogDate)
	require.NotNil(t, saved.JournalText)
	assert.Equal(t, "a decent day overall", *saved.JournalText, "journal text is trimmed")
	require.NotNil(t, saved.SentimentPolarity)
	assert.Equal(t, 0.4, *saved.SentimentPolarity)
	require.NotNil(t, saved.SentimentEmotion)
	assert.Equal(t, models.EmotionJoy, *saved.SentimentEmotion)
	require.NotNil(t, saved.VocalPitchHz)
	assert.Equal(t, 185.0, *saved.VocalPitchHz)
	require.NotNil(t, saved.VocalTension)
	assert.Equal(t, 0.35, *saved.VocalTension)

	assert.Equal(t, 1, d.analyzer.calls)
	assert.Equal(t, 1, d.extractor.calls)
	require.NoError(t, d.mock.ExpectationsWereMet())
}

func TestSubmit_MoodOutOfBoundsFailsWithoutWrite(t *testing.T) {
	d := newTestService(t)

	for _, mood := range []int{0, 11, -3} {
		_, err := d.service.Submit(context.Background(), SubmitRequest{UserID: "u1", Mood: mood})
		assert.ErrorIs(t, err, common.ErrValidation, "mood %d", mood)
	}
	assert.Empty(t, d.logs.upserts)
	require.NoError(t, d.mock.ExpectationsWereMet())
}

func TestSubmit_SleepBoundsValidated(t *testing.T) {
	d := newTestService(t)

	tests := []struct {
		name string
		req  SubmitRequest
	}{
		{"negative sleep", SubmitRequest{UserID: "u1", Mood: 5, SleepHours: f64Ptr(-1)}},
		{"sleep above ceiling", SubmitRequest{UserID: "u1", Mood: 5, SleepHours: f64Ptr(24)}},
		{"sleep quality too low", SubmitRequest{UserID: "u1", Mood: 5, SleepQuality: intPtr(0)}},
		{"sleep quality too high", SubmitRequest{UserID: "u1", Mood: 5, SleepQuality: intPtr(6)}},
		{"missing user", SubmitRequest{UserID: "  ", Mood: 5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.service.Submit(context.Background(), tc.req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
	assert.Empty(t, d.logs.upserts)
}

func TestSubmit_InferenceFailureDegradesToLogWithoutSentiment(t *testing.T) {
	d := newTestService(t)
	d.analyzer.err = fmt.Errorf("%w: weights missing", common.ErrInference)

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	saved, err := d.service.Submit(context.Background(), SubmitRequest{
		UserID:      "u1",
		Mood:        4,
		JournalText: strPtr("rough one"),
	})
	require.NoError(t, err, "inference failure must not reject the submission")

	require.NotNil(t, saved.JournalText)
	assert.Equal(t, "rough one", *saved.JournalText)
	assert.Nil(t, saved.SentimentPolarity, "no placeholder sentiment may be stored")
	assert.Nil(t, saved.SentimentEmotion)
	require.NoError(t, d.mock.ExpectationsWereMet())
}

func TestSubmit_AudioErrorRejectsSubmission(t *testing.T) {
	d := newTestService(t)
	d.extractor.err = fmt.Errorf("%w: recording too short", common.ErrAudio)

	_, err := d.service.Submit(context.Background(), SubmitRequest{
		UserID: "u1",
		Mood:   5,
		Audio:  &AudioClip{Samples: make([]float64, 100), SampleRate: 16000},
	})
	assert.ErrorIs(t, err, common.ErrAudio)
	assert.Empty(t, d.logs.upserts, "no partial write on audio failure")
	require.NoError(t, d.mock.ExpectationsWereMet())
}

func TestSubmit_WhitespaceJournalTreatedAsAbsent(t *testing.T) {
	d := newTestService(t)

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	saved, err := d.service.Submit(context.Background(), SubmitRequest{
		UserID:      "u1",
		Mood:        5,
		JournalText: strPtr("   \n "),
	})
	require.NoError(t, err)
	assert.Nil(t, saved.JournalText)
	assert.Equal(t, 0, d.analyzer.calls)
}

func TestSubmit_ExplicitDateNormalizedToDay(t *testing.T) {
	d := newTestService(t)

	d.mock.ExpectBegin()
	d.mock.ExpectCommit()

	saved, err := d.service.Submit(context.Background(), SubmitRequest{
		UserID: "u1",
		Mood:   7,
		Date:   time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), saved.LogDate)
}

func TestSubmit_StorageErrorPropagatesAndRollsBack(t *testing.T) {
	d := newTestService(t)
	d.logs.err = errors.New("unique constraint race")

	d.mock.ExpectBegin()
	d.mock.ExpectRollback()

	_, err := d.service.Submit(context.Background(), SubmitRequest{UserID: "u1", Mood: 5})
	require.Error(t, err)
	require.NoError(t, d.mock.ExpectationsWereMet())
}
