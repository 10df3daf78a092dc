package dailylogs

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelichka/mindfulme/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE daily_logs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  log_date TEXT NOT NULL,
  mood INTEGER NOT NULL,
  journal_text TEXT,
  sentiment_polarity REAL,
  sentiment_emotion TEXT,
  vocal_pitch_hz REAL,
  vocal_jitter REAL,
  vocal_tension REAL,
  sleep_hours REAL,
  sleep_quality INTEGER,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL,
  UNIQUE (user_id, log_date)
);
`)
	require.NoError(t, err)

	return db
}

func strPtr(s string) *string                 { return &s }
func f64Ptr(f float64) *float64               { return &f }
func emoPtr(e models.Emotion) *models.Emotion { return &e }

func TestUpsert_InsertThenPatch(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	first := &models.DailyLogPatch{
		ID:                uuid.NewString(),
		UserID:            "u1",
		LogDate:           day,
		Mood:              4,
		JournalText:       strPtr("long day"),
		SentimentPolarity: f64Ptr(-0.4),
		SentimentEmotion:  emoPtr(models.EmotionSadness),
		SleepHours:        f64Ptr(6.5),
	}
	saved, err := r.Upsert(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, first.ID, saved.ID)
	assert.Equal(t, 4, saved.Mood)
	require.NotNil(t, saved.SleepHours)
	assert.Equal(t, 6.5, *saved.SleepHours)

	// Resubmission for the same day: new mood, everything else omitted.
	second := &models.DailyLogPatch{
		ID:      uuid.NewString(),
		UserID:  "u1",
		LogDate: day,
		Mood:    7,
	}
	saved2, err := r.Upsert(ctx, second)
	require.NoError(t, err)

	// still exactly one row, keyed by the original id
	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM daily_logs`).Scan(&count))
	assert.Equal(t, 1, count)
	assert.Equal(t, first.ID, saved2.ID)

	// the later write's mood wins, omitted fields keep their prior values
	assert.Equal(t, 7, saved2.Mood)
	require.NotNil(t, saved2.JournalText)
	assert.Equal(t, "long day", *saved2.JournalText)
	require.NotNil(t, saved2.SentimentPolarity)
	assert.Equal(t, -0.4, *saved2.SentimentPolarity)
	require.NotNil(t, saved2.SentimentEmotion)
	assert.Equal(t, models.EmotionSadness, *saved2.SentimentEmotion)
	require.NotNil(t, saved2.SleepHours)
	assert.Equal(t, 6.5, *saved2.SleepHours)
	assert.Nil(t, saved2.VocalTension)
}

func TestUpsert_ConcurrentSameDayWritesKeepOneRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, mood := range []int{3, 9} {
		i, mood := i, mood
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = r.Upsert(ctx, &models.DailyLogPatch{
				ID:      uuid.NewString(),
				UserID:  "u1",
				LogDate: day,
				Mood:    mood,
			})
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// ON CONFLICT turns the race into one insert and one update
	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM daily_logs`).Scan(&count))
	assert.Equal(t, 1, count)

	var mood int
	require.NoError(t, db.QueryRow(`SELECT mood FROM daily_logs`).Scan(&mood))
	assert.Contains(t, []int{3, 9}, mood)
}

func TestUpsert_DistinctDatesAndUsersStaySeparate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	for _, p := range []*models.DailyLogPatch{
		{ID: uuid.NewString(), UserID: "u1", LogDate: day, Mood: 5},
		{ID: uuid.NewString(), UserID: "u1", LogDate: day.AddDate(0, 0, 1), Mood: 6},
		{ID: uuid.NewString(), UserID: "u2", LogDate: day, Mood: 3},
	} {
		_, err := r.Upsert(ctx, p)
		require.NoError(t, err)
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM daily_logs`).Scan(&count))
	assert.Equal(t, 3, count)
}

func TestSelectRange_ChronologicalAndBounded(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	// inserted out of order on purpose
	for _, offset := range []int{4, 0, 2, 9} {
		_, err := r.Upsert(ctx, &models.DailyLogPatch{
			ID:      uuid.NewString(),
			UserID:  "u1",
			LogDate: day.AddDate(0, 0, offset),
			Mood:    5 + offset%3,
		})
		require.NoError(t, err)
	}

	logs, err := r.SelectRange(ctx, "u1", day, day.AddDate(0, 0, 6))
	require.NoError(t, err)
	require.Len(t, logs, 3)

	assert.Equal(t, day, logs[0].LogDate)
	assert.Equal(t, day.AddDate(0, 0, 2), logs[1].LogDate)
	assert.Equal(t, day.AddDate(0, 0, 4), logs[2].LogDate)
}

func TestSelectRange_EmptyForUnknownUser(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	logs, err := r.SelectRange(context.Background(), "ghost",
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestUpsert_NormalizesTimeOfDayToCalendarDate(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	morning := time.Date(2026, 3, 14, 8, 30, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 22, 15, 0, 0, time.UTC)

	_, err := r.Upsert(ctx, &models.DailyLogPatch{ID: uuid.NewString(), UserID: "u1", LogDate: morning, Mood: 5})
	require.NoError(t, err)
	saved, err := r.Upsert(ctx, &models.DailyLogPatch{ID: uuid.NewString(), UserID: "u1", LogDate: evening, Mood: 8})
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM daily_logs`).Scan(&count))
	assert.Equal(t, 1, count)
	assert.Equal(t, 8, saved.Mood)
	assert.Equal(t, models.Day(morning), saved.LogDate)
}
