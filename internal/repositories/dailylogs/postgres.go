// Package dailylogs provides PostgreSQL- and SQLite-backed repositories for
// per-day signal records. One row exists per (user, calendar date); writes go
// through an upsert that patches only the columns present in the submission.
package dailylogs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const pgLogColumns = `id, user_id, log_date, mood, journal_text, sentiment_polarity,
		sentiment_emotion, vocal_pitch_hz, vocal_jitter, vocal_tension,
		sleep_hours, sleep_quality, created_at, updated_at`

// Upsert inserts the row for (user_id, log_date) or patches the existing one.
// COALESCE keeps prior column values when the patch carries NULL, so a
// resubmission that omits a field never clears it.
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.DailyLogPatch) (*models.DailyLog, error) {
	query := `
		INSERT INTO daily_logs (id, user_id, log_date, mood, journal_text,
			sentiment_polarity, sentiment_emotion, vocal_pitch_hz, vocal_jitter,
			vocal_tension, sleep_hours, sleep_quality, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
		ON CONFLICT (user_id, log_date)
		DO UPDATE SET
			mood = EXCLUDED.mood,
			journal_text = COALESCE(EXCLUDED.journal_text, daily_logs.journal_text),
			sentiment_polarity = COALESCE(EXCLUDED.sentiment_polarity, daily_logs.sentiment_polarity),
			sentiment_emotion = COALESCE(EXCLUDED.sentiment_emotion, daily_logs.sentiment_emotion),
			vocal_pitch_hz = COALESCE(EXCLUDED.vocal_pitch_hz, daily_logs.vocal_pitch_hz),
			vocal_jitter = COALESCE(EXCLUDED.vocal_jitter, daily_logs.vocal_jitter),
			vocal_tension = COALESCE(EXCLUDED.vocal_tension, daily_logs.vocal_tension),
			sleep_hours = COALESCE(EXCLUDED.sleep_hours, daily_logs.sleep_hours),
			sleep_quality = COALESCE(EXCLUDED.sleep_quality, daily_logs.sleep_quality),
			updated_at = now()
		RETURNING ` + pgLogColumns

	row := r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, models.Day(p.LogDate), p.Mood, p.JournalText,
		p.SentimentPolarity, p.SentimentEmotion, p.VocalPitchHz, p.VocalJitter,
		p.VocalTension, p.SleepHours, p.SleepQuality)

	log, err := scanPgLog(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily log: %w", err)
	}
	return log, nil
}

// SelectRange returns all logs for userID with from <= log_date <= to,
// oldest first.
func (r *PostgresRepository) SelectRange(ctx context.Context, userID string, from, to time.Time) ([]*models.DailyLog, error) {
	query := `SELECT ` + pgLogColumns + `
		FROM daily_logs
		WHERE user_id = $1 AND log_date >= $2 AND log_date <= $3
		ORDER BY log_date`

	rows, err := r.db.QueryContext(ctx, query, userID, models.Day(from), models.Day(to))
	if err != nil {
		return nil, fmt.Errorf("failed to select daily logs: %w", err)
	}
	defer rows.Close()

	var result []*models.DailyLog
	for rows.Next() {
		log, err := scanPgLog(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPgLog(row rowScanner) (*models.DailyLog, error) {
	var (
		item      models.DailyLog
		journal   sql.NullString
		polarity  sql.NullFloat64
		emotion   sql.NullString
		pitch     sql.NullFloat64
		jitter    sql.NullFloat64
		tension   sql.NullFloat64
		sleep     sql.NullFloat64
		sleepQual sql.NullInt64
	)

	err := row.Scan(&item.ID, &item.UserID, &item.LogDate, &item.Mood,
		&journal, &polarity, &emotion, &pitch, &jitter, &tension,
		&sleep, &sleepQual, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	item.LogDate = models.Day(item.LogDate)
	if journal.Valid {
		item.JournalText = &journal.String
	}
	if polarity.Valid {
		item.SentimentPolarity = &polarity.Float64
	}
	if emotion.Valid {
		e := models.Emotion(emotion.String)
		item.SentimentEmotion = &e
	}
	if pitch.Valid {
		item.VocalPitchHz = &pitch.Float64
	}
	if jitter.Valid {
		item.VocalJitter = &jitter.Float64
	}
	if tension.Valid {
		item.VocalTension = &tension.Float64
	}
	if sleep.Valid {
		item.SleepHours = &sleep.Float64
	}
	if sleepQual.Valid {
		q := int(sleepQual.Int64)
		item.SleepQuality = &q
	}
	return &item, nil
}
