package dailylogs

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/models"
)

const dateLayout = "2006-01-02"

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
// Dates are stored as ISO text, timestamps as RFC 3339 text.
type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

const sqliteLogColumns = `id, user_id, log_date, mood, journal_text, sentiment_polarity,
		sentiment_emotion, vocal_pitch_hz, vocal_jitter, vocal_tension,
		sleep_hours, sleep_quality, created_at, updated_at`

// Upsert inserts the row for (user_id, log_date) or patches the existing one,
// keeping prior column values where the patch carries NULL.
func (r *SQLiteRepository) Upsert(ctx context.Context, p *models.DailyLogPatch) (*models.DailyLog, error) {
	now := r.now().UTC().Format(time.RFC3339)

	query := `
		INSERT INTO daily_logs (id, user_id, log_date, mood, journal_text,
			sentiment_polarity, sentiment_emotion, vocal_pitch_hz, vocal_jitter,
			vocal_tension, sleep_hours, sleep_quality, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, log_date) DO UPDATE SET
			mood = excluded.mood,
			journal_text = COALESCE(excluded.journal_text, daily_logs.journal_text),
			sentiment_polarity = COALESCE(excluded.sentiment_polarity, daily_logs.sentiment_polarity),
			sentiment_emotion = COALESCE(excluded.sentiment_emotion, daily_logs.sentiment_emotion),
			vocal_pitch_hz = COALESCE(excluded.vocal_pitch_hz, daily_logs.vocal_pitch_hz),
			vocal_jitter = COALESCE(excluded.vocal_jitter, daily_logs.vocal_jitter),
			vocal_tension = COALESCE(excluded.vocal_tension, daily_logs.vocal_tension),
			sleep_hours = COALESCE(excluded.sleep_hours, daily_logs.sleep_hours),
			sleep_quality = COALESCE(excluded.sleep_quality, daily_logs.sleep_quality),
			updated_at = excluded.updated_at
		RETURNING ` + sqliteLogColumns

	row := r.db.QueryRowContext(ctx, query,
		p.ID, p.UserID, models.Day(p.LogDate).Format(dateLayout), p.Mood,
		p.JournalText, p.SentimentPolarity, p.SentimentEmotion, p.VocalPitchHz,
		p.VocalJitter, p.VocalTension, p.SleepHours, p.SleepQuality, now, now)

	log, err := scanSQLiteLog(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert daily log: %w", err)
	}
	return log, nil
}

// SelectRange returns all logs for userID with from <= log_date <= to,
// oldest first.
func (r *SQLiteRepository) SelectRange(ctx context.Context, userID string, from, to time.Time) ([]*models.DailyLog, error) {
	query := `SELECT ` + sqliteLogColumns + `
		FROM daily_logs
		WHERE user_id = ? AND log_date >= ? AND log_date <= ?
		ORDER BY log_date`

	rows, err := r.db.QueryContext(ctx, query, userID,
		models.Day(from).Format(dateLayout), models.Day(to).Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to select daily logs: %w", err)
	}
	defer rows.Close()

	var result []*models.DailyLog
	for rows.Next() {
		log, err := scanSQLiteLog(rows)
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

func scanSQLiteLog(row rowScanner) (*models.DailyLog, error) {
	var (
		item                models.DailyLog
		logDate             string
		createdAt           string
		updatedAt           string
		journal             sql.NullString
		polarity            sql.NullFloat64
		emotion             sql.NullString
		pitch, jitter       sql.NullFloat64
		tension, sleepHours sql.NullFloat64
		sleepQual           sql.NullInt64
	)

	err := row.Scan(&item.ID, &item.UserID, &logDate, &item.Mood,
		&journal, &polarity, &emotion, &pitch, &jitter, &tension,
		&sleepHours, &sleepQual, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if item.LogDate, err = time.ParseInLocation(dateLayout, logDate, time.UTC); err != nil {
		return nil, fmt.Errorf("bad log_date %q: %w", logDate, err)
	}
	if item.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
	}
	if item.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at %q: %w", updatedAt, err)
	}
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
	if sleepHours.Valid {
		item.SleepHours = &sleepHours.Float64
	}
	if sleepQual.Valid {
		q := int(sleepQual.Int64)
		item.SleepQuality = &q
	}
	return &item, nil
}
