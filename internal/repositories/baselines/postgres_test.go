package baselines

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/avelichka/mindfulme/internal/common"
	"github.com/avelichka/mindfulme/internal/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgresGet_MapsNoRowsToNotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`SELECT .* FROM baselines WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := repo.Get(context.Background(), "u1")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresGet_ScansRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"user_id", "phq9_score", "phq9_severity",
		"gad7_score", "gad7_severity", "assessed_on", "updated_at"}).
		AddRow("u1", 12, "moderate", 7, "mild", day, now)

	mock.ExpectQuery(`SELECT .* FROM baselines WHERE user_id = \$1`).
		WithArgs("u1").
		WillReturnRows(rows)

	b, err := repo.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.PHQ9Score != 12 || b.PHQ9Severity != models.SeverityModerate {
		t.Fatalf("unexpected baseline: %+v", b)
	}
	if b.GAD7Severity != models.SeverityMild {
		t.Fatalf("unexpected gad7 severity: %v", b.GAD7Severity)
	}
}

func TestPostgresReplace_Upserts(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO baselines .* ON CONFLICT \(user_id\)\s+DO UPDATE SET`).
		WithArgs("u1", 12, "moderate", 7, "mild", day).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Replace(context.Background(), &models.Baseline{
		UserID:       "u1",
		PHQ9Score:    12,
		PHQ9Severity: models.SeverityModerate,
		GAD7Score:    7,
		GAD7Severity: models.SeverityMild,
		AssessedOn:   day,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
