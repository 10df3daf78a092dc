package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/avelichka/mindfulme/internal/dbx"
	sqlitemigrations "github.com/avelichka/mindfulme/internal/migrations/sqlite"
	"github.com/avelichka/mindfulme/internal/repositories/baselines"
	"github.com/avelichka/mindfulme/internal/repositories/dailylogs"
)

// SQLiteRepositoryManager serves repositories over a local SQLite file.
type SQLiteRepositoryManager struct {
	db *sql.DB
}

// NewSQLiteRepositoryManager opens the DSN and applies pending migrations.
func NewSQLiteRepositoryManager(ctx context.Context, dsn string) (*SQLiteRepositoryManager, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// modernc sqlite allows one writer; a single pooled connection keeps
	// concurrent upserts serialized instead of failing with SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	m := &SQLiteRepositoryManager{db: db}
	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}

func (m *SQLiteRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *SQLiteRepositoryManager) DailyLogs(db dbx.DBTX) dailylogs.Repository {
	return dailylogs.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Baselines(db dbx.DBTX) baselines.Repository {
	return baselines.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(sqlitemigrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, m.db, ".")
}

func (m *SQLiteRepositoryManager) Close() error {
	return m.db.Close()
}
