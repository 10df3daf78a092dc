// Package repomanager wires database connections to repository constructors.
// A RepositoryManager hands out repositories bound to an arbitrary DBTX, so
// services can run several repository calls inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avelichka/mindfulme/internal/dbx"
	"github.com/avelichka/mindfulme/internal/repositories/baselines"
	"github.com/avelichka/mindfulme/internal/repositories/dailylogs"
)

type RepositoryManager interface {
	Conn() *sql.DB
	DailyLogs(db dbx.DBTX) dailylogs.Repository
	Baselines(db dbx.DBTX) baselines.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
