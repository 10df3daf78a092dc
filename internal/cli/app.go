// Package cli implements the mindfulme command-line interface: assessments,
// daily check-ins, forecasts and weekly summaries against a local database.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/avelichka/mindfulme/internal/assessment"
	"github.com/avelichka/mindfulme/internal/config"
	"github.com/avelichka/mindfulme/internal/forecast"
	"github.com/avelichka/mindfulme/internal/journal"
	"github.com/avelichka/mindfulme/internal/logging"
	"github.com/avelichka/mindfulme/internal/policy"
	"github.com/avelichka/mindfulme/internal/repositories/repomanager"
	"github.com/avelichka/mindfulme/internal/sentiment"
	"github.com/avelichka/mindfulme/internal/voice"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	rm          repomanager.RepositoryManager
	assessments *assessment.Service
	journals    *journal.Service
	forecasts   *forecast.Service
}

// NewApp wires the full engine for CLI use: policy, database, sentiment
// model and services. The database is opened and migrated here, so a
// returned App is ready to serve any subcommand.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := logging.NewSlogLogger(slog.New(handler))

	pol, err := policy.Load(c.PolicyPath)
	if err != nil {
		return nil, err
	}

	var rm repomanager.RepositoryManager
	switch c.DBDialect {
	case "postgres":
		rm, err = repomanager.NewPostgresRepositoryManager(ctx, c.DatabaseDSN)
	default:
		rm, err = repomanager.NewSQLiteRepositoryManager(ctx, c.DatabaseDSN)
	}
	if err != nil {
		return nil, err
	}

	var factory sentiment.Factory = sentiment.EmbeddedFactory{}
	if c.LexiconPath != "" {
		factory = sentiment.FileFactory{
			LexiconPath:    c.LexiconPath,
			EmotionPath:    c.EmotionPath,
			DistortionPath: c.DistortionPath,
		}
	}
	analyzer := sentiment.NewAnalyzer(sentiment.NewProvider(factory), pol)
	extractor := voice.NewExtractor(pol)

	db := rm.Conn()
	return &App{
		config:      c,
		logger:      logger,
		rm:          rm,
		assessments: assessment.NewService(db, rm, pol, logger),
		journals:    journal.NewService(db, rm, analyzer, extractor, pol, logger),
		forecasts:   forecast.NewService(db, rm, pol),
	}, nil
}

// Run executes the root command and releases the database.
func (a *App) Run(ctx context.Context) error {
	defer a.rm.Close()
	return a.rootCmd().ExecuteContext(ctx)
}
