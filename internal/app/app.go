package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"oilrisk/internal/config"
	"oilrisk/internal/infrastructure"
	"oilrisk/internal/persistence/postgres"
	"oilrisk/pkg/contracts"
)

// Application holds the shared infrastructure of one process
type Application struct {
	Config   *config.Config
	Logger   *slog.Logger
	OTel     *infrastructure.OTelProviders
	Database *postgres.Manager

	closeLog func() error
}

// New initializes logging, telemetry and the optional database pool
func New(ctx context.Context, cfg *config.Config, stdout io.Writer) (*Application, error) {
	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.InfoContext(ctx, "application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	db, err := postgres.NewManager(ctx, postgresConfig(cfg.Database))
	if err != nil {
		_ = providers.Shutdown(ctx)
		_ = closeLog()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Application{
		Config:   cfg,
		Logger:   logger,
		OTel:     providers,
		Database: db,
		closeLog: closeLog,
	}, nil
}

// Close releases every resource opened by New
func (a *Application) Close(ctx context.Context) error {
	var errs []error
	if a.Database != nil {
		if err := a.Database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}
	if a.OTel != nil {
		if err := a.OTel.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.Logger.InfoContext(ctx, "application stopped")
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			errs = append(errs, fmt.Errorf("log close: %w", err))
		}
	}
	return errors.Join(errs...)
}

func postgresConfig(db config.DatabaseConfig) postgres.Config {
	return postgres.Config{
		DSN:             db.DSN,
		MaxOpenConns:    db.MaxOpenConns,
		MaxIdleConns:    db.MaxIdleConns,
		ConnMaxLifetime: db.ConnMaxLifetime,
		ConnMaxIdleTime: db.ConnMaxIdleTime,
		QueryTimeout:    db.QueryTimeout,
		BatchSize:       db.BatchSize,
		Enabled:         db.Enabled,
	}
}
