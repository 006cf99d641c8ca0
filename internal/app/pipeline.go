package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"oilrisk/internal/dataprocessing"
	"oilrisk/internal/exporter"
	"oilrisk/internal/infrastructure"
	"oilrisk/internal/mq"
	"oilrisk/internal/persistence/postgres"
	"oilrisk/internal/risk"
	"oilrisk/pkg/contracts/domain"
)

// ErrNoSource is returned when neither an input file nor a database is configured
var ErrNoSource = errors.New("no input file or database configured")

// BuildDataset reads the input file and runs the risk pipeline over it
func (a *Application) BuildDataset(ctx context.Context) (*domain.RiskDataset, error) {
	input := a.Config.Paths.Input
	if input == "" {
		return nil, fmt.Errorf("build dataset: %w", ErrNoSource)
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	logger := infrastructure.WithComponent(a.Logger, "pipeline")

	reader := dataprocessing.NewReader(a.Logger)
	if a.Config.Paths.Sheet != "" {
		reader = reader.WithSheet(a.Config.Paths.Sheet)
	}
	observations, stats, err := reader.ReadFile(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", input, err)
	}
	logger.InfoContext(ctx, "source loaded",
		slog.String("input", input),
		slog.Int("rows", stats.Rows),
		slog.Int("observations", stats.Observations),
		slog.Int("skipped_dates", stats.SkippedDates),
		slog.Bool("columns_by_name", stats.ByName))

	engine := risk.NewEngine(a.Logger)
	metrics, err := infrastructure.NewPipelineMetrics(a.OTel.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	engine.SetRecorder(metrics)

	result, err := engine.Run(ctx, observations)
	if err != nil {
		return nil, fmt.Errorf("risk pipeline failed: %w", err)
	}
	infrastructure.SetSpanAttributes(ctx, attribute.String("run_id", result.RunID))
	logger.InfoContext(ctx, "dataset built", slog.String("run_id", result.RunID))
	return result.Dataset(), nil
}

// LoadDataset builds the dataset from the input file, or reads the last
// loaded one from Postgres when no input is configured
func (a *Application) LoadDataset(ctx context.Context) (*domain.RiskDataset, error) {
	if a.Config.Paths.Input != "" {
		return a.BuildDataset(ctx)
	}
	if a.Database.IsEnabled() {
		ds, err := postgres.LoadDataset(ctx, a.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to load dataset from postgres: %w", err)
		}
		a.Logger.InfoContext(ctx, "dataset loaded from postgres",
			slog.Int("months", len(ds.RiskIndex)),
			slog.Int("alerts", len(ds.Alerts)))
		return ds, nil
	}
	return nil, fmt.Errorf("load dataset: %w", ErrNoSource)
}

// Export writes the dataset to every enabled sink concurrently
func (a *Application) Export(ctx context.Context, dataset *domain.RiskDataset) error {
	sinks, closeSinks, err := a.sinks()
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSinks(); err != nil {
			a.Logger.WarnContext(ctx, "failed to close sinks", slog.String("error", err.Error()))
		}
	}()

	ctx = infrastructure.EnsureTraceID(ctx)
	if len(sinks) == 0 {
		a.Logger.WarnContext(ctx, "no sinks enabled, nothing exported")
		return nil
	}
	return exporter.NewRunner(a.Logger).Run(ctx, dataset, sinks...)
}

// sinks builds the enabled sinks and a function closing the ones holding connections
func (a *Application) sinks() ([]exporter.Sink, func() error, error) {
	cfg := a.Config
	var sinks []exporter.Sink
	closeFn := func() error { return nil }

	if cfg.Sinks.Any() {
		paths, err := cfg.GetPaths()
		if err != nil {
			return nil, nil, err
		}
		if err := paths.EnsureDirectories(); err != nil {
			return nil, nil, err
		}
		if cfg.Sinks.SQL {
			sinks = append(sinks, exporter.NewSQLWriter(paths.SQLFile))
		}
		if cfg.Sinks.CSV {
			sinks = append(sinks, exporter.NewCSVWriter(paths.CSVDir))
		}
		if cfg.Sinks.XLSX {
			sinks = append(sinks, exporter.NewXLSXWriter(paths.XLSXFile))
		}
	}

	if a.Database.IsEnabled() {
		sinks = append(sinks, postgres.NewLoader(a.Database, a.Logger))
	}

	if cfg.Kafka.Enabled {
		publisher := mq.NewAlertPublisher(mq.NewWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic), a.Logger)
		sinks = append(sinks, publisher)
		closeFn = publisher.Close
	}

	return sinks, closeFn, nil
}
