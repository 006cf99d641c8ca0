package exporter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"oilrisk/pkg/contracts/domain"
)

// Sink persists or publishes a complete dataset
type Sink interface {
	Name() string
	Write(ctx context.Context, dataset *domain.RiskDataset) error
}

// Runner fans a dataset out to sinks concurrently
type Runner struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner creates a sink runner
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		logger: logger.With("component", "sink_runner"),
		tracer: otel.Tracer("oilrisk/exporter"),
	}
}

// Run writes the dataset to every sink. The first failure cancels the rest and is returned.
func (r *Runner) Run(ctx context.Context, dataset *domain.RiskDataset, sinks ...Sink) error {
	if dataset == nil {
		return fmt.Errorf("nil dataset")
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, s := range sinks {
		g.Go(func() error {
			ctx, span := r.tracer.Start(ctx, "sink."+s.Name(),
				trace.WithAttributes(attribute.String("run_id", dataset.RunID)))
			defer span.End()

			start := time.Now()
			if err := s.Write(ctx, dataset); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				r.logger.ErrorContext(ctx, "sink failed", "sink", s.Name(), "error", err)
				return fmt.Errorf("sink %s: %w", s.Name(), err)
			}
			r.logger.InfoContext(ctx, "sink completed",
				"sink", s.Name(),
				"run_id", dataset.RunID,
				"duration", time.Since(start),
			)
			return nil
		})
	}
	return g.Wait()
}

// writeAtomic writes through fn into a temp file next to path and renames it into place
func writeAtomic(path string, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
