package risk

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Stage names a pipeline step in logs, spans and metrics
type Stage string

const (
	StageAggregate Stage = "aggregate"
	StageSignals   Stage = "derive_signals"
	StageScore     Stage = "normalize"
	StageAttribute Stage = "attribute"
	StageAlerts    Stage = "synthesize_alerts"
)

// String returns the stage name
func (s Stage) String() string {
	return string(s)
}

// Recorder receives run statistics
type Recorder interface {
	RecordStage(ctx context.Context, stage Stage, duration time.Duration)
	RecordRun(ctx context.Context, result *Result, duration time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) RecordStage(context.Context, Stage, time.Duration) {}
func (noopRecorder) RecordRun(context.Context, *Result, time.Duration) {}

// Engine runs the full batch pipeline over a closed set of observations
type Engine struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	recorder Recorder
	now      func() time.Time
}

// NewEngine creates a pipeline engine
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		logger:   logger.With("component", "risk_engine"),
		tracer:   otel.Tracer("oilrisk/risk"),
		recorder: noopRecorder{},
		now:      time.Now,
	}
}

// SetRecorder installs a metrics recorder
func (e *Engine) SetRecorder(r Recorder) {
	if r == nil {
		r = noopRecorder{}
	}
	e.recorder = r
}

// Result is the complete output of one run
type Result struct {
	RunID       string
	GeneratedAt time.Time
	Months      []MonthlyRecord
	Alerts      AlertSet
}

// Run executes every stage in order. It either returns the complete result or an
// error; no partial result is produced.
func (e *Engine) Run(ctx context.Context, observations []Observation) (*Result, error) {
	start := e.now()
	runID := uuid.New().String()
	logger := e.logger.With("run_id", runID)

	ctx, span := e.tracer.Start(ctx, "risk.run",
		trace.WithAttributes(attribute.Int("observations", len(observations))))
	defer span.End()

	logger.InfoContext(ctx, "starting risk pipeline", "observations", len(observations))

	var aggregates []MonthlyAggregate
	err := e.stage(ctx, StageAggregate, func() error {
		var err error
		aggregates, err = Aggregate(observations)
		return err
	})
	if err != nil {
		return nil, e.fail(ctx, span, logger, StageAggregate, err)
	}
	logger.InfoContext(ctx, "aggregated observations",
		"months", len(aggregates),
		"first_month", aggregates[0].Month.Format("2006-01"),
		"last_month", aggregates[len(aggregates)-1].Month.Format("2006-01"),
	)

	var signals []SignalRecord
	e.timed(ctx, StageSignals, func() {
		signals = DeriveSignals(aggregates)
	})

	var scored []ScoredRecord
	if err := e.stage(ctx, StageScore, func() error {
		var err error
		scored, err = Score(signals)
		return err
	}); err != nil {
		return nil, e.fail(ctx, span, logger, StageScore, err)
	}

	var months []MonthlyRecord
	if err := e.stage(ctx, StageAttribute, func() error {
		var err error
		months, err = Attribute(scored)
		return err
	}); err != nil {
		return nil, e.fail(ctx, span, logger, StageAttribute, err)
	}

	var alerts AlertSet
	if err := e.stage(ctx, StageAlerts, func() error {
		var err error
		alerts, err = SynthesizeAlerts(months)
		return err
	}); err != nil {
		return nil, e.fail(ctx, span, logger, StageAlerts, err)
	}

	if alerts.BelowMinimum() {
		logger.WarnContext(ctx, "alert quota not reached",
			"alerts", len(alerts.Alerts),
			"minimum", MinAlerts,
			"backfilled", alerts.Backfilled,
		)
	}

	result := &Result{
		RunID:       runID,
		GeneratedAt: start.UTC(),
		Months:      months,
		Alerts:      alerts,
	}

	duration := e.now().Sub(start)
	e.recorder.RecordRun(ctx, result, duration)
	span.SetAttributes(
		attribute.Int("months", len(months)),
		attribute.Int("alerts", len(alerts.Alerts)),
	)

	logger.InfoContext(ctx, "risk pipeline completed",
		"months", len(months),
		"alerts", len(alerts.Alerts),
		"first_pass_alerts", alerts.FirstPass,
		"backfilled_alerts", alerts.Backfilled,
		"duration", duration,
	)
	return result, nil
}

func (e *Engine) stage(ctx context.Context, stage Stage, fn func() error) error {
	ctx, span := e.tracer.Start(ctx, "risk."+stage.String())
	defer span.End()

	start := e.now()
	err := fn()
	e.recorder.RecordStage(ctx, stage, e.now().Sub(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// timed runs a stage that cannot fail
func (e *Engine) timed(ctx context.Context, stage Stage, fn func()) {
	ctx, span := e.tracer.Start(ctx, "risk."+stage.String())
	defer span.End()

	start := e.now()
	fn()
	e.recorder.RecordStage(ctx, stage, e.now().Sub(start))
}

func (e *Engine) fail(ctx context.Context, span trace.Span, logger *slog.Logger, stage Stage, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.ErrorContext(ctx, "risk pipeline failed", "stage", stage.String(), "error", err)
	return fmt.Errorf("%s: %w", stage, err)
}
