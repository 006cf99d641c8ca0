package infrastructure

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"oilrisk/internal/risk"
)

// PipelineMetrics records risk engine runs. It implements risk.Recorder.
type PipelineMetrics struct {
	runs          metric.Int64Counter
	runDuration   metric.Float64Histogram
	stageDuration metric.Float64Histogram
	monthsScored  metric.Int64Counter
	alerts        metric.Int64Counter
	backfilled    metric.Int64Counter
}

// NewPipelineMetrics creates the pipeline instruments on meter
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	runs, err := meter.Int64Counter(
		"risk_pipeline_runs_total",
		metric.WithDescription("Total number of completed risk pipeline runs"),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"risk_pipeline_duration_seconds",
		metric.WithDescription("Risk pipeline run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"risk_pipeline_stage_duration_seconds",
		metric.WithDescription("Risk pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	monthsScored, err := meter.Int64Counter(
		"risk_months_scored_total",
		metric.WithDescription("Total number of months scored"),
	)
	if err != nil {
		return nil, err
	}

	alerts, err := meter.Int64Counter(
		"risk_alerts_emitted_total",
		metric.WithDescription("Total number of alerts emitted by level"),
	)
	if err != nil {
		return nil, err
	}

	backfilled, err := meter.Int64Counter(
		"risk_alerts_backfilled_total",
		metric.WithDescription("Total number of alerts added by quota backfill"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		runs:          runs,
		runDuration:   runDuration,
		stageDuration: stageDuration,
		monthsScored:  monthsScored,
		alerts:        alerts,
		backfilled:    backfilled,
	}, nil
}

// RecordStage implements risk.Recorder
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage risk.Stage, duration time.Duration) {
	m.stageDuration.Record(ctx, duration.Seconds(),
		metric.WithAttributes(attribute.String("stage", stage.String())))
}

// RecordRun implements risk.Recorder
func (m *PipelineMetrics) RecordRun(ctx context.Context, result *risk.Result, duration time.Duration) {
	m.runs.Add(ctx, 1)
	m.runDuration.Record(ctx, duration.Seconds())
	m.monthsScored.Add(ctx, int64(len(result.Months)))
	m.backfilled.Add(ctx, int64(result.Alerts.Backfilled))

	byLevel := map[string]int64{}
	for _, a := range result.Alerts.Alerts {
		byLevel[string(a.Level)]++
	}
	for level, n := range byLevel {
		m.alerts.Add(ctx, n, metric.WithAttributes(attribute.String("level", level)))
	}
}

// HTTPMetrics records API traffic
type HTTPMetrics struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	active   metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP instruments on meter
func NewHTTPMetrics(meter metric.Meter) (*HTTPMetrics, error) {
	requests, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{requests: requests, duration: duration, active: active}, nil
}

// Start marks a request in flight and returns the function that records it
func (m *HTTPMetrics) Start(ctx context.Context) func(route, method string, status int) {
	start := time.Now()
	m.active.Add(ctx, 1)
	return func(route, method string, status int) {
		m.active.Add(ctx, -1)
		attrs := metric.WithAttributes(
			attribute.String("http.route", route),
			attribute.String("http.method", method),
			attribute.Int("http.status_code", status),
		)
		m.requests.Add(ctx, 1, attrs)
		m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	}
}
