package http

import (
	"context"
	"time"

	"oilrisk/internal/services"
	api "oilrisk/pkg/contracts/api/v1"
)

// RiskService serves the composite index views
type RiskService interface {
	Current(ctx context.Context) (*api.CurrentRisk, error)
	Timeseries(ctx context.Context, start, end time.Time) (*api.Timeseries, error)
}

// FactorService serves the factor views and category weights
type FactorService interface {
	Radar(ctx context.Context, date time.Time) ([]api.RadarScore, error)
	Explain(ctx context.Context, date time.Time) ([]api.Factor, error)
	UpdateWeights(ctx context.Context, weights services.Weights) (*api.WeightUpdateResult, error)
}

// AlertService serves the alert list and detail
type AlertService interface {
	List(ctx context.Context, query api.AlertQuery) (*api.Page[api.Alert], error)
	Detail(ctx context.Context, id int64) (*api.AlertDetail, error)
}

// BacktestService runs model backtests
type BacktestService interface {
	Run(ctx context.Context, req api.BacktestRequest) (*api.BacktestResult, error)
}

// ReportService prepares and streams alert reports
type ReportService interface {
	Prepare(ctx context.Context, alertID int64) (*services.Report, error)
	Stream(ctx context.Context, r *services.Report, emit func(token string) error) error
}

// HealthService reports service health
type HealthService interface {
	Check(ctx context.Context) api.HealthStatus
}

var (
	_ RiskService     = (*services.RiskService)(nil)
	_ FactorService   = (*services.FactorService)(nil)
	_ AlertService    = (*services.AlertService)(nil)
	_ BacktestService = (*services.BacktestService)(nil)
	_ ReportService   = (*services.ReportService)(nil)
	_ HealthService   = (*services.HealthService)(nil)
)
