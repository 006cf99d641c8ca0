// Package api contains the HTTP request and response contracts of the risk API.
// Version v1 represents the current stable API version.
package api

// Alert list query defaults
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AlertQuery holds the alert list query parameters. Invalid values are
// sanitized rather than rejected.
type AlertQuery struct {
	Page  int    `json:"page" query:"page"`
	Size  int    `json:"size" query:"size"`
	Level string `json:"level,omitempty" query:"level"`
	Sort  string `json:"sort" query:"sort"`
	Order string `json:"order" query:"order"`
}

// TimeseriesQuery is an optional inclusive date range
type TimeseriesQuery struct {
	Start string `json:"start,omitempty" query:"start" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end,omitempty" query:"end" validate:"omitempty,datetime=2006-01-02"`
}

// WeightsRequest sets the per-category weights used by the radar view.
// Each weight must lie in [0, 2]; the factor service reports violations.
type WeightsRequest struct {
	SupplyDemand float64 `json:"supplyDemand"`
	Macro        float64 `json:"macro"`
	Financial    float64 `json:"financial"`
	Geopolitical float64 `json:"geopolitical"`
	Sentiment    float64 `json:"sentiment"`
}

// BacktestRequest replays a simulated model over a date range.
// The backtest service validates it.
type BacktestRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Model     string `json:"model"`
}
