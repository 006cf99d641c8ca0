package api

import (
	"github.com/shopspring/decimal"
)

func init() {
	// decimals render as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Factor is one factor attribution of a month
type Factor struct {
	Name     string          `json:"name"`
	NameZh   string          `json:"nameZh"`
	Shap     decimal.Decimal `json:"shap"`
	Category string          `json:"category"`
}

// CurrentRisk is the latest month with its strongest factors
type CurrentRisk struct {
	RiskIndex  decimal.Decimal `json:"riskIndex"`
	RiskLevel  string          `json:"riskLevel"`
	Date       string          `json:"date"`
	TopFactors []Factor        `json:"topFactors"`
}

// AlertMarker places an alert on the time series chart
type AlertMarker struct {
	Date      string          `json:"date"`
	Level     string          `json:"level"`
	RiskIndex decimal.Decimal `json:"riskIndex"`
}

// Timeseries holds parallel oil price and risk index series
type Timeseries struct {
	Dates     []string          `json:"dates"`
	OilPrice  []decimal.Decimal `json:"oilPrice"`
	RiskIndex []decimal.Decimal `json:"riskIndex"`
	Alerts    []AlertMarker     `json:"alerts"`
}

// Alert is one alert list entry
type Alert struct {
	ID              int64           `json:"id"`
	Date            string          `json:"date"`
	Level           string          `json:"level"`
	RiskIndex       decimal.Decimal `json:"riskIndex"`
	TriggerType     string          `json:"triggerType"`
	TriggerFactor   string          `json:"triggerFactor"`
	TriggerFactorZh string          `json:"triggerFactorZh"`
	Summary         string          `json:"summary"`
	SummaryEn       string          `json:"summaryEn"`
	AIReport        string          `json:"aiReport,omitempty"`
}

// TriggerRule is one entry of an alert's rule chain
type TriggerRule struct {
	RuleType     string          `json:"ruleType"`
	Factor       string          `json:"factor"`
	FactorZh     string          `json:"factorZh"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	Threshold    decimal.Decimal `json:"threshold"`
	Description  string          `json:"description"`
}

// AlertDetail is an alert with its rule chain
type AlertDetail struct {
	Alert
	TriggerRules []TriggerRule `json:"triggerRules"`
}

// Page is one page of a sorted list
type Page[T any] struct {
	Total   int `json:"total"`
	Page    int `json:"page"`
	Size    int `json:"size"`
	Records []T `json:"records"`
}

// RadarScore is the weighted attribution score of one category
type RadarScore struct {
	Category   string          `json:"category"`
	CategoryZh string          `json:"categoryZh"`
	Score      decimal.Decimal `json:"score"`
	TopFactors []Factor        `json:"topFactors"`
}

// WeightUpdateResult is the latest month re-scored with new category weights
type WeightUpdateResult struct {
	RiskIndex   decimal.Decimal `json:"riskIndex"`
	RiskLevel   string          `json:"riskLevel"`
	RadarScores []RadarScore    `json:"radarScores"`
	TopFactors  []Factor        `json:"topFactors"`
}

// BacktestResult compares simulated predictions with actual prices
type BacktestResult struct {
	Dates             []string          `json:"dates"`
	Actual            []decimal.Decimal `json:"actual"`
	Predicted         []decimal.Decimal `json:"predicted"`
	HitRate           decimal.Decimal   `json:"hitRate"`
	FalseAlarmRate    decimal.Decimal   `json:"falseAlarmRate"`
	MAE               decimal.Decimal   `json:"mae"`
	DirectionAccuracy decimal.Decimal   `json:"directionAccuracy"`
}

// HealthStatus reports service readiness
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	RunID    string `json:"run_id,omitempty"`
	Months   int    `json:"months"`
	Alerts   int    `json:"alerts"`
	Database string `json:"database,omitempty"`
}

// ReportToken is one streamed chunk of an alert report
type ReportToken struct {
	Token string `json:"token"`
}
