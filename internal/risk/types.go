package risk

import (
	"errors"
	"math"
	"time"

	"oilrisk/pkg/contracts/domain"
)

// Field names a numeric signal carried by observations and monthly records
type Field string

// Source fields read from the observation table
const (
	FieldCPI           Field = "cpi"
	FieldOilPrice      Field = "oil_price"
	FieldBrentChg      Field = "brent_chg"
	FieldInventory     Field = "inventory"
	FieldOPECOutput    Field = "opec_output"
	FieldVIX           Field = "vix"
	FieldGeoTotal      Field = "geo_total"
	FieldRussiaUkraine Field = "russia_ukraine"
	FieldMiddleEast    Field = "middle_east"
	FieldGPR           Field = "gpr"
	FieldSentiment     Field = "sentiment"
	FieldUSDIndex      Field = "usd_index"
)

// Derived fields computed from aggregated source fields
const (
	FieldInventoryChg Field = "inventory_chg"
	FieldSentimentInv Field = "sentiment_inv"
)

// SourceFields is the declared column set, in declaration order.
// Aggregation guarantees every one of these is present for every month.
var SourceFields = []Field{
	FieldCPI,
	FieldOilPrice,
	FieldBrentChg,
	FieldInventory,
	FieldOPECOutput,
	FieldVIX,
	FieldGeoTotal,
	FieldRussiaUkraine,
	FieldMiddleEast,
	FieldGPR,
	FieldSentiment,
	FieldUSDIndex,
}


// Inclusive observation window
var (
	WindowStart = time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC)
)

// Normalizer constants
const (
	LowerPercentile  = 10.0
	UpperPercentile  = 85.0
	NeutralNormScore = 50.0
	HighThreshold    = 65.0
	MediumThreshold  = 35.0
	MaxScore         = 100.0
)

// Attribution constants
const (
	AttributionScale = 0.04
	AttributionBound = 0.15
)

// Alert constants
const (
	MediumAlertFloor      = 55.0
	RuleAttributionFloor  = 0.03
	AnomalyChangeRatio    = 0.15
	RelativeChangeFloor   = 0.01
	SyntheticThresholdPct = 0.85
	FallbackThreshold     = 40.0
	MaxRulesPerAlert      = 3
	MinAlerts             = 20
	MaxAlerts             = 25
)

// Composite-index pseudo factor used when no factor qualifies as a trigger
const (
	CompositeFactorName   = "risk_index"
	CompositeFactorNameZh = "综合风险指数"
)

var (
	// ErrNoObservations is returned when the input contains no observations inside the window
	ErrNoObservations = errors.New("no observations inside the date window")
	// ErrNoMonths is returned when a stage that needs at least one month receives none
	ErrNoMonths = errors.New("no monthly records to process")
)

// Observation is one dated row of the source table.
// A field missing from Values is null; zero is a real value.
type Observation struct {
	Date   time.Time
	Values map[Field]float64
}

// NewObservation copies values so the observation cannot be mutated by the caller
func NewObservation(date time.Time, values map[Field]float64) Observation {
	cp := make(map[Field]float64, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return Observation{Date: date, Values: cp}
}

// Value returns the field value and whether it was observed
func (o Observation) Value(f Field) (float64, bool) {
	v, ok := o.Values[f]
	return v, ok
}

// InWindow reports whether the observation date lies in the inclusive window
func InWindow(date time.Time) bool {
	d := dayOf(date)
	return !d.Before(WindowStart) && !d.After(WindowEnd)
}

// Classify maps a composite score to its risk level
func Classify(score float64) domain.RiskLevel {
	switch {
	case score >= HighThreshold:
		return domain.RiskLevelHigh
	case score >= MediumThreshold:
		return domain.RiskLevelMedium
	default:
		return domain.RiskLevelLow
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// clamp bounds v to [lo, hi]; NaN maps to 0
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// roundTo rounds half away from zero to the given number of decimal places
func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	scaled := v * p
	if !isFinite(scaled) {
		return v
	}
	return math.Round(scaled) / p
}

// Round2 rounds to two decimals
func Round2(v float64) float64 { return roundTo(v, 2) }
