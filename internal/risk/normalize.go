package risk

import (
	"oilrisk/pkg/contracts/domain"
)

// Component is one weighted signal of the composite score
type Component struct {
	Field  Field
	Weight float64
}

// RiskComponents are the seven weighted composite inputs; weights sum to 1
var RiskComponents = []Component{
	{Field: FieldVIX, Weight: 0.25},
	{Field: FieldGeoTotal, Weight: 0.25},
	{Field: FieldSentimentInv, Weight: 0.15},
	{Field: FieldInventoryChg, Weight: 0.10},
	{Field: FieldGPR, Weight: 0.10},
	{Field: FieldMiddleEast, Weight: 0.08},
	{Field: FieldRussiaUkraine, Weight: 0.07},
}

// Band is the percentile floor and ceiling of one component series
type Band struct {
	Floor   float64
	Ceiling float64
}

// Spread returns the distance between ceiling and floor
func (b Band) Spread() float64 {
	return b.Ceiling - b.Floor
}

// Normalize maps v onto 0..100 relative to the band.
// Values at or beyond the ceiling saturate to 100; a degenerate band yields 50.
func (b Band) Normalize(v float64) float64 {
	spread := b.Spread()
	if spread <= 0 {
		return NeutralNormScore
	}
	return clamp((v-b.Floor)/spread*100, 0, MaxScore)
}

// ScoredRecord carries the composite risk score and level of one month
type ScoredRecord struct {
	SignalRecord
	RiskIndex float64
	Level     domain.RiskLevel
}

// ComputeBands computes the 10th/85th percentile band of every component over
// the full monthly sequence. Result is indexed like RiskComponents.
func ComputeBands(records []SignalRecord) []Band {
	bands := make([]Band, len(RiskComponents))
	for i, c := range RiskComponents {
		values := sortedValues(records, c.Field)
		bands[i] = Band{
			Floor:   Percentile(values, LowerPercentile),
			Ceiling: Percentile(values, UpperPercentile),
		}
	}
	return bands
}

// CompositeScore weights the normalized components of one record, clamped to 0..100
// and rounded to two decimals
func CompositeScore(r SignalRecord, bands []Band) float64 {
	score := 0.0
	for i, c := range RiskComponents {
		score += bands[i].Normalize(r.Value(c.Field)) * c.Weight
	}
	return Round2(clamp(score, 0, MaxScore))
}

// Score computes the composite risk index and level for every month.
// Bands are computed once over all records before any month is scored.
// The level is classified on the index after rounding to two decimals, so a raw
// score of 64.996 stores as 65.0 High rather than Medium, and every stored row
// satisfies Level == Classify(RiskIndex).
func Score(records []SignalRecord) ([]ScoredRecord, error) {
	if len(records) == 0 {
		return nil, ErrNoMonths
	}

	bands := ComputeBands(records)
	out := make([]ScoredRecord, len(records))
	for i, r := range records {
		index := CompositeScore(r, bands)
		out[i] = ScoredRecord{
			SignalRecord: r,
			RiskIndex:    index,
			Level:        Classify(index),
		}
	}
	return out, nil
}
