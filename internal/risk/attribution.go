package risk

import (
	"github.com/montanaflynn/stats"

	"oilrisk/pkg/contracts/domain"
)

// FactorDefinition binds a named factor to its source signal and risk direction
type FactorDefinition struct {
	Name      string
	NameZh    string
	Category  domain.FactorCategory
	Source    Field
	Direction float64
}

// FactorDefinitions is the fixed factor set, in output order
var FactorDefinitions = []FactorDefinition{
	{Name: "crude_inventory", NameZh: "原油库存变化", Category: domain.CategorySupplyDemand, Source: FieldInventoryChg, Direction: -1.0},
	{Name: "opec_output", NameZh: "OPEC产量", Category: domain.CategorySupplyDemand, Source: FieldOPECOutput, Direction: -0.5},
	{Name: "us_dollar_index", NameZh: "美元指数", Category: domain.CategoryMacro, Source: FieldUSDIndex, Direction: -0.3},
	{Name: "cpi_expectation", NameZh: "CPI通胀预期", Category: domain.CategoryMacro, Source: FieldCPI, Direction: 0.5},
	{Name: "vix_index", NameZh: "VIX恐慌指数", Category: domain.CategoryFinancial, Source: FieldVIX, Direction: 1.0},
	{Name: "brent_change_rate", NameZh: "布伦特价格变化率", Category: domain.CategoryFinancial, Source: FieldBrentChg, Direction: 0.3},
	{Name: "middle_east_tension", NameZh: "中东紧张指数", Category: domain.CategoryGeopolitical, Source: FieldMiddleEast, Direction: 1.0},
	{Name: "russia_ukraine_risk", NameZh: "俄乌风险指数", Category: domain.CategoryGeopolitical, Source: FieldRussiaUkraine, Direction: 1.0},
	{Name: "gpr_index", NameZh: "地缘政治风险指数", Category: domain.CategorySentiment, Source: FieldGPR, Direction: 0.8},
	{Name: "news_sentiment", NameZh: "新闻情绪指数", Category: domain.CategorySentiment, Source: FieldSentiment, Direction: -1.0},
}

// Factor is the attribution of one factor in one month.
// Value is rounded to 4 decimals, Attribution to 6.
type Factor struct {
	FactorDefinition
	Value       float64
	Attribution float64
}

// MonthlyRecord is a fully enriched month: score, level and factor attributions
type MonthlyRecord struct {
	ScoredRecord
	Factors []Factor
}

// FactorByName returns the factor with the given canonical name
func (m MonthlyRecord) FactorByName(name string) (Factor, bool) {
	for _, f := range m.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}

// Standardization holds the corpus-wide mean and standard deviation of a factor source
type Standardization struct {
	Mean   float64
	StdDev float64
}

// ZScore standardizes v
func (s Standardization) ZScore(v float64) float64 {
	return (v - s.Mean) / s.StdDev
}

// Standardize computes mean and sample standard deviation of values.
// Fewer than two values yield mean 0 and deviation 1; a zero deviation becomes 1.
// A mean or deviation that overflows falls back to 0 and 1 respectively.
func Standardize(values []float64) Standardization {
	if len(values) < 2 {
		return Standardization{Mean: 0, StdDev: 1}
	}
	mean, err := stats.Mean(values)
	if err != nil || !isFinite(mean) {
		mean = 0
	}
	sd, err := stats.StandardDeviationSample(values)
	if err != nil || !isFinite(sd) || sd <= 0 {
		sd = 1
	}
	return Standardization{Mean: mean, StdDev: sd}
}

// Attribution converts a raw value into a bounded signed contribution
func (d FactorDefinition) Attribution(value float64, s Standardization) float64 {
	contribution := s.ZScore(value) * AttributionScale * d.Direction
	return clamp(contribution, -AttributionBound, AttributionBound)
}

// Attribute computes every factor's attribution for every month. Statistics are
// corpus-wide, so the result must be recomputed whenever the month set changes.
func Attribute(records []ScoredRecord) ([]MonthlyRecord, error) {
	if len(records) == 0 {
		return nil, ErrNoMonths
	}

	standards := make([]Standardization, len(FactorDefinitions))
	for i, def := range FactorDefinitions {
		values := make([]float64, len(records))
		for j, r := range records {
			values[j] = r.Value(def.Source)
		}
		standards[i] = Standardize(values)
	}

	out := make([]MonthlyRecord, len(records))
	for i, r := range records {
		factors := make([]Factor, len(FactorDefinitions))
		for j, def := range FactorDefinitions {
			value := r.Value(def.Source)
			factors[j] = Factor{
				FactorDefinition: def,
				Value:            roundTo(value, 4),
				Attribution:      roundTo(def.Attribution(value, standards[j]), 6),
			}
		}
		out[i] = MonthlyRecord{ScoredRecord: r, Factors: factors}
	}
	return out, nil
}
