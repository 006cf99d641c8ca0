package risk

import (
	"time"

	"oilrisk/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func obs(date time.Time, values map[Field]float64) Observation {
	return NewObservation(date, values)
}

// baseline returns a value for every source field
func baseline() map[Field]float64 {
	return map[Field]float64{
		FieldCPI:           300,
		FieldOilPrice:      70,
		FieldBrentChg:      0.5,
		FieldInventory:     450,
		FieldOPECOutput:    28,
		FieldVIX:           20,
		FieldGeoTotal:      5,
		FieldRussiaUkraine: 2,
		FieldMiddleEast:    3,
		FieldGPR:           100,
		FieldSentiment:     0.1,
		FieldUSDIndex:      100,
	}
}

// monthlySeries builds three daily observations per month starting January 2020,
// using mutate to alter the baseline of month i (0-based)
func monthlySeries(months int, mutate func(i int, v map[Field]float64)) []Observation {
	var out []Observation
	start := day(2020, time.January, 1)
	for i := 0; i < months; i++ {
		values := baseline()
		if mutate != nil {
			mutate(i, values)
		}
		month := start.AddDate(0, i, 0)
		for _, d := range []int{3, 12, 21} {
			out = append(out, obs(month.AddDate(0, 0, d-1), values))
		}
	}
	return out
}

// record builds an enriched month directly for alert tests
func record(i int, riskIndex float64, factors ...Factor) MonthlyRecord {
	month := day(2020, time.January, 1).AddDate(0, i, 0)
	return MonthlyRecord{
		ScoredRecord: ScoredRecord{
			SignalRecord: SignalRecord{MonthlyAggregate: MonthlyAggregate{Month: month, fields: map[Field]float64{}}},
			RiskIndex:    riskIndex,
			Level:        Classify(riskIndex),
		},
		Factors: factors,
	}
}

func factor(name string, value, attribution float64) Factor {
	def := FactorDefinition{Name: name, NameZh: name + "_zh", Category: domain.CategoryFinancial}
	for _, d := range FactorDefinitions {
		if d.Name == name {
			def = d
		}
	}
	return Factor{FactorDefinition: def, Value: value, Attribution: attribution}
}
