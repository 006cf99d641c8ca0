package services

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	api "oilrisk/pkg/contracts/api/v1"
	"oilrisk/pkg/contracts/domain"
)

// Output scales
const (
	indexScale  = 2
	priceScale  = 2
	shapScale   = 6
	radarScale  = 1
	rateScale   = 4
	topFactorsN = 5
	topRadarN   = 3
)

// fixed rounds half away from zero to places decimals
func fixed(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func toFactor(f domain.RiskFactorRow) api.Factor {
	return api.Factor{
		Name:     f.FactorName,
		NameZh:   f.FactorNameZh,
		Shap:     fixed(f.Attribution, shapScale),
		Category: string(f.Category),
	}
}

func toFactors(rows []domain.RiskFactorRow) []api.Factor {
	out := make([]api.Factor, len(rows))
	for i, f := range rows {
		out[i] = toFactor(f)
	}
	return out
}

// topFactors returns the n rows with the largest |attribution|; ties keep
// their stored order
func topFactors(rows []domain.RiskFactorRow, n int) []api.Factor {
	sorted := append([]domain.RiskFactorRow(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].Attribution) > math.Abs(sorted[j].Attribution)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return toFactors(sorted)
}

func toAlert(a domain.AlertRow, report string) api.Alert {
	return api.Alert{
		ID:              a.ID,
		Date:            dateKey(a.Date),
		Level:           string(a.Level),
		RiskIndex:       fixed(a.RiskIndex, indexScale),
		TriggerType:     string(a.TriggerType),
		TriggerFactor:   a.TriggerFactor,
		TriggerFactorZh: a.TriggerFactorZh,
		Summary:         a.Summary,
		SummaryEn:       a.SummaryEn,
		AIReport:        report,
	}
}

func toTriggerRules(rules []domain.TriggerRule) []api.TriggerRule {
	out := make([]api.TriggerRule, len(rules))
	for i, r := range rules {
		out[i] = api.TriggerRule{
			RuleType:     string(r.RuleType),
			Factor:       r.Factor,
			FactorZh:     r.FactorZh,
			CurrentValue: fixed(r.CurrentValue, indexScale),
			Threshold:    fixed(r.Threshold, indexScale),
			Description:  r.Description,
		}
	}
	return out
}
