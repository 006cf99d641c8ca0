package risk

import (
	"oilrisk/pkg/contracts/domain"
)

// RiskIndexRows returns one row per month
func (r *Result) RiskIndexRows() []domain.RiskIndexRow {
	rows := make([]domain.RiskIndexRow, len(r.Months))
	for i, m := range r.Months {
		rows[i] = domain.RiskIndexRow{
			Date:      m.Month,
			RiskIndex: m.RiskIndex,
			RiskLevel: m.Level,
			OilPrice:  Round2(m.Value(FieldOilPrice)),
		}
	}
	return rows
}

// RiskFactorRows returns months x factor definitions rows, month-major
func (r *Result) RiskFactorRows() []domain.RiskFactorRow {
	rows := make([]domain.RiskFactorRow, 0, len(r.Months)*len(FactorDefinitions))
	for _, m := range r.Months {
		for _, f := range m.Factors {
			rows = append(rows, domain.RiskFactorRow{
				Date:         m.Month,
				FactorName:   f.Name,
				FactorNameZh: f.NameZh,
				Category:     f.Category,
				Value:        f.Value,
				Attribution:  f.Attribution,
			})
		}
	}
	return rows
}

// AlertRows returns the alert set with 1-based ids in date order
func (r *Result) AlertRows() []domain.AlertRow {
	rows := make([]domain.AlertRow, len(r.Alerts.Alerts))
	for i, a := range r.Alerts.Alerts {
		detail := make([]domain.TriggerRule, len(a.Detail))
		copy(detail, a.Detail)
		rows[i] = domain.AlertRow{
			ID:              int64(i + 1),
			Date:            a.Date,
			Level:           a.Level,
			RiskIndex:       a.RiskIndex,
			TriggerType:     a.TriggerType,
			TriggerFactor:   a.TriggerFactor,
			TriggerFactorZh: a.TriggerFactorZh,
			Summary:         a.Summary,
			SummaryEn:       a.SummaryEn,
			Detail:          detail,
		}
	}
	return rows
}

// Dataset bundles the three output sets
func (r *Result) Dataset() *domain.RiskDataset {
	return &domain.RiskDataset{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		RiskIndex:   r.RiskIndexRows(),
		RiskFactors: r.RiskFactorRows(),
		Alerts:      r.AlertRows(),
	}
}
