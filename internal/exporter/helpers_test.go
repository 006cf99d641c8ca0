package exporter

import (
	"time"

	"oilrisk/pkg/contracts/domain"
)

// smallDataset is a hand-built dataset with quoting edge cases
func smallDataset() *domain.RiskDataset {
	jan := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := jan.AddDate(0, 1, 0)
	return &domain.RiskDataset{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC),
		RiskIndex: []domain.RiskIndexRow{
			{Date: jan, RiskIndex: 70, RiskLevel: domain.RiskLevelHigh, OilPrice: 61.5},
			{Date: feb, RiskIndex: 25.25, RiskLevel: domain.RiskLevelLow, OilPrice: 0},
		},
		RiskFactors: []domain.RiskFactorRow{
			{Date: jan, FactorName: "vix_index", FactorNameZh: "VIX恐慌指数", Category: domain.CategoryFinancial, Value: 60, Attribution: 0.1036},
			{Date: jan, FactorName: "o'brien", FactorNameZh: "测试", Category: domain.CategoryMacro, Value: -1.23456, Attribution: -0.15},
		},
		Alerts: []domain.AlertRow{{
			ID:              1,
			Date:            jan,
			Level:           domain.RiskLevelHigh,
			RiskIndex:       70,
			TriggerType:     domain.TriggerAnomaly,
			TriggerFactor:   "vix_index",
			TriggerFactorZh: "VIX恐慌指数",
			Summary:         "风险指数达70.0，VIX恐慌指数异常，触发高风险预警",
			SummaryEn:       "Risk index at 70.0, vix_index's jump",
			Detail: []domain.TriggerRule{{
				RuleType:     domain.TriggerAnomaly,
				Factor:       "vix_index",
				FactorZh:     "VIX恐慌指数",
				CurrentValue: 60,
				Threshold:    51,
				Description:  "it's high",
			}},
		}},
	}
}
