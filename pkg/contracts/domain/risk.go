package domain

import (
	"time"
)

// DateLayout is the canonical calendar-day layout used by every risk data set
const DateLayout = "2006-01-02"

// RiskLevel represents the three-band classification of a composite risk score
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "Low"
	RiskLevelMedium RiskLevel = "Medium"
	RiskLevelHigh   RiskLevel = "High"
)

// IsValid reports whether the level is one of the declared bands
func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}

// IsElevated reports whether the level is Medium or High
func (l RiskLevel) IsElevated() bool {
	return l == RiskLevelMedium || l == RiskLevelHigh
}

// TriggerType classifies the cause of an alert
type TriggerType string

const (
	TriggerThreshold TriggerType = "THRESHOLD"
	TriggerAnomaly   TriggerType = "ANOMALY"
	TriggerTrend     TriggerType = "TREND"
)

// FactorCategory groups attribution factors for radar scoring
type FactorCategory string

const (
	CategorySupplyDemand FactorCategory = "SUPPLY_DEMAND"
	CategoryMacro        FactorCategory = "MACRO"
	CategoryFinancial    FactorCategory = "FINANCIAL"
	CategoryGeopolitical FactorCategory = "GEOPOLITICAL"
	CategorySentiment    FactorCategory = "SENTIMENT"
)

// CategoryOrder is the display order of factor categories
var CategoryOrder = []FactorCategory{
	CategorySupplyDemand,
	CategoryMacro,
	CategoryFinancial,
	CategoryGeopolitical,
	CategorySentiment,
}

// IsValid reports whether the category is one of the declared groups
func (c FactorCategory) IsValid() bool {
	for _, known := range CategoryOrder {
		if c == known {
			return true
		}
	}
	return false
}

// LocalizedName returns the Chinese display name of the category
func (c FactorCategory) LocalizedName() string {
	switch c {
	case CategorySupplyDemand:
		return "供需"
	case CategoryMacro:
		return "宏观经济"
	case CategoryFinancial:
		return "金融市场"
	case CategoryGeopolitical:
		return "地缘政治"
	case CategorySentiment:
		return "市场情绪"
	default:
		return string(c)
	}
}

// RiskIndexRow is one month of the composite risk data set
type RiskIndexRow struct {
	Date      time.Time `json:"date"`
	RiskIndex float64   `json:"risk_index"`
	RiskLevel RiskLevel `json:"risk_level"`
	OilPrice  float64   `json:"oil_price"`
}

// RiskFactorRow is one factor attribution for one month
type RiskFactorRow struct {
	Date         time.Time      `json:"date"`
	FactorName   string         `json:"factor_name"`
	FactorNameZh string         `json:"factor_name_zh"`
	Category     FactorCategory `json:"category"`
	Value        float64        `json:"value"`
	Attribution  float64        `json:"shap_value"`
}

// TriggerRule is one entry of an alert's rule chain.
// JSON keys match the persisted detail payload.
type TriggerRule struct {
	RuleType      TriggerType `json:"ruleType"`
	Factor        string      `json:"factor"`
	FactorZh      string      `json:"factorZh"`
	CurrentValue  float64     `json:"currentValue"`
	Threshold     float64     `json:"threshold"`
	Description   string      `json:"description"`
	DescriptionEn string      `json:"descriptionEn,omitempty"`
}

// AlertRow is one synthesized alert event
type AlertRow struct {
	ID              int64         `json:"id"`
	Date            time.Time     `json:"date"`
	Level           RiskLevel     `json:"level"`
	RiskIndex       float64       `json:"risk_index"`
	TriggerType     TriggerType   `json:"trigger_type"`
	TriggerFactor   string        `json:"trigger_factor"`
	TriggerFactorZh string        `json:"trigger_factor_zh"`
	Summary         string        `json:"summary"`
	SummaryEn       string        `json:"summary_en"`
	Detail          []TriggerRule `json:"detail"`
}

// RiskDataset is the complete output of one pipeline run
type RiskDataset struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	RiskIndex   []RiskIndexRow  `json:"risk_index"`
	RiskFactors []RiskFactorRow `json:"risk_factors"`
	Alerts      []AlertRow      `json:"alerts"`
}
