package exporter

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"oilrisk/pkg/contracts/domain"
)

// Output scales of the dataset columns
const (
	indexScale       = 2
	factorValueScale = 4
	attributionScale = 6
)

// formatFixed formats v with exactly places decimals, rounding half away from zero
func formatFixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func formatInt(i int64) string {
	return strconv.FormatInt(i, 10)
}

// detailRule is the persisted shape of a rule chain entry
type detailRule struct {
	RuleType     domain.TriggerType `json:"ruleType"`
	Factor       string             `json:"factor"`
	FactorZh     string             `json:"factorZh"`
	CurrentValue float64            `json:"currentValue"`
	Threshold    float64            `json:"threshold"`
	Description  string             `json:"description"`
}

// DetailJSON encodes a rule chain with the persisted keys, keeping non-ASCII text readable
func DetailJSON(rules []domain.TriggerRule) (string, error) {
	out := make([]detailRule, len(rules))
	for i, r := range rules {
		out[i] = detailRule{
			RuleType:     r.RuleType,
			Factor:       r.Factor,
			FactorZh:     r.FactorZh,
			CurrentValue: r.CurrentValue,
			Threshold:    r.Threshold,
			Description:  r.Description,
		}
	}
	var buf strings.Builder
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
