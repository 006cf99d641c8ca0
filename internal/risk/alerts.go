package risk

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"oilrisk/pkg/contracts/domain"
)

// AlertEvent is one synthesized alert
type AlertEvent struct {
	Date            time.Time
	Level           domain.RiskLevel
	RiskIndex       float64
	TriggerType     domain.TriggerType
	TriggerFactor   string
	TriggerFactorZh string
	Summary         string
	SummaryEn       string
	Detail          []domain.TriggerRule
	Backfilled      bool
}

// AlertSet is the final alert list plus pass statistics
type AlertSet struct {
	Alerts     []AlertEvent
	FirstPass  int
	Backfilled int
}

// BelowMinimum reports whether the quota backfill could not reach MinAlerts
func (s AlertSet) BelowMinimum() bool {
	return len(s.Alerts) < MinAlerts
}

// trigger is the dominant factor of an alert
type trigger struct {
	factor   string
	factorZh string
	kind     domain.TriggerType
}

// alertFold is the accumulator threaded through the monthly sequence
type alertFold struct {
	prev   *MonthlyRecord
	alerts []AlertEvent
}

// step emits at most one alert for m and advances the previous-month state
func (s alertFold) step(m MonthlyRecord) alertFold {
	if level, ok := alertLevel(m, s.prev); ok {
		s.alerts = append(s.alerts, buildAlert(m, level, s.prev))
	}
	current := m
	s.prev = &current
	return s
}

// alertLevel decides whether a month emits an alert and at which level
func alertLevel(m MonthlyRecord, prev *MonthlyRecord) (domain.RiskLevel, bool) {
	switch m.Level {
	case domain.RiskLevelHigh:
		return domain.RiskLevelHigh, true
	case domain.RiskLevelMedium:
		return domain.RiskLevelMedium, m.RiskIndex >= MediumAlertFloor
	case domain.RiskLevelLow:
		return domain.RiskLevelLow, prev != nil && prev.Level.IsElevated()
	}
	return "", false
}

// SynthesizeAlerts scans the ordered months and produces the alert set.
// When the first pass yields fewer than MinAlerts, Medium months that were not
// alerted are added by descending risk index until MaxAlerts is reached.
// The result is sorted by date.
func SynthesizeAlerts(months []MonthlyRecord) (AlertSet, error) {
	if len(months) == 0 {
		return AlertSet{}, ErrNoMonths
	}

	fold := alertFold{}
	for _, m := range months {
		fold = fold.step(m)
	}

	set := AlertSet{Alerts: fold.alerts, FirstPass: len(fold.alerts)}
	if len(set.Alerts) < MinAlerts {
		set.Alerts = backfill(months, set.Alerts)
		set.Backfilled = len(set.Alerts) - set.FirstPass
	}

	sort.SliceStable(set.Alerts, func(i, j int) bool {
		return set.Alerts[i].Date.Before(set.Alerts[j].Date)
	})
	return set, nil
}

func backfill(months []MonthlyRecord, alerts []AlertEvent) []AlertEvent {
	alerted := make(map[time.Time]bool, len(alerts))
	for _, a := range alerts {
		alerted[a.Date] = true
	}

	var candidates []MonthlyRecord
	for _, m := range months {
		if m.Level == domain.RiskLevelMedium && !alerted[m.Month] {
			candidates = append(candidates, m)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RiskIndex > candidates[j].RiskIndex
	})

	for _, m := range candidates {
		if len(alerts) >= MaxAlerts {
			break
		}
		a := buildAlert(m, domain.RiskLevelMedium, nil)
		a.Backfilled = true
		a.SummaryEn = fmt.Sprintf("%s triggers medium alert, risk index %s", a.TriggerFactor, FormatIndex(m.RiskIndex))
		alerts = append(alerts, a)
	}
	return alerts
}

func buildAlert(m MonthlyRecord, level domain.RiskLevel, prev *MonthlyRecord) AlertEvent {
	rules, t := buildDetail(m, prev)
	if level == domain.RiskLevelLow {
		t.kind = domain.TriggerTrend
	}
	zh, en := summarize(level, m.RiskIndex, t)
	return AlertEvent{
		Date:            m.Month,
		Level:           level,
		RiskIndex:       m.RiskIndex,
		TriggerType:     t.kind,
		TriggerFactor:   t.factor,
		TriggerFactorZh: t.factorZh,
		Summary:         zh,
		SummaryEn:       en,
		Detail:          rules,
	}
}

// buildDetail builds the rule chain of a month and selects its dominant trigger.
// The trigger is chosen by attribution magnitude while the chain is ordered by
// current value magnitude.
func buildDetail(m MonthlyRecord, prev *MonthlyRecord) ([]domain.TriggerRule, trigger) {
	var (
		rules []domain.TriggerRule
		best  *trigger
		top   float64
	)

	for _, f := range m.Factors {
		magnitude := math.Abs(f.Attribution)
		if magnitude > top {
			top = magnitude
			best = &trigger{factor: f.Name, factorZh: f.NameZh, kind: domain.TriggerThreshold}
		}
		if magnitude >= RuleAttributionFloor {
			rules = append(rules, factorRule(f, prev))
		}
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return math.Abs(rules[i].CurrentValue) > math.Abs(rules[j].CurrentValue)
	})
	if len(rules) > MaxRulesPerAlert {
		rules = rules[:MaxRulesPerAlert]
	}

	if len(rules) == 0 {
		rules = []domain.TriggerRule{compositeRule(m.RiskIndex)}
	}

	if best == nil {
		return rules, trigger{
			factor:   CompositeFactorName,
			factorZh: CompositeFactorNameZh,
			kind:     domain.TriggerThreshold,
		}
	}
	for _, r := range rules {
		if r.Factor == best.factor {
			best.kind = r.RuleType
			break
		}
	}
	return rules, *best
}

func factorRule(f Factor, prev *MonthlyRecord) domain.TriggerRule {
	return domain.TriggerRule{
		RuleType:      classifyRule(f, prev),
		Factor:        f.Name,
		FactorZh:      f.NameZh,
		CurrentValue:  Round2(f.Value),
		Threshold:     Round2(f.Value * SyntheticThresholdPct),
		Description:   fmt.Sprintf("%s当前值%.2f，SHAP贡献%.4f", f.NameZh, f.Value, f.Attribution),
		DescriptionEn: fmt.Sprintf("%s current value %.2f, attribution %.4f", f.Name, f.Value, f.Attribution),
	}
}

// classifyRule compares a factor with its value in the previous month
func classifyRule(f Factor, prev *MonthlyRecord) domain.TriggerType {
	if prev == nil {
		return domain.TriggerThreshold
	}
	pf, ok := prev.FactorByName(f.Name)
	if !ok {
		return domain.TriggerThreshold
	}

	before := pf.Value
	if before != 0 && math.Abs(f.Value-before)/math.Max(math.Abs(before), RelativeChangeFloor) > AnomalyChangeRatio {
		return domain.TriggerAnomaly
	}
	if (f.Value > before && f.Attribution > 0) || (f.Value < before && f.Attribution < 0) {
		return domain.TriggerTrend
	}
	return domain.TriggerThreshold
}

func compositeRule(riskIndex float64) domain.TriggerRule {
	ri := FormatIndex(riskIndex)
	return domain.TriggerRule{
		RuleType:      domain.TriggerThreshold,
		Factor:        CompositeFactorName,
		FactorZh:      CompositeFactorNameZh,
		CurrentValue:  riskIndex,
		Threshold:     FallbackThreshold,
		Description:   "综合风险指数达" + ri,
		DescriptionEn: "Composite risk index at " + ri,
	}
}

func summarize(level domain.RiskLevel, riskIndex float64, t trigger) (string, string) {
	ri := FormatIndex(riskIndex)
	switch level {
	case domain.RiskLevelHigh:
		return fmt.Sprintf("风险指数达%s，%s异常，触发高风险预警", ri, t.factorZh),
			fmt.Sprintf("Risk index at %s, %s abnormal, high risk alert triggered", ri, t.factor)
	case domain.RiskLevelMedium:
		return fmt.Sprintf("%s触发中等风险预警，风险指数%s", t.factorZh, ri),
			fmt.Sprintf("%s triggers medium risk alert, risk index %s", t.factor, ri)
	default:
		return fmt.Sprintf("风险指数回落至%s，%s趋势缓解", ri, t.factorZh),
			fmt.Sprintf("Risk index falls to %s, %s trend easing", ri, t.factor)
	}
}

// FormatIndex renders a risk index with the shortest exact decimal form,
// keeping at least one fractional digit (72.5, 70.0, 64.99)
func FormatIndex(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
