package services

import (
	"sort"
	"sync"
	"time"

	"oilrisk/pkg/contracts/domain"
)

// Dataset is the read model of one pipeline run. Rows are immutable after
// construction; only the report cache changes.
type Dataset struct {
	runID       string
	generatedAt time.Time
	months      []domain.RiskIndexRow
	factors     map[string][]domain.RiskFactorRow
	alerts      []domain.AlertRow
	alertIndex  map[int64]int

	mu      sync.RWMutex
	reports map[int64]string
}

// NewDataset indexes a pipeline output. Months are ordered by date and alerts
// by id.
func NewDataset(ds *domain.RiskDataset) *Dataset {
	d := &Dataset{
		factors:    make(map[string][]domain.RiskFactorRow),
		alertIndex: make(map[int64]int),
		reports:    make(map[int64]string),
	}
	if ds == nil {
		return d
	}
	d.runID = ds.RunID
	d.generatedAt = ds.GeneratedAt

	d.months = append([]domain.RiskIndexRow(nil), ds.RiskIndex...)
	sort.SliceStable(d.months, func(i, j int) bool {
		return d.months[i].Date.Before(d.months[j].Date)
	})

	for _, f := range ds.RiskFactors {
		key := dateKey(f.Date)
		d.factors[key] = append(d.factors[key], f)
	}

	d.alerts = append([]domain.AlertRow(nil), ds.Alerts...)
	sort.SliceStable(d.alerts, func(i, j int) bool {
		return d.alerts[i].ID < d.alerts[j].ID
	})
	for i, a := range d.alerts {
		d.alertIndex[a.ID] = i
	}
	return d
}

func dateKey(t time.Time) string {
	return t.Format(domain.DateLayout)
}

// RunID returns the id of the pipeline run the rows came from
func (d *Dataset) RunID() string { return d.runID }

// GeneratedAt returns the pipeline completion time
func (d *Dataset) GeneratedAt() time.Time { return d.generatedAt }

// MonthCount returns the number of scored months
func (d *Dataset) MonthCount() int { return len(d.months) }

// AlertCount returns the number of alerts
func (d *Dataset) AlertCount() int { return len(d.alerts) }

// Latest returns the most recent month
func (d *Dataset) Latest() (domain.RiskIndexRow, bool) {
	if len(d.months) == 0 {
		return domain.RiskIndexRow{}, false
	}
	return d.months[len(d.months)-1], true
}

// MonthsBetween returns the months in the inclusive range [start, end]
func (d *Dataset) MonthsBetween(start, end time.Time) []domain.RiskIndexRow {
	lo := sort.Search(len(d.months), func(i int) bool {
		return !d.months[i].Date.Before(start)
	})
	hi := sort.Search(len(d.months), func(i int) bool {
		return d.months[i].Date.After(end)
	})
	if lo >= hi {
		return nil
	}
	return d.months[lo:hi]
}

// Factors returns the factor rows of the month starting on date
func (d *Dataset) Factors(date time.Time) []domain.RiskFactorRow {
	return d.factors[dateKey(date)]
}

// LatestFactorDate returns the most recent date that has factor rows
func (d *Dataset) LatestFactorDate() (time.Time, bool) {
	var latest time.Time
	found := false
	for _, rows := range d.factors {
		if len(rows) == 0 {
			continue
		}
		if !found || rows[0].Date.After(latest) {
			latest = rows[0].Date
			found = true
		}
	}
	return latest, found
}

// Alerts returns every alert ordered by id
func (d *Dataset) Alerts() []domain.AlertRow {
	return d.alerts
}

// AlertsBetween returns the alerts dated in the inclusive range [start, end]
func (d *Dataset) AlertsBetween(start, end time.Time) []domain.AlertRow {
	var out []domain.AlertRow
	for _, a := range d.alerts {
		if a.Date.Before(start) || a.Date.After(end) {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Alert looks up an alert by id
func (d *Dataset) Alert(id int64) (domain.AlertRow, bool) {
	i, ok := d.alertIndex[id]
	if !ok {
		return domain.AlertRow{}, false
	}
	return d.alerts[i], true
}

// Report returns the cached analysis text of an alert
func (d *Dataset) Report(id int64) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	text, ok := d.reports[id]
	return text, ok && text != ""
}

// SetReport caches the analysis text of an alert
func (d *Dataset) SetReport(id int64, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports[id] = text
}
