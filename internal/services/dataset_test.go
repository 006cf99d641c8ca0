package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilrisk/pkg/contracts/domain"
)

func TestNewDataset(t *testing.T) {
	d := scenarioData(t)

	assert.NotEmpty(t, d.RunID())
	assert.False(t, d.GeneratedAt().IsZero())
	assert.Equal(t, 24, d.MonthCount())
	assert.Equal(t, 13, d.AlertCount())

	latest, ok := d.Latest()
	require.True(t, ok)
	assert.Equal(t, month(23), latest.Date)

	factorDate, ok := d.LatestFactorDate()
	require.True(t, ok)
	assert.Equal(t, month(23), factorDate)

	assert.Len(t, d.Factors(month(5)), 10)
	assert.Empty(t, d.Factors(day("1999-01-01")))

	a, ok := d.Alert(10)
	require.True(t, ok)
	assert.Equal(t, month(18), a.Date)
	_, ok = d.Alert(0)
	assert.False(t, ok)
}

func TestDataset_Ranges(t *testing.T) {
	d := scenarioData(t)

	tests := []struct {
		name       string
		start, end time.Time
		wantMonths int
		wantAlerts int
	}{
		{"whole range", month(0), month(23), 24, 13},
		{"inclusive bounds", month(18), month(20), 3, 3},
		{"mid month bounds", day("2021-06-15"), day("2021-09-15"), 3, 3},
		{"before data", day("1990-01-01"), day("1990-12-31"), 0, 0},
		{"inverted", month(10), month(5), 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, d.MonthsBetween(tt.start, tt.end), tt.wantMonths)
			assert.Len(t, d.AlertsBetween(tt.start, tt.end), tt.wantAlerts)
		})
	}
}

func TestDataset_Unordered(t *testing.T) {
	d := NewDataset(&domain.RiskDataset{
		RiskIndex: []domain.RiskIndexRow{
			{Date: month(2), RiskIndex: 30},
			{Date: month(0), RiskIndex: 10},
			{Date: month(1), RiskIndex: 20},
		},
		Alerts: []domain.AlertRow{{ID: 2, Date: month(2)}, {ID: 1, Date: month(0)}},
	})

	latest, ok := d.Latest()
	require.True(t, ok)
	assert.Equal(t, 30.0, latest.RiskIndex)
	assert.Equal(t, int64(1), d.Alerts()[0].ID)

	_, ok = d.LatestFactorDate()
	assert.False(t, ok)
}

func TestDataset_Empty(t *testing.T) {
	d := NewDataset(nil)
	_, ok := d.Latest()
	assert.False(t, ok)
	assert.Zero(t, d.MonthCount())
	assert.Empty(t, d.Alerts())
}

func TestDataset_ReportCache(t *testing.T) {
	d := scenarioData(t)

	_, ok := d.Report(1)
	assert.False(t, ok)

	d.SetReport(1, "")
	_, ok = d.Report(1)
	assert.False(t, ok, "empty text is not a cached report")

	d.SetReport(1, "text")
	text, ok := d.Report(1)
	assert.True(t, ok)
	assert.Equal(t, "text", text)
}
