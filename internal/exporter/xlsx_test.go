package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"oilrisk/internal/risk/risktest"
)

func TestXLSXWriter_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk.xlsx")
	w := NewXLSXWriter(path)
	assert.Equal(t, "xlsx", w.Name())

	dataset := risktest.Dataset(t)
	require.NoError(t, w.Write(context.Background(), dataset))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{RiskIndexSheet, RiskFactorSheet, AlertSheet}, f.GetSheetList())

	index, err := f.GetRows(RiskIndexSheet)
	require.NoError(t, err)
	require.Len(t, index, len(dataset.RiskIndex)+1)
	assert.Equal(t, riskIndexHeaders, index[0])
	assert.Equal(t, "2020-01-01", index[1][0])

	factors, err := f.GetRows(RiskFactorSheet)
	require.NoError(t, err)
	assert.Len(t, factors, len(dataset.RiskFactors)+1)

	alerts, err := f.GetRows(AlertSheet)
	require.NoError(t, err)
	require.Len(t, alerts, len(dataset.Alerts)+1)
	assert.Equal(t, "1", alerts[1][0])
}
