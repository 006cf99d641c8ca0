package dataprocessing

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"oilrisk/internal/risk"
	"oilrisk/internal/shared/testutil"
)

// positionalRow builds a 138-column row with the given cells at their export positions
func positionalRow(date string, cells map[risk.Field]string) []string {
	row := make([]string, 138)
	row[PositionalLayout.Date] = date
	for f, v := range cells {
		row[PositionalLayout.Fields[f]] = v
	}
	return row
}

func csvLine(row []string) string {
	return strings.Join(row, ",") + "\n"
}

func TestReader_ReadCSVPositional(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	reader := NewReader(logger)

	header := make([]string, 138)
	for i := range header {
		header[i] = "col" + strconv.Itoa(i)
	}

	var b strings.Builder
	b.WriteString(bom)
	b.WriteString(csvLine(header))
	b.WriteString(csvLine(positionalRow("2020-02-03", map[risk.Field]string{risk.FieldVIX: "25", risk.FieldOilPrice: "55.1"})))
	b.WriteString(csvLine(positionalRow("2020-01-02", map[risk.Field]string{risk.FieldVIX: "18", risk.FieldGPR: "NaN"})))
	b.WriteString(csvLine(positionalRow("not a date", map[risk.Field]string{risk.FieldVIX: "99"})))
	b.WriteString("2020-03-01,1.5\n")

	observations, stats, err := reader.ReadCSV(context.Background(), strings.NewReader(b.String()))
	require.NoError(t, err)

	assert.Equal(t, ReadStats{Rows: 4, Observations: 3, SkippedDates: 1, ByName: false}, stats)
	require.Len(t, observations, 3)

	first := observations[0]
	assert.Equal(t, time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC), first.Date, "sorted by date")
	vix, ok := first.Value(risk.FieldVIX)
	assert.True(t, ok)
	assert.Equal(t, 18.0, vix)
	_, ok = first.Value(risk.FieldGPR)
	assert.False(t, ok, "NaN is absent")
	_, ok = first.Value(risk.FieldOilPrice)
	assert.False(t, ok, "empty is absent")

	short := observations[2]
	cpi, ok := short.Value(risk.FieldCPI)
	assert.True(t, ok)
	assert.Equal(t, 1.5, cpi)
	_, ok = short.Value(risk.FieldUSDIndex)
	assert.False(t, ok, "short row leaves trailing fields absent")

	testutil.AssertLogContains(t, logs, slog.LevelInfo, "source read")
	testutil.AssertLogAttr(t, logs, "skipped_dates", int64(1))
}

func TestReader_ReadCSVByName(t *testing.T) {
	header := []string{"date"}
	for i := len(risk.SourceFields) - 1; i >= 0; i-- {
		header = append(header, string(risk.SourceFields[i]))
	}
	row := []string{"2021-06-30"}
	for i := len(risk.SourceFields) - 1; i >= 0; i-- {
		row = append(row, strconv.Itoa(i))
	}
	src := csvLine(header) + `"2021-06-29","1,200"` + "\n" + csvLine(row)

	observations, stats, err := NewReader(nil).ReadCSV(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	assert.True(t, stats.ByName)
	require.Len(t, observations, 2)

	for i, f := range risk.SourceFields {
		v, ok := observations[1].Value(f)
		require.True(t, ok, "field %s", f)
		assert.Equal(t, float64(i), v)
	}

	usd, ok := observations[0].Value(risk.FieldUSDIndex)
	require.True(t, ok, "usd_index is the first field column when reversed")
	assert.Equal(t, 1200.0, usd)
}

func TestReader_ReadCSVNoHeader(t *testing.T) {
	_, _, err := NewReader(nil).ReadCSV(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReader_ReadCSVCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewReader(nil).ReadCSV(ctx, strings.NewReader("date\n2020-01-01\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReader_ReadXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "source.xlsx")

	f := excelize.NewFile()
	sheet := "Data"
	f.SetSheetName(f.GetSheetName(0), sheet)

	header := []interface{}{"date"}
	for _, field := range risk.SourceFields {
		header = append(header, string(field))
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &header))

	values := []interface{}{"2022-03-10"}
	for i := range risk.SourceFields {
		values = append(values, float64(i)+0.5)
	}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &values))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"2022-03-09", 4, "", "bad"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	observations, stats, err := NewReader(nil).ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, stats.ByName)
	require.Len(t, observations, 2)

	early := observations[0]
	cpi, ok := early.Value(risk.FieldCPI)
	assert.True(t, ok)
	assert.Equal(t, 4.0, cpi)
	_, ok = early.Value(risk.FieldBrentChg)
	assert.False(t, ok)

	vix, ok := observations[1].Value(risk.FieldVIX)
	assert.True(t, ok)
	assert.Equal(t, 5.5, vix)

	_, _, err = NewReader(nil).WithSheet("Missing").ReadXLSX(context.Background(), path)
	assert.Error(t, err)
}

func TestReader_ReadFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := NewReader(nil).ReadFile(context.Background(), filepath.Join(dir, "data.json"))
	assert.ErrorContains(t, err, "unsupported source format")

	_, _, err = NewReader(nil).ReadFile(context.Background(), filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("date\n2020-01-01\n"), 0o644))
	observations, _, err := NewReader(nil).ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, observations, 1)
}
