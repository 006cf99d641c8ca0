// Package risktest provides deterministic pipeline inputs and outputs for tests
// of packages built on top of the risk engine.
package risktest

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"oilrisk/internal/risk"
	"oilrisk/pkg/contracts/domain"
)

// Start is the first month produced by Observations
var Start = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Baseline returns a flat value for every source field
func Baseline() map[risk.Field]float64 {
	return map[risk.Field]float64{
		risk.FieldCPI:           300,
		risk.FieldOilPrice:      70,
		risk.FieldBrentChg:      0.5,
		risk.FieldInventory:     450,
		risk.FieldOPECOutput:    28,
		risk.FieldVIX:           20,
		risk.FieldGeoTotal:      5,
		risk.FieldRussiaUkraine: 2,
		risk.FieldMiddleEast:    3,
		risk.FieldGPR:           100,
		risk.FieldSentiment:     0.1,
		risk.FieldUSDIndex:      100,
	}
}

// Observations returns 24 months of data with a medium stretch in the first
// eight months and a VIX spike in months 18-20. The oil price follows the month
// index so time series tests can tell months apart.
func Observations() []risk.Observation {
	var out []risk.Observation
	for i := 0; i < 24; i++ {
		values := Baseline()
		values[risk.FieldOilPrice] = 60 + float64(i)
		switch {
		case i <= 3:
			values[risk.FieldVIX] = 21
		case i <= 7:
			values[risk.FieldGeoTotal] = 6
		case i >= 18 && i <= 20:
			values[risk.FieldVIX] = 60
			values[risk.FieldGeoTotal] = 15
		}
		month := Start.AddDate(0, i, 0)
		for _, d := range []int{2, 11, 20} {
			out = append(out, risk.NewObservation(month.AddDate(0, 0, d), values))
		}
	}
	return out
}

// Result runs the engine over Observations
func Result(t testing.TB) *risk.Result {
	t.Helper()
	result, err := risk.NewEngine(slog.Default()).Run(context.Background(), Observations())
	require.NoError(t, err)
	return result
}

// Dataset runs the engine over Observations and returns the output rows
func Dataset(t testing.TB) *domain.RiskDataset {
	t.Helper()
	return Result(t).Dataset()
}

// Month returns the first day of month i counted from Start
func Month(i int) time.Time {
	return Start.AddDate(0, i, 0)
}

// CSV renders Observations as a source file with named columns
func CSV() string {
	var sb strings.Builder
	header := []string{"date"}
	for _, f := range risk.SourceFields {
		header = append(header, string(f))
	}
	sb.WriteString(strings.Join(header, ","))
	sb.WriteByte('\n')

	for _, o := range Observations() {
		row := []string{o.Date.Format(domain.DateLayout)}
		for _, f := range risk.SourceFields {
			v, _ := o.Value(f)
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		}
		sb.WriteString(strings.Join(row, ","))
		sb.WriteByte('\n')
	}
	return sb.String()
}
