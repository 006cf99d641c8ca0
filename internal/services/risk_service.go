package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	api "oilrisk/pkg/contracts/api/v1"
)

// defaultSpan is the time series range used when no start is given
const defaultSpanYears = 2

// RiskService answers composite risk queries
type RiskService struct {
	data   *Dataset
	logger *slog.Logger
}

// NewRiskService creates a risk service over data
func NewRiskService(data *Dataset, logger *slog.Logger) *RiskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RiskService{data: data, logger: logger.With(slog.String("service", "risk"))}
}

// Current returns the latest month with its five strongest factors
func (s *RiskService) Current(ctx context.Context) (*api.CurrentRisk, error) {
	latest, ok := s.data.Latest()
	if !ok {
		return nil, newError(ErrNoRiskData, "No risk data available")
	}
	return &api.CurrentRisk{
		RiskIndex:  fixed(latest.RiskIndex, indexScale),
		RiskLevel:  string(latest.RiskLevel),
		Date:       dateKey(latest.Date),
		TopFactors: topFactors(s.data.Factors(latest.Date), topFactorsN),
	}, nil
}

// Timeseries returns oil price and risk index over the inclusive range
// [start, end]. A zero end defaults to the latest month and a zero start to
// two years before end. Ranges above LTTBThreshold points are downsampled.
func (s *RiskService) Timeseries(ctx context.Context, start, end time.Time) (*api.Timeseries, error) {
	if end.IsZero() {
		if latest, ok := s.data.Latest(); ok {
			end = latest.Date
		} else {
			end = time.Now().UTC()
		}
	}
	if start.IsZero() {
		start = end.AddDate(-defaultSpanYears, 0, 0)
	}

	months := s.data.MonthsBetween(start, end)
	indices := make([]int, len(months))
	for i := range indices {
		indices[i] = i
	}
	if len(months) > LTTBThreshold {
		oil := make([]float64, len(months))
		risk := make([]float64, len(months))
		for i, m := range months {
			oil[i] = m.OilPrice
			risk[i] = m.RiskIndex
		}
		indices = unionSorted(LTTB(oil, LTTBThreshold), LTTB(risk, LTTBThreshold))
		s.logger.DebugContext(ctx, "time series downsampled",
			slog.Int("points", len(months)),
			slog.Int("kept", len(indices)))
	}

	out := &api.Timeseries{
		Dates:     make([]string, 0, len(indices)),
		OilPrice:  make([]decimal.Decimal, 0, len(indices)),
		RiskIndex: make([]decimal.Decimal, 0, len(indices)),
		Alerts:    []api.AlertMarker{},
	}
	for _, i := range indices {
		m := months[i]
		out.Dates = append(out.Dates, dateKey(m.Date))
		out.OilPrice = append(out.OilPrice, fixed(m.OilPrice, priceScale))
		out.RiskIndex = append(out.RiskIndex, fixed(m.RiskIndex, indexScale))
	}
	for _, a := range s.data.AlertsBetween(start, end) {
		out.Alerts = append(out.Alerts, api.AlertMarker{
			Date:      dateKey(a.Date),
			Level:     string(a.Level),
			RiskIndex: fixed(a.RiskIndex, indexScale),
		})
	}
	return out, nil
}

func unionSorted(a, b []int) []int {
	seen := make(map[int]struct{}, len(a)+len(b))
	out := make([]int, 0, len(a)+len(b))
	for _, list := range [][]int{a, b} {
		for _, i := range list {
			if _, ok := seen[i]; ok {
				continue
			}
			seen[i] = struct{}{}
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
