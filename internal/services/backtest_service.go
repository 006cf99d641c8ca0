package services

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"oilrisk/internal/risk"
	api "oilrisk/pkg/contracts/api/v1"
	"oilrisk/pkg/contracts/domain"
)

// Simulated models and their relative perturbation ranges
var backtestModels = map[string]float64{
	"XGBoost": 0.05,
	"ARIMA":   0.08,
	"LSTM":    0.06,
}

// BacktestService replays simulated model predictions against stored months
type BacktestService struct {
	data   *Dataset
	logger *slog.Logger
}

// NewBacktestService creates a backtest service over data
func NewBacktestService(data *Dataset, logger *slog.Logger) *BacktestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BacktestService{data: data, logger: logger.With(slog.String("service", "backtest"))}
}

// ParseBacktestRequest validates the request and resolves its dates
func ParseBacktestRequest(req api.BacktestRequest) (start, end time.Time, err error) {
	if req.StartDate == "" || req.EndDate == "" {
		return start, end, newError(ErrInvalidBacktest, "startDate and endDate are required")
	}
	start, err = time.Parse(domain.DateLayout, req.StartDate)
	if err != nil {
		return start, end, newError(ErrInvalidBacktest, "startDate must be a date in YYYY-MM-DD format")
	}
	end, err = time.Parse(domain.DateLayout, req.EndDate)
	if err != nil {
		return start, end, newError(ErrInvalidBacktest, "endDate must be a date in YYYY-MM-DD format")
	}
	if !start.Before(end) {
		return start, end, newError(ErrInvalidBacktest, "startDate must be before endDate")
	}
	if _, ok := backtestModels[req.Model]; !ok {
		return start, end, newError(ErrInvalidBacktest, "model must be one of: XGBoost, ARIMA, LSTM")
	}
	return start, end, nil
}

// Run perturbs each month's oil price and risk index with a generator seeded
// by the month and model, then scores the prediction. Identical requests
// produce identical results.
func (s *BacktestService) Run(ctx context.Context, req api.BacktestRequest) (*api.BacktestResult, error) {
	start, end, err := ParseBacktestRequest(req)
	if err != nil {
		return nil, err
	}
	months := s.data.MonthsBetween(start, end)
	if len(months) == 0 {
		return nil, newError(ErrNoRiskData, "No data found for the given date range")
	}
	spread := backtestModels[req.Model]

	n := len(months)
	result := &api.BacktestResult{
		Dates:     make([]string, n),
		Actual:    make([]decimal.Decimal, n),
		Predicted: make([]decimal.Decimal, n),
	}

	var hits, directionMatches int
	var totalAbsError float64
	for i, m := range months {
		key := dateKey(m.Date)
		rng := rand.New(rand.NewSource(backtestSeed(key, req.Model)))

		actualPrice := m.OilPrice
		predictedPrice := actualPrice * (1 + (rng.Float64()*2-1)*spread)
		result.Dates[i] = key
		result.Actual[i] = fixed(actualPrice, priceScale)
		result.Predicted[i] = fixed(predictedPrice, priceScale)
		totalAbsError += math.Abs(predictedPrice - actualPrice)

		predictedRisk := math.Max(0, math.Min(100, m.RiskIndex*(1+(rng.Float64()*2-1)*spread)))
		if risk.Classify(m.RiskIndex) == risk.Classify(predictedRisk) {
			hits++
		}

		if i > 0 {
			actualChange := actualPrice - months[i-1].OilPrice
			predictedChange := predictedPrice - result.Predicted[i-1].InexactFloat64()
			if (actualChange >= 0) == (predictedChange >= 0) {
				directionMatches++
			}
		}
	}

	hitRate := float64(hits) / float64(n)
	direction := 0.0
	if n > 1 {
		direction = float64(directionMatches) / float64(n-1)
	}
	result.MAE = fixed(totalAbsError/float64(n), priceScale)
	result.HitRate = fixed(hitRate, rateScale)
	result.FalseAlarmRate = fixed(1-hitRate, rateScale)
	result.DirectionAccuracy = fixed(direction, rateScale)

	s.logger.InfoContext(ctx, "backtest completed",
		slog.String("model", req.Model),
		slog.Int("months", n),
		slog.String("hit_rate", result.HitRate.String()))
	return result, nil
}

// backtestSeed derives the generator seed of one month and model
func backtestSeed(date, model string) int64 {
	h := fnv.New64a()
	h.Write([]byte(date))
	h.Write([]byte{'|'})
	h.Write([]byte(model))
	return int64(h.Sum64())
}
