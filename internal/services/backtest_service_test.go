package services

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	api "oilrisk/pkg/contracts/api/v1"
)

func TestParseBacktestRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     api.BacktestRequest
		wantMsg string
	}{
		{"valid", api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2020-12-31", Model: "ARIMA"}, ""},
		{"missing start", api.BacktestRequest{EndDate: "2020-12-31", Model: "ARIMA"}, "startDate and endDate are required"},
		{"missing end", api.BacktestRequest{StartDate: "2020-01-01", Model: "ARIMA"}, "startDate and endDate are required"},
		{"bad start", api.BacktestRequest{StartDate: "2020/01/01", EndDate: "2020-12-31", Model: "LSTM"}, "startDate must be a date in YYYY-MM-DD format"},
		{"bad end", api.BacktestRequest{StartDate: "2020-01-01", EndDate: "soon", Model: "LSTM"}, "endDate must be a date in YYYY-MM-DD format"},
		{"same day", api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2020-01-01", Model: "LSTM"}, "startDate must be before endDate"},
		{"reversed", api.BacktestRequest{StartDate: "2021-01-01", EndDate: "2020-01-01", Model: "LSTM"}, "startDate must be before endDate"},
		{"unknown model", api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2020-12-31", Model: "GPT"}, "model must be one of: XGBoost, ARIMA, LSTM"},
		{"model is case sensitive", api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2020-12-31", Model: "xgboost"}, "model must be one of: XGBoost, ARIMA, LSTM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseBacktestRequest(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalidBacktest)
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestBacktestService_Run(t *testing.T) {
	svc := NewBacktestService(scenarioData(t), nil)
	ctx := context.Background()

	for model, spread := range backtestModels {
		t.Run(model, func(t *testing.T) {
			req := api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2021-12-31", Model: model}
			got, err := svc.Run(ctx, req)
			require.NoError(t, err)

			require.Len(t, got.Dates, 24)
			require.Len(t, got.Actual, 24)
			require.Len(t, got.Predicted, 24)
			assert.Equal(t, "2020-01-01", got.Dates[0])
			assert.Equal(t, "60", got.Actual[0].String())

			for i := range got.Dates {
				actual := got.Actual[i].InexactFloat64()
				predicted := got.Predicted[i].InexactFloat64()
				assert.LessOrEqual(t, math.Abs(predicted-actual), actual*spread+0.005, "month %d", i)
				assert.LessOrEqual(t, -got.Predicted[i].Exponent(), int32(2))
			}

			one := decimal.NewFromInt(1)
			for _, rate := range []decimal.Decimal{got.HitRate, got.FalseAlarmRate, got.DirectionAccuracy} {
				assert.True(t, rate.GreaterThanOrEqual(decimal.Zero))
				assert.True(t, rate.LessThanOrEqual(one))
			}
			assert.True(t, got.HitRate.Add(got.FalseAlarmRate).Equal(one))
			assert.True(t, got.MAE.GreaterThan(decimal.Zero))
			assert.True(t, got.MAE.LessThanOrEqual(decimal.NewFromFloat(83*spread)))

			again, err := svc.Run(ctx, req)
			require.NoError(t, err)
			assert.Equal(t, got, again, "results are reproducible")
		})
	}
}

func TestBacktestService_RunModelsDiffer(t *testing.T) {
	svc := NewBacktestService(scenarioData(t), nil)
	ctx := context.Background()

	a, err := svc.Run(ctx, api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2021-12-31", Model: "XGBoost"})
	require.NoError(t, err)
	b, err := svc.Run(ctx, api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2021-12-31", Model: "ARIMA"})
	require.NoError(t, err)
	assert.Equal(t, a.Actual, b.Actual)
	assert.NotEqual(t, a.Predicted, b.Predicted)
}

func TestBacktestService_RunEdges(t *testing.T) {
	svc := NewBacktestService(scenarioData(t), nil)
	ctx := context.Background()

	t.Run("single month", func(t *testing.T) {
		got, err := svc.Run(ctx, api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2020-01-20", Model: "LSTM"})
		require.NoError(t, err)
		require.Len(t, got.Dates, 1)
		assert.True(t, got.DirectionAccuracy.IsZero())
	})

	t.Run("no months in range", func(t *testing.T) {
		_, err := svc.Run(ctx, api.BacktestRequest{StartDate: "1990-01-01", EndDate: "1990-12-31", Model: "LSTM"})
		require.ErrorIs(t, err, ErrNoRiskData)
		assert.Equal(t, "No data found for the given date range", err.Error())
	})

	t.Run("invalid request", func(t *testing.T) {
		_, err := svc.Run(ctx, api.BacktestRequest{StartDate: "2020-01-01", EndDate: "2021-01-01"})
		require.ErrorIs(t, err, ErrInvalidBacktest)
	})
}

func TestBacktestSeed(t *testing.T) {
	assert.Equal(t, backtestSeed("2020-01-01", "LSTM"), backtestSeed("2020-01-01", "LSTM"))
	assert.NotEqual(t, backtestSeed("2020-01-01", "LSTM"), backtestSeed("2020-02-01", "LSTM"))
	assert.NotEqual(t, backtestSeed("2020-01-01", "LSTM"), backtestSeed("2020-01-01", "ARIMA"))
}
