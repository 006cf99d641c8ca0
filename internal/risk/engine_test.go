package risk

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilrisk/internal/shared/testutil"
	"oilrisk/pkg/contracts/domain"
)

// scenario produces 24 months where VIX and the geopolitical total move
// and every other component is flat:
//
//	months 0-3    VIX slightly up        -> 50 Medium
//	months 4-7    geo total slightly up  -> 50 Medium
//	months 8-17   calm                   -> 25 Low
//	months 18-20  VIX and geo spike      -> 75 High
//	months 21-23  calm                   -> 25 Low
func scenario() []Observation {
	return monthlySeries(24, func(i int, v map[Field]float64) {
		switch {
		case i <= 3:
			v[FieldVIX] = 21
		case i <= 7:
			v[FieldGeoTotal] = 6
		case i >= 18 && i <= 20:
			v[FieldVIX] = 60
			v[FieldGeoTotal] = 15
		}
	})
}

type stageRecorder struct {
	mu     sync.Mutex
	stages []Stage
	runs   int
}

func (r *stageRecorder) RecordStage(_ context.Context, stage Stage, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *stageRecorder) RecordRun(context.Context, *Result, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

func TestEngine_Run(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	recorder := &stageRecorder{}
	engine := NewEngine(logger)
	engine.SetRecorder(recorder)

	result, err := engine.Run(context.Background(), scenario())
	require.NoError(t, err)
	require.Len(t, result.Months, 24)
	assert.NotEmpty(t, result.RunID)

	levels := map[domain.RiskLevel][]int{}
	for i, m := range result.Months {
		levels[m.Level] = append(levels[m.Level], i)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, levels[domain.RiskLevelMedium])
	assert.Equal(t, []int{18, 19, 20}, levels[domain.RiskLevelHigh])
	assert.Len(t, levels[domain.RiskLevelLow], 13)

	assert.Equal(t, 50.0, result.Months[0].RiskIndex)
	assert.Equal(t, 25.0, result.Months[10].RiskIndex)
	assert.Equal(t, 75.0, result.Months[19].RiskIndex)

	t.Run("alerts", func(t *testing.T) {
		set := result.Alerts
		assert.Equal(t, 5, set.FirstPass)
		assert.Equal(t, 8, set.Backfilled)
		require.Len(t, set.Alerts, 13)

		byMonth := map[int]AlertEvent{}
		for _, a := range set.Alerts {
			idx := (a.Date.Year()-2020)*12 + int(a.Date.Month()) - 1
			byMonth[idx] = a
		}

		spike := byMonth[18]
		assert.Equal(t, domain.RiskLevelHigh, spike.Level)
		assert.Equal(t, "vix_index", spike.TriggerFactor)
		assert.Equal(t, domain.TriggerAnomaly, spike.TriggerType)
		require.Len(t, spike.Detail, 1)
		assert.Equal(t, 60.0, spike.Detail[0].CurrentValue)
		assert.Equal(t, 51.0, spike.Detail[0].Threshold)

		assert.Equal(t, domain.TriggerThreshold, byMonth[19].TriggerType)
		assert.Equal(t, domain.TriggerThreshold, byMonth[20].TriggerType)

		calm := byMonth[21]
		assert.Equal(t, domain.RiskLevelLow, calm.Level)
		assert.Equal(t, domain.TriggerTrend, calm.TriggerType)
		assert.Equal(t, "vix_index", calm.TriggerFactor)
		require.Len(t, calm.Detail, 1)
		assert.Equal(t, CompositeFactorName, calm.Detail[0].Factor)

		assert.Equal(t, domain.RiskLevelLow, byMonth[8].Level, "first calm month after the medium run")

		for i := 0; i < 8; i++ {
			a, ok := byMonth[i]
			require.True(t, ok, "medium month %d backfilled", i)
			assert.True(t, a.Backfilled)
			assert.Equal(t, "VIX恐慌指数触发中等风险预警，风险指数50.0", a.Summary)
		}
	})

	t.Run("rows", func(t *testing.T) {
		dataset := result.Dataset()
		assert.Equal(t, result.RunID, dataset.RunID)
		assert.Len(t, dataset.RiskIndex, 24)
		assert.Len(t, dataset.RiskFactors, 24*len(FactorDefinitions))
		require.Len(t, dataset.Alerts, 13)

		assert.Equal(t, 70.0, dataset.RiskIndex[0].OilPrice)
		for i, a := range dataset.Alerts {
			assert.Equal(t, int64(i+1), a.ID)
		}
		assert.Equal(t, day(2020, time.January, 1), dataset.Alerts[0].Date)
	})

	t.Run("telemetry", func(t *testing.T) {
		assert.Equal(t, []Stage{StageAggregate, StageSignals, StageScore, StageAttribute, StageAlerts}, recorder.stages)
		assert.Equal(t, 1, recorder.runs)

		testutil.AssertLogContains(t, logs, slog.LevelInfo, "risk pipeline completed")
		testutil.AssertLogContains(t, logs, slog.LevelWarn, "alert quota not reached")
		testutil.AssertLogAttr(t, logs, "component", "risk_engine")
		testutil.AssertLogAttr(t, logs, "backfilled_alerts", int64(8))
		testutil.AssertNoErrors(t, logs)
	})
}

func TestEngine_RunDeterministic(t *testing.T) {
	engine := NewEngine(slog.Default())

	a, err := engine.Run(context.Background(), scenario())
	require.NoError(t, err)
	b, err := engine.Run(context.Background(), scenario())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.RiskIndexRows(), b.RiskIndexRows())
	assert.Equal(t, a.RiskFactorRows(), b.RiskFactorRows())
	assert.Equal(t, a.AlertRows(), b.AlertRows())
}

func TestEngine_RunEmpty(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	engine := NewEngine(logger)

	result, err := engine.Run(context.Background(), nil)
	assert.Nil(t, result)
	require.ErrorIs(t, err, ErrNoObservations)
	assert.Contains(t, err.Error(), string(StageAggregate))

	testutil.AssertLogContains(t, logs, slog.LevelError, "risk pipeline failed")
}
