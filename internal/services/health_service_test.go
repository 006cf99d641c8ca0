package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"oilrisk/internal/shared/testutil"
	"oilrisk/pkg/contracts"
)

func TestHealthService_Check(t *testing.T) {
	svc := NewHealthService(scenarioData(t), nil)

	got := svc.Check(context.Background())
	assert.Equal(t, "ok", got.Status)
	assert.Equal(t, contracts.Version, got.Version)
	assert.NotEmpty(t, got.RunID)
	assert.Equal(t, 24, got.Months)
	assert.Equal(t, 13, got.Alerts)
}

func TestHealthService_CheckEmpty(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	svc := NewHealthService(NewDataset(nil), logger)

	got := svc.Check(context.Background())
	assert.Equal(t, "degraded", got.Status)
	assert.Zero(t, got.Months)
	testutil.AssertLogContains(t, logs, slog.LevelWarn, "health check on empty dataset")
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthService_CheckDatabase(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   string
		wantDatabase string
	}{
		{"reachable", nil, "ok", "ok"},
		{"unreachable", errors.New("connection refused"), "degraded", "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			svc := NewHealthService(scenarioData(t), logger).
				WithDatabase(pingFunc(func(context.Context) error { return tt.err }))

			got := svc.Check(context.Background())
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, tt.wantDatabase, got.Database)
			if tt.err != nil {
				testutil.AssertLogContains(t, logs, slog.LevelWarn, "database ping failed")
			}
		})
	}
}

func TestHealthService_CheckWithoutDatabase(t *testing.T) {
	got := NewHealthService(scenarioData(t), nil).Check(context.Background())
	assert.Empty(t, got.Database)
}
