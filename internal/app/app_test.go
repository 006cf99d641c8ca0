package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilrisk/internal/config"
	"oilrisk/internal/risk/risktest"
	api "oilrisk/pkg/contracts/api/v1"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "source.csv")
	require.NoError(t, os.WriteFile(input, []byte(risktest.CSV()), 0o644))

	cfg := config.Default()
	cfg.Paths.Input = input
	cfg.Paths.OutputDir = filepath.Join(dir, "dist")
	cfg.Logging.Level = "debug"
	cfg.Report.ChunkDelay = 0
	cfg.Server.ShutdownTimeout = 5 * time.Second
	cfg.Security.RateLimit.Enabled = false
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) (*Application, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	a, err := New(context.Background(), cfg, &logs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, &logs
}

func TestBuildDataset(t *testing.T) {
	a, logs := newTestApp(t, testConfig(t))

	ds, err := a.BuildDataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.RiskIndex, 24)
	assert.Len(t, ds.Alerts, 13)
	assert.NotEmpty(t, ds.RunID)
	assert.Contains(t, logs.String(), "source loaded")
}

func TestBuildDatasetErrors(t *testing.T) {
	t.Run("no input", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Paths.Input = ""
		a, _ := newTestApp(t, cfg)

		_, err := a.BuildDataset(context.Background())
		require.ErrorIs(t, err, ErrNoSource)

		_, err = a.LoadDataset(context.Background())
		require.ErrorIs(t, err, ErrNoSource)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.Paths.Input = filepath.Join(t.TempDir(), "missing.csv")
		a, _ := newTestApp(t, cfg)

		_, err := a.BuildDataset(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read")
	})
}

func TestExport(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sinks.SQL = true
	cfg.Sinks.CSV = true
	cfg.Sinks.XLSX = true
	a, _ := newTestApp(t, cfg)

	ctx := context.Background()
	ds, err := a.BuildDataset(ctx)
	require.NoError(t, err)
	require.NoError(t, a.Export(ctx, ds))

	for _, name := range []string{
		config.SQLFileName, config.XLSXFileName,
		"risk_index.csv", "risk_factor.csv", "alert.csv",
	} {
		assert.FileExists(t, filepath.Join(cfg.Paths.OutputDir, name))
	}
}

func TestExportWithoutSinks(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sinks = config.SinksConfig{}
	a, logs := newTestApp(t, cfg)

	ds, err := a.BuildDataset(context.Background())
	require.NoError(t, err)
	require.NoError(t, a.Export(context.Background(), ds))
	assert.Contains(t, logs.String(), "no sinks enabled")
	assert.NoDirExists(t, cfg.Paths.OutputDir)
}

func getJSON(t *testing.T, url string, into any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if into != nil {
		require.NoError(t, json.Unmarshal(body, into), string(body))
	}
	return resp.StatusCode
}

func TestServeListener(t *testing.T) {
	a, _ := newTestApp(t, testConfig(t))
	ds, err := a.LoadDataset(context.Background())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.ServeListener(ctx, ln, ds) }()

	var health api.HealthStatus
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	assert.Equal(t, http.StatusOK, getJSON(t, base+"/healthz", &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 24, health.Months)

	var current api.CurrentRisk
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/api/risk/current", &current))
	assert.Equal(t, "2021-12-01", current.Date)

	var problem map[string]any
	assert.Equal(t, http.StatusNotFound, getJSON(t, base+"/api/nowhere", &problem))
	assert.Equal(t, "/errors/not-found", problem["type"])

	resp, err := http.Get(base + "/metrics")
	require.NoError(t, err)
	metrics, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(metrics), "risk_months_scored_total")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRouterRateLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.RateLimit.Enabled = true
	cfg.Security.RateLimit.RPS = 0.001
	cfg.Security.RateLimit.Burst = 1
	a, _ := newTestApp(t, cfg)

	ds, err := a.BuildDataset(context.Background())
	require.NoError(t, err)
	router, err := a.Router(ds)
	require.NoError(t, err)

	srv := &http.Server{Handler: router}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Serve(ln) }()
	defer srv.Close()
	base := "http://" + ln.Addr().String()

	assert.Equal(t, http.StatusOK, getJSON(t, base+"/api/risk/current", nil))
	assert.Equal(t, http.StatusTooManyRequests, getJSON(t, base+"/api/risk/current", nil))
	assert.Equal(t, http.StatusOK, getJSON(t, base+"/healthz", nil), "health checks are not rate limited")
}
