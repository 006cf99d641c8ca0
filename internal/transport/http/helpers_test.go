package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/risk/risktest"
	"oilrisk/internal/services"
	"oilrisk/pkg/contracts/domain"
)

// testAPI serves the full API over the 24 month risktest scenario:
// months 0-7 Medium, 8-17 Low, 18-20 High, 21-23 Low; 13 alerts.
type testAPI struct {
	router  chi.Router
	data    *services.Dataset
	factors *services.FactorService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWith(t, risktest.Dataset(t))
}

func newTestAPIWith(t *testing.T, ds *domain.RiskDataset) *testAPI {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	data := services.NewDataset(ds)
	factors := services.NewFactorService(data, logger)

	hs := Handlers{
		Risk:     NewRiskHandler(services.NewRiskService(data, logger), logger, errorHandler),
		Factor:   NewFactorHandler(factors, logger, errorHandler),
		Alert:    NewAlertHandler(services.NewAlertService(data, logger), logger, errorHandler),
		Backtest: NewBacktestHandler(services.NewBacktestService(data, logger), logger, errorHandler),
		Report:   NewReportHandler(services.NewReportService(data, 0, logger), nil, time.Second, logger, errorHandler),
	}
	health := NewHealthHandler(services.NewHealthService(data, logger), logger)

	r := chi.NewRouter()
	r.Get("/healthz", health.Healthz)
	r.Mount("/api", hs.Routes())
	return &testAPI{router: r, data: data, factors: factors}
}

func (a *testAPI) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// problem is the subset of a problem response the tests inspect
type problem struct {
	Type      string `json:"type"`
	Status    int    `json:"status"`
	Detail    string `json:"detail"`
	ErrorCode string `json:"error_code"`
}

func requireProblem(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) problem {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	p := decode[problem](t, rec)
	require.Equal(t, code, p.ErrorCode)
	return p
}

