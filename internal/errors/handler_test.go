package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oilrisk/internal/infrastructure"
	"oilrisk/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
		wantLevel  slog.Level
	}{
		{"no risk data", NoRiskData("No risk data available"), http.StatusNotFound, TypeNoRiskData, CodeNoRiskData, slog.LevelWarn},
		{"alert not found", AlertNotFound(7), http.StatusNotFound, TypeNotFound, CodeAlertNotFound, slog.LevelWarn},
		{"invalid weights", InvalidWeights("macro weight must be between 0 and 2"), http.StatusBadRequest, TypeBadInput, CodeInvalidWeights, slog.LevelWarn},
		{"invalid backtest", InvalidBacktest("model must be one of: XGBoost, ARIMA, LSTM"), http.StatusBadRequest, TypeBadInput, CodeInvalidBacktest, slog.LevelWarn},
		{"invalid date", InvalidDate("start", "x"), http.StatusBadRequest, TypeBadInput, CodeInvalidDate, slog.LevelWarn},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests, TypeRateLimit, CodeRateLimit, slog.LevelWarn},
		{"wrapped api error", fmt.Errorf("lookup: %w", AlertNotFound(3)), http.StatusNotFound, TypeNotFound, CodeAlertNotFound, slog.LevelWarn},
		{"plain error", fmt.Errorf("disk on fire"), http.StatusInternalServerError, TypeInternal, "", slog.LevelError},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, TypeTimeout, "", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			h := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodGet, "/api/alerts/7", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
			rec := httptest.NewRecorder()

			h.HandleError(rec, req, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/alerts/7", body["instance"])
			assert.Equal(t, "trace-1", body["trace_id"])
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, body["error_code"])
			} else {
				assert.NotContains(t, body, "error_code")
			}
			assert.NotContains(t, body, "stack")
			testutil.AssertLogContains(t, logs, tt.wantLevel, "request failed")
		})
	}
}

func TestHandleErrorDetails(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/risk/radar", nil)

	h.HandleError(rec, req, InvalidDate("date", "March"))

	body := decodeProblem(t, rec)
	assert.Equal(t, "date must be a date in YYYY-MM-DD format", body["detail"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "date", details["field"])
}

func TestHandleErrorNil(t *testing.T) {
	h := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestHandleErrorStack(t *testing.T) {
	h := NewErrorHandler(nil, true)
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	h.HandleError(rec, req, ErrInternalServer)
	assert.Contains(t, decodeProblem(t, rec), "stack")

	rec = httptest.NewRecorder()
	h.HandleError(rec, req, NoRiskData("none"))
	assert.NotContains(t, decodeProblem(t, rec), "stack", "client errors carry no stack")
}

func TestHandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)
	rec := httptest.NewRecorder()

	h.HandlePanic(rec, httptest.NewRequest(http.MethodGet, "/boom", nil), "kaboom")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.Equal(t, "kaboom", body["panic"])
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	h := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/alerts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "Method DELETE is not allowed for this endpoint", decodeProblem(t, rec)["detail"])
}

func TestAPIErrorRender(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	err := InvalidWeights("bad")

	require.NoError(t, err.Render(rec, req))
	assert.Equal(t, "bad", err.Error())
}
