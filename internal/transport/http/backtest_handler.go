package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "oilrisk/internal/errors"
	api "oilrisk/pkg/contracts/api/v1"
)

// BacktestHandler runs model backtests
type BacktestHandler struct {
	service      BacktestService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewBacktestHandler creates a backtest handler
func NewBacktestHandler(service BacktestService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *BacktestHandler {
	return &BacktestHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "backtest_handler")),
		errorHandler: errorHandler,
	}
}

// Backtest handles POST /api/predict/backtest
func (h *BacktestHandler) Backtest(w http.ResponseWriter, r *http.Request) {
	var req api.BacktestRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result, err := h.service.Run(r.Context(), req)
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}
	render.JSON(w, r, result)
}
