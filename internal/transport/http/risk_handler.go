package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/middleware"
	api "oilrisk/pkg/contracts/api/v1"
)

// RiskHandler serves the composite risk index
type RiskHandler struct {
	service      RiskService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewRiskHandler creates a risk handler
func NewRiskHandler(service RiskService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *RiskHandler {
	return &RiskHandler{
		service:      service,
		validator:    middleware.NewValidator(),
		logger:       logger.With(slog.String("component", "risk_handler")),
		errorHandler: errorHandler,
	}
}

// Current handles GET /api/risk/current
func (h *RiskHandler) Current(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.Current(r.Context())
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}
	render.JSON(w, r, current)
}

// Timeseries handles GET /api/factors/timeseries?start=&end=
func (h *RiskHandler) Timeseries(w http.ResponseWriter, r *http.Request) {
	q := api.TimeseriesQuery{
		Start: r.URL.Query().Get("start"),
		End:   r.URL.Query().Get("end"),
	}
	if err := h.validator.ValidateStruct(q); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	start, err := parseDate("start", q.Start)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	end, err := parseDate("end", q.End)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	series, err := h.service.Timeseries(r.Context(), start, end)
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "timeseries served",
		slog.Int("points", len(series.Dates)),
		slog.Int("alerts", len(series.Alerts)))
	render.JSON(w, r, series)
}
