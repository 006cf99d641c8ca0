package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/services"
	api "oilrisk/pkg/contracts/api/v1"
)

// FactorHandler serves factor attributions and category weights
type FactorHandler struct {
	service      FactorService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFactorHandler creates a factor handler
func NewFactorHandler(service FactorService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FactorHandler {
	return &FactorHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "factor_handler")),
		errorHandler: errorHandler,
	}
}

// Radar handles GET /api/risk/radar?date=
func (h *FactorHandler) Radar(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate("date", r.URL.Query().Get("date"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	scores, err := h.service.Radar(r.Context(), date)
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}
	render.JSON(w, r, scores)
}

// Explain handles GET /api/explain/{date}
func (h *FactorHandler) Explain(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	if raw == "" {
		h.errorHandler.HandleError(w, r, apierrors.InvalidDate("date", raw))
		return
	}
	date, err := parseDate("date", raw)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	factors, err := h.service.Explain(r.Context(), date)
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}
	render.JSON(w, r, factors)
}

// UpdateWeights handles PUT /api/config/weights
func (h *FactorHandler) UpdateWeights(w http.ResponseWriter, r *http.Request) {
	var req api.WeightsRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	result, err := h.service.UpdateWeights(r.Context(), services.WeightsFromRequest(req))
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "weights updated via api",
		slog.String("level", result.RiskLevel))
	render.JSON(w, r, result)
}
