package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/services"
	api "oilrisk/pkg/contracts/api/v1"
)

// AlertHandler serves the alert list and detail
type AlertHandler struct {
	service      AlertService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAlertHandler creates an alert handler
func NewAlertHandler(service AlertService, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AlertHandler {
	return &AlertHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "alert_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the alert routes
func (h *AlertHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.List)
	r.Get("/{id}", h.Detail)

	return r
}

// List handles GET /api/alerts?page=&size=&level=&sort=&order=
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	q := api.AlertQuery{
		Page:  intQuery(values.Get("page"), 1),
		Size:  intQuery(values.Get("size"), api.DefaultPageSize),
		Level: values.Get("level"),
		Sort:  values.Get("sort"),
		Order: values.Get("order"),
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}
	render.JSON(w, r, page)
}

// Detail handles GET /api/alerts/{id}
func (h *AlertHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	detail, err := h.service.Detail(r.Context(), id)
	if errors.Is(err, services.ErrAlertNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.AlertNotFound(id))
		return
	}
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return
	}
	render.JSON(w, r, detail)
}

// intQuery parses an integer query value; absent or malformed values yield def
func intQuery(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
