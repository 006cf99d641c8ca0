package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	gorillaws "github.com/gorilla/websocket"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/services"
	"oilrisk/internal/websocket"
	api "oilrisk/pkg/contracts/api/v1"
)

// ReportHandler streams alert analysis reports
type ReportHandler struct {
	service      ReportService
	upgrader     *gorillaws.Upgrader
	timeout      time.Duration
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a report handler. Each stream is cut off after timeout.
func NewReportHandler(service ReportService, allowedOrigins []string, timeout time.Duration, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	logger = logger.With(slog.String("component", "report_handler"))
	return &ReportHandler{
		service:      service,
		upgrader:     websocket.NewUpgrader(allowedOrigins, logger),
		timeout:      timeout,
		logger:       logger,
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{alertId}", h.Events)
	r.Get("/{alertId}/ws", h.WebSocket)
	return r
}

// prepare resolves the report or renders the error before any stream starts
func (h *ReportHandler) prepare(w http.ResponseWriter, r *http.Request) (*services.Report, bool) {
	id, err := idParam(r, "alertId")
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	report, err := h.service.Prepare(r.Context(), id)
	if errors.Is(err, services.ErrAlertNotFound) {
		h.errorHandler.HandleError(w, r, apierrors.AlertNotFound(id))
		return nil, false
	}
	if err != nil {
		handleServiceError(h.errorHandler, w, r, err)
		return nil, false
	}
	return report, true
}

// Events handles GET /api/report/{alertId} as server-sent events
func (h *ReportHandler) Events(w http.ResponseWriter, r *http.Request) {
	report, ok := h.prepare(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrInternalServer)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	writeEvent := func(data []byte) error {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	err := h.service.Stream(ctx, report, func(token string) error {
		payload, err := json.Marshal(api.ReportToken{Token: token})
		if err != nil {
			return err
		}
		return writeEvent(payload)
	})
	if err != nil {
		h.logger.WarnContext(ctx, "report stream aborted",
			slog.Int64("alert_id", report.AlertID),
			slog.String("error", err.Error()))
		return
	}

	if err := writeEvent([]byte(services.ReportDone)); err != nil {
		h.logger.WarnContext(ctx, "failed to finish report stream",
			slog.Int64("alert_id", report.AlertID),
			slog.String("error", err.Error()))
	}
}

// WebSocket handles GET /api/report/{alertId}/ws
func (h *ReportHandler) WebSocket(w http.ResponseWriter, r *http.Request) {
	report, ok := h.prepare(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		h.logger.WarnContext(r.Context(), "websocket upgrade failed",
			slog.String("error", err.Error()))
		return
	}

	stream := websocket.NewStream(conn, h.logger)
	defer stream.Close()

	ctx, cancel := context.WithTimeout(stream.Watch(r.Context()), h.timeout)
	defer cancel()

	h.logger.InfoContext(ctx, "report websocket opened",
		slog.Int64("alert_id", report.AlertID),
		slog.Bool("cached", report.Cached))

	if err := h.service.Stream(ctx, report, stream.Send); err != nil {
		h.logger.WarnContext(ctx, "report stream aborted",
			slog.Int64("alert_id", report.AlertID),
			slog.String("error", err.Error()))
		code := gorillaws.CloseInternalServerErr
		if errors.Is(err, context.DeadlineExceeded) {
			code = gorillaws.CloseTryAgainLater
		}
		_ = stream.Fail(code, "report stream aborted")
		return
	}

	if err := stream.Done(); err != nil {
		h.logger.WarnContext(ctx, "failed to finish report stream",
			slog.Int64("alert_id", report.AlertID),
			slog.String("error", err.Error()))
	}
}
