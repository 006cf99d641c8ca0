package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	apierrors "oilrisk/internal/errors"
	"oilrisk/internal/middleware"
	"oilrisk/internal/services"
	handlers "oilrisk/internal/transport/http"
	"oilrisk/pkg/contracts/domain"
)

// Router builds the HTTP API over dataset
func (a *Application) Router(dataset *domain.RiskDataset) (chi.Router, error) {
	cfg := a.Config
	logger := a.Logger
	errorHandler := apierrors.NewErrorHandler(logger, cfg.Logging.Level == "debug")

	data := services.NewDataset(dataset)
	hs := handlers.Handlers{
		Risk:     handlers.NewRiskHandler(services.NewRiskService(data, logger), logger, errorHandler),
		Factor:   handlers.NewFactorHandler(services.NewFactorService(data, logger), logger, errorHandler),
		Alert:    handlers.NewAlertHandler(services.NewAlertService(data, logger), logger, errorHandler),
		Backtest: handlers.NewBacktestHandler(services.NewBacktestService(data, logger), logger, errorHandler),
		Report: handlers.NewReportHandler(
			services.NewReportService(data, cfg.Report.ChunkDelay, logger),
			cfg.Security.AllowedOrigins,
			cfg.Report.StreamTimeout,
			logger,
			errorHandler,
		),
	}
	healthService := services.NewHealthService(data, logger)
	if a.Database.IsEnabled() {
		healthService.WithDatabase(a.Database)
	}
	health := handlers.NewHealthHandler(healthService, logger)

	otelMiddleware, err := middleware.NewOTelMiddleware(a.OTel)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(otelMiddleware.Handler)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(errorHandler))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.Security.AllowedOrigins,
		ExposedHeaders: []string{"X-Request-ID"},
		Logger:         logger,
	}))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	r.Get("/healthz", health.Healthz)
	r.Handle("/metrics", a.OTel.MetricsHandler())

	var limits []func(http.Handler) http.Handler
	if rl := cfg.Security.RateLimit; rl.Enabled {
		limits = append(limits, middleware.NewRateLimiter(rl.RPS, rl.Burst, logger, errorHandler).Handler)
	}
	r.With(limits...).Mount("/api", hs.Routes())

	logger.Info("router configured",
		slog.Int("months", data.MonthCount()),
		slog.Int("alerts", data.AlertCount()),
		slog.Bool("rate_limit", cfg.Security.RateLimit.Enabled))
	return r, nil
}

// Serve listens on the configured port until ctx is done
func (a *Application) Serve(ctx context.Context, dataset *domain.RiskDataset) error {
	addr := fmt.Sprintf(":%d", a.Config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return a.ServeListener(ctx, ln, dataset)
}

// ServeListener serves the API on ln and shuts down gracefully once ctx is done
func (a *Application) ServeListener(ctx context.Context, ln net.Listener, dataset *domain.RiskDataset) error {
	router, err := a.Router(dataset)
	if err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Handler:        router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Logger.InfoContext(ctx, "server listening", slog.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(ctx, "shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})
	return g.Wait()
}
