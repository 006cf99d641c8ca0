package services

import (
	"context"
	"log/slog"

	"oilrisk/pkg/contracts"
	api "oilrisk/pkg/contracts/api/v1"
)

// Pinger checks a backing store
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports readiness of the loaded dataset
type HealthService struct {
	data   *Dataset
	db     Pinger
	logger *slog.Logger
}

// NewHealthService creates a health service over data
func NewHealthService(data *Dataset, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{data: data, logger: logger.With(slog.String("service", "health"))}
}

// WithDatabase adds a database ping to every check
func (s *HealthService) WithDatabase(db Pinger) *HealthService {
	s.db = db
	return s
}

// Check returns "ok" once months are loaded and the database, if any, answers.
// Anything else is "degraded".
func (s *HealthService) Check(ctx context.Context) api.HealthStatus {
	status := api.HealthStatus{
		Status:  "ok",
		Version: contracts.Version,
		RunID:   s.data.RunID(),
		Months:  s.data.MonthCount(),
		Alerts:  s.data.AlertCount(),
	}
	if status.Months == 0 {
		status.Status = "degraded"
		s.logger.WarnContext(ctx, "health check on empty dataset")
	}
	if s.db != nil {
		status.Database = "ok"
		if err := s.db.Ping(ctx); err != nil {
			status.Status = "degraded"
			status.Database = "unreachable"
			s.logger.WarnContext(ctx, "database ping failed", slog.String("error", err.Error()))
		}
	}
	return status
}
