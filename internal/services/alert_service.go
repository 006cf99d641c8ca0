package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	api "oilrisk/pkg/contracts/api/v1"
	"oilrisk/pkg/contracts/domain"
)

// AlertService answers alert list and detail queries
type AlertService struct {
	data   *Dataset
	logger *slog.Logger
}

// NewAlertService creates an alert service over data
func NewAlertService(data *Dataset, logger *slog.Logger) *AlertService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertService{data: data, logger: logger.With(slog.String("service", "alert"))}
}

// Sanitize replaces invalid query values with their defaults: unknown levels
// are dropped, sort falls back to date, order to desc, page to at least 1 and
// size into [1, MaxPageSize].
func Sanitize(q api.AlertQuery) api.AlertQuery {
	if !domain.RiskLevel(q.Level).IsValid() {
		q.Level = ""
	}
	switch q.Sort {
	case "date", "riskIndex", "risk_index":
	default:
		q.Sort = "date"
	}
	if q.Order != "asc" && q.Order != "desc" {
		q.Order = "desc"
	}
	q.Page = max(1, q.Page)
	q.Size = max(1, min(api.MaxPageSize, q.Size))
	return q
}

// List returns one page of alerts
func (s *AlertService) List(ctx context.Context, query api.AlertQuery) (*api.Page[api.Alert], error) {
	q := Sanitize(query)

	var matched []domain.AlertRow
	for _, a := range s.data.Alerts() {
		if q.Level != "" && string(a.Level) != q.Level {
			continue
		}
		matched = append(matched, a)
	}

	compare := func(a, b domain.AlertRow) int {
		if q.Sort == "date" {
			return a.Date.Compare(b.Date)
		}
		switch {
		case a.RiskIndex < b.RiskIndex:
			return -1
		case a.RiskIndex > b.RiskIndex:
			return 1
		}
		return 0
	}
	sort.SliceStable(matched, func(i, j int) bool {
		c := compare(matched[i], matched[j])
		if q.Order == "desc" {
			c = -c
		}
		if c == 0 {
			return matched[i].ID < matched[j].ID
		}
		return c < 0
	})

	page := &api.Page[api.Alert]{
		Total:   len(matched),
		Page:    q.Page,
		Size:    q.Size,
		Records: []api.Alert{},
	}
	offset := (q.Page - 1) * q.Size
	if offset >= len(matched) {
		return page, nil
	}
	for _, a := range matched[offset:min(offset+q.Size, len(matched))] {
		report, _ := s.data.Report(a.ID)
		page.Records = append(page.Records, toAlert(a, report))
	}
	return page, nil
}

// Detail returns one alert with its rule chain
func (s *AlertService) Detail(ctx context.Context, id int64) (*api.AlertDetail, error) {
	a, ok := s.data.Alert(id)
	if !ok {
		return nil, newError(ErrAlertNotFound, fmt.Sprintf("Alert not found: %d", id))
	}
	report, _ := s.data.Report(id)
	return &api.AlertDetail{
		Alert:        toAlert(a, report),
		TriggerRules: toTriggerRules(a.Detail),
	}, nil
}
