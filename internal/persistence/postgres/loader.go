package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"oilrisk/internal/exporter"
	"oilrisk/pkg/contracts/domain"
)

const (
	insertRiskIndex  = `INSERT INTO risk_index (date, risk_index, risk_level, oil_price) VALUES `
	insertRiskFactor = `INSERT INTO risk_factor (date, factor_name, factor_name_zh, category, "value", shap_value) VALUES `
	insertAlert      = `INSERT INTO alert (id, date, level, risk_index, trigger_type, trigger_factor, trigger_factor_zh, summary, summary_en, detail) VALUES `
)

// Loader replaces the stored dataset. It implements exporter.Sink.
type Loader struct {
	manager *Manager
	logger  *slog.Logger
}

// NewLoader creates a loader on an enabled manager
func NewLoader(manager *Manager, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{manager: manager, logger: logger.With("component", "postgres_loader")}
}

// Name implements exporter.Sink
func (l *Loader) Name() string { return "postgres" }

// Write implements exporter.Sink
func (l *Loader) Write(ctx context.Context, dataset *domain.RiskDataset) error {
	if !l.manager.IsEnabled() {
		return fmt.Errorf("postgres persistence is disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, l.manager.timeout())
	defer cancel()

	tx, err := l.manager.DB().BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, truncateStatement); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	batch := l.manager.batchSize()
	if err := insertRows(ctx, tx, insertRiskIndex, batch, riskIndexArgs(dataset.RiskIndex)); err != nil {
		return fmt.Errorf("failed to insert risk_index: %w", err)
	}
	if err := insertRows(ctx, tx, insertRiskFactor, batch, riskFactorArgs(dataset.RiskFactors)); err != nil {
		return fmt.Errorf("failed to insert risk_factor: %w", err)
	}
	alerts, err := alertArgs(dataset.Alerts)
	if err != nil {
		return err
	}
	if err := insertRows(ctx, tx, insertAlert, batch, alerts); err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	l.logger.InfoContext(ctx, "dataset loaded",
		"run_id", dataset.RunID,
		"risk_index_rows", len(dataset.RiskIndex),
		"risk_factor_rows", len(dataset.RiskFactors),
		"alert_rows", len(dataset.Alerts),
	)
	return nil
}

// insertRows issues one multi-row INSERT per batch of rows
func insertRows(ctx context.Context, tx *sqlx.Tx, prefix string, batch int, rows [][]any) error {
	for start := 0; start < len(rows); start += batch {
		chunk := rows[start:min(start+batch, len(rows))]

		var b strings.Builder
		b.WriteString(prefix)
		args := make([]any, 0, len(chunk)*len(chunk[0]))
		for i, row := range chunk {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('(')
			for j := range row {
				if j > 0 {
					b.WriteString(", ")
				}
				b.WriteByte('$')
				b.WriteString(strconv.Itoa(len(args) + j + 1))
			}
			b.WriteByte(')')
			args = append(args, row...)
		}

		if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

func fixed(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func riskIndexArgs(rows []domain.RiskIndexRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{r.Date, fixed(r.RiskIndex, 2), string(r.RiskLevel), fixed(r.OilPrice, 2)}
	}
	return out
}

func riskFactorArgs(rows []domain.RiskFactorRow) [][]any {
	out := make([][]any, len(rows))
	for i, f := range rows {
		out[i] = []any{f.Date, f.FactorName, f.FactorNameZh, string(f.Category), fixed(f.Value, 4), fixed(f.Attribution, 6)}
	}
	return out
}

func alertArgs(rows []domain.AlertRow) ([][]any, error) {
	out := make([][]any, len(rows))
	for i, a := range rows {
		detail, err := exporter.DetailJSON(a.Detail)
		if err != nil {
			return nil, fmt.Errorf("failed to encode detail of alert %d: %w", a.ID, err)
		}
		out[i] = []any{
			a.ID, a.Date, string(a.Level), fixed(a.RiskIndex, 2), string(a.TriggerType),
			a.TriggerFactor, a.TriggerFactorZh, a.Summary, a.SummaryEn, detail,
		}
	}
	return out, nil
}

// record types scanned by LoadDataset
type riskIndexRecord struct {
	Date      sqlDate `db:"date"`
	RiskIndex float64 `db:"risk_index"`
	RiskLevel string  `db:"risk_level"`
	OilPrice  float64 `db:"oil_price"`
}

type riskFactorRecord struct {
	Date         sqlDate `db:"date"`
	FactorName   string  `db:"factor_name"`
	FactorNameZh string  `db:"factor_name_zh"`
	Category     string  `db:"category"`
	Value        float64 `db:"value"`
	Attribution  float64 `db:"shap_value"`
}

type alertRecord struct {
	ID              int64   `db:"id"`
	Date            sqlDate `db:"date"`
	Level           string  `db:"level"`
	RiskIndex       float64 `db:"risk_index"`
	TriggerType     string  `db:"trigger_type"`
	TriggerFactor   string  `db:"trigger_factor"`
	TriggerFactorZh string  `db:"trigger_factor_zh"`
	Summary         string  `db:"summary"`
	SummaryEn       string  `db:"summary_en"`
	Detail          []byte  `db:"detail"`
}

// LoadDataset reads the stored tables back into a dataset
func LoadDataset(ctx context.Context, manager *Manager) (*domain.RiskDataset, error) {
	if !manager.IsEnabled() {
		return nil, fmt.Errorf("postgres persistence is disabled")
	}
	ctx, cancel := context.WithTimeout(ctx, manager.timeout())
	defer cancel()
	db := manager.DB()

	var index []riskIndexRecord
	if err := db.SelectContext(ctx, &index,
		`SELECT date, risk_index, risk_level, oil_price FROM risk_index ORDER BY date`); err != nil {
		return nil, fmt.Errorf("failed to read risk_index: %w", err)
	}
	var factors []riskFactorRecord
	if err := db.SelectContext(ctx, &factors,
		`SELECT date, factor_name, factor_name_zh, category, "value", shap_value FROM risk_factor ORDER BY date, id`); err != nil {
		return nil, fmt.Errorf("failed to read risk_factor: %w", err)
	}
	var alerts []alertRecord
	if err := db.SelectContext(ctx, &alerts,
		`SELECT id, date, level, risk_index, trigger_type, trigger_factor, trigger_factor_zh, summary, summary_en, detail FROM alert ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to read alert: %w", err)
	}

	dataset := &domain.RiskDataset{
		RiskIndex:   make([]domain.RiskIndexRow, len(index)),
		RiskFactors: make([]domain.RiskFactorRow, len(factors)),
		Alerts:      make([]domain.AlertRow, len(alerts)),
	}
	for i, r := range index {
		dataset.RiskIndex[i] = domain.RiskIndexRow{
			Date:      r.Date.Time,
			RiskIndex: r.RiskIndex,
			RiskLevel: domain.RiskLevel(r.RiskLevel),
			OilPrice:  r.OilPrice,
		}
	}
	for i, f := range factors {
		dataset.RiskFactors[i] = domain.RiskFactorRow{
			Date:         f.Date.Time,
			FactorName:   f.FactorName,
			FactorNameZh: f.FactorNameZh,
			Category:     domain.FactorCategory(f.Category),
			Value:        f.Value,
			Attribution:  f.Attribution,
		}
	}
	for i, a := range alerts {
		var detail []domain.TriggerRule
		if err := json.Unmarshal(a.Detail, &detail); err != nil {
			return nil, fmt.Errorf("failed to decode detail of alert %d: %w", a.ID, err)
		}
		dataset.Alerts[i] = domain.AlertRow{
			ID:              a.ID,
			Date:            a.Date.Time,
			Level:           domain.RiskLevel(a.Level),
			RiskIndex:       a.RiskIndex,
			TriggerType:     domain.TriggerType(a.TriggerType),
			TriggerFactor:   a.TriggerFactor,
			TriggerFactorZh: a.TriggerFactorZh,
			Summary:         a.Summary,
			SummaryEn:       a.SummaryEn,
			Detail:          detail,
		}
	}
	return dataset, nil
}
