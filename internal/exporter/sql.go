package exporter

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"oilrisk/pkg/contracts/domain"
)

// SQLBatchSize is the number of rows per INSERT statement
const SQLBatchSize = 50

// SQLWriter writes a seed script that replaces the three tables
type SQLWriter struct {
	path string
}

// NewSQLWriter creates a seed script writer for path
func NewSQLWriter(path string) *SQLWriter {
	return &SQLWriter{path: path}
}

// Name implements Sink
func (w *SQLWriter) Name() string { return "sql" }

// Write implements Sink
func (w *SQLWriter) Write(ctx context.Context, dataset *domain.RiskDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(w.path, func(out io.Writer) error {
		return WriteSQL(out, dataset)
	})
}

// WriteSQL renders the seed script
func WriteSQL(out io.Writer, dataset *domain.RiskDataset) error {
	bw := bufio.NewWriter(out)
	line := func(format string, args ...any) {
		fmt.Fprintf(bw, format, args...)
		bw.WriteByte('\n')
	}

	line("-- ============================================")
	line("-- Seed data for oil risk alerts")
	line("-- Run %s generated %s", dataset.RunID, dataset.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"))
	line("-- ============================================")
	line("")
	line("-- Clear existing data")
	line("TRUNCATE TABLE alert;")
	line("TRUNCATE TABLE risk_factor;")
	line("TRUNCATE TABLE risk_index;")
	line("")

	line("-- risk_index data")
	for start := 0; start < len(dataset.RiskIndex); start += SQLBatchSize {
		batch := dataset.RiskIndex[start:min(start+SQLBatchSize, len(dataset.RiskIndex))]
		line("INSERT INTO risk_index (date, risk_index, risk_level, oil_price) VALUES")
		for i, r := range batch {
			line("('%s', %s, '%s', %s)%s",
				formatDate(r.Date),
				formatFixed(r.RiskIndex, indexScale),
				r.RiskLevel,
				formatFixed(r.OilPrice, indexScale),
				terminator(i, len(batch)))
		}
		line("")
	}

	line("-- risk_factor data")
	for start := 0; start < len(dataset.RiskFactors); start += SQLBatchSize {
		batch := dataset.RiskFactors[start:min(start+SQLBatchSize, len(dataset.RiskFactors))]
		line(`INSERT INTO risk_factor (date, factor_name, factor_name_zh, category, "value", shap_value) VALUES`)
		for i, f := range batch {
			line("('%s', '%s', '%s', '%s', %s, %s)%s",
				formatDate(f.Date),
				quote(f.FactorName),
				quote(f.FactorNameZh),
				f.Category,
				formatFixed(f.Value, factorValueScale),
				formatFixed(f.Attribution, attributionScale),
				terminator(i, len(batch)))
		}
		line("")
	}

	line("-- alert data")
	if len(dataset.Alerts) > 0 {
		line("INSERT INTO alert (date, level, risk_index, trigger_type, trigger_factor, trigger_factor_zh, summary, summary_en, detail) VALUES")
		for i, a := range dataset.Alerts {
			detail, err := DetailJSON(a.Detail)
			if err != nil {
				return fmt.Errorf("failed to encode detail of alert %d: %w", a.ID, err)
			}
			line("('%s', '%s', %s, '%s', '%s', '%s', '%s', '%s', '%s')%s",
				formatDate(a.Date),
				a.Level,
				formatFixed(a.RiskIndex, indexScale),
				a.TriggerType,
				quote(a.TriggerFactor),
				quote(a.TriggerFactorZh),
				quote(a.Summary),
				quote(a.SummaryEn),
				quote(detail),
				terminator(i, len(dataset.Alerts)))
		}
		line("")
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write sql: %w", err)
	}
	return nil
}

func terminator(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ";"
}

// quote escapes single quotes for a SQL string literal
func quote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
