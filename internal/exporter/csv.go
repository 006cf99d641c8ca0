package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"

	"oilrisk/pkg/contracts/domain"
)

// Output file names
const (
	RiskIndexFile  = "risk_index.csv"
	RiskFactorFile = "risk_factor.csv"
	AlertFile      = "alert.csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Column headers shared by the CSV and XLSX sinks
var (
	riskIndexHeaders  = []string{"date", "risk_index", "risk_level", "oil_price"}
	riskFactorHeaders = []string{"date", "factor_name", "factor_name_zh", "category", "value", "shap_value"}
	alertHeaders      = []string{"id", "date", "level", "risk_index", "trigger_type", "trigger_factor", "trigger_factor_zh", "summary", "summary_en", "detail"}
)

// CSVWriter writes the three tables as CSV files into a directory
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSV writer for dir
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// Name implements Sink
func (w *CSVWriter) Name() string { return "csv" }

// Write implements Sink
func (w *CSVWriter) Write(ctx context.Context, dataset *domain.RiskDataset) error {
	tables := []struct {
		file    string
		headers []string
		rows    [][]string
	}{
		{RiskIndexFile, riskIndexHeaders, riskIndexRecords(dataset.RiskIndex)},
		{RiskFactorFile, riskFactorHeaders, riskFactorRecords(dataset.RiskFactors)},
	}
	alerts, err := alertRecords(dataset.Alerts)
	if err != nil {
		return err
	}
	tables = append(tables, struct {
		file    string
		headers []string
		rows    [][]string
	}{AlertFile, alertHeaders, alerts})

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.dir, t.file)
		if err := writeAtomic(path, func(out io.Writer) error {
			return WriteCSV(out, t.headers, t.rows)
		}); err != nil {
			return fmt.Errorf("failed to write %s: %w", t.file, err)
		}
	}
	return nil
}

// WriteCSV writes a BOM-prefixed CSV table
func WriteCSV(out io.Writer, headers []string, records [][]string) error {
	if _, err := out.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	writer := csv.NewWriter(out)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func riskIndexRecords(rows []domain.RiskIndexRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			formatDate(r.Date),
			formatFixed(r.RiskIndex, indexScale),
			string(r.RiskLevel),
			formatFixed(r.OilPrice, indexScale),
		}
	}
	return out
}

func riskFactorRecords(rows []domain.RiskFactorRow) [][]string {
	out := make([][]string, len(rows))
	for i, f := range rows {
		out[i] = []string{
			formatDate(f.Date),
			f.FactorName,
			f.FactorNameZh,
			string(f.Category),
			formatFixed(f.Value, factorValueScale),
			formatFixed(f.Attribution, attributionScale),
		}
	}
	return out
}

func alertRecords(rows []domain.AlertRow) ([][]string, error) {
	out := make([][]string, len(rows))
	for i, a := range rows {
		detail, err := DetailJSON(a.Detail)
		if err != nil {
			return nil, fmt.Errorf("failed to encode detail of alert %d: %w", a.ID, err)
		}
		out[i] = []string{
			formatInt(a.ID),
			formatDate(a.Date),
			string(a.Level),
			formatFixed(a.RiskIndex, indexScale),
			string(a.TriggerType),
			a.TriggerFactor,
			a.TriggerFactorZh,
			a.Summary,
			a.SummaryEn,
			detail,
		}
	}
	return out, nil
}
