package exporter

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"oilrisk/pkg/contracts/domain"
)

// Workbook sheet names
const (
	RiskIndexSheet  = "risk_index"
	RiskFactorSheet = "risk_factor"
	AlertSheet      = "alert"
)

// XLSXWriter writes the three tables as sheets of one workbook
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates a workbook writer for path
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Name implements Sink
func (w *XLSXWriter) Name() string { return "xlsx" }

// Write implements Sink
func (w *XLSXWriter) Write(ctx context.Context, dataset *domain.RiskDataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	alerts, err := alertRecords(dataset.Alerts)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{RiskIndexSheet, riskIndexHeaders, riskIndexRecords(dataset.RiskIndex)},
		{RiskFactorSheet, riskFactorHeaders, riskFactorRecords(dataset.RiskFactors)},
		{AlertSheet, alertHeaders, alerts},
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s.name, s.headers, s.rows); err != nil {
			return err
		}
	}

	return writeAtomic(w.path, func(out io.Writer) error {
		if _, err := f.WriteTo(out); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet %s: %w", sheet, err)
	}

	write := func(rowNum int, cells []string) error {
		values := make([]interface{}, len(cells))
		for i, c := range cells {
			values[i] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		return sw.SetRow(cell, values)
	}

	if err := write(1, headers); err != nil {
		return fmt.Errorf("failed to write %s headers: %w", sheet, err)
	}
	for i, r := range rows {
		if err := write(i+2, r); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet %s: %w", sheet, err)
	}
	return nil
}
