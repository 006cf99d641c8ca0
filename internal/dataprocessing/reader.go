package dataprocessing

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"oilrisk/internal/risk"
)

const bom = "\ufeff"

// ErrNoHeader is returned when a source has no header row
var ErrNoHeader = errors.New("source has no header row")

// ReadStats summarizes one read
type ReadStats struct {
	Rows         int  `json:"rows"`
	Observations int  `json:"observations"`
	SkippedDates int  `json:"skipped_dates"`
	ByName       bool `json:"by_name"`
}

// Reader loads observations from CSV or XLSX sources
type Reader struct {
	logger *slog.Logger
	sheet  string
}

// NewReader creates a reader
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger.With("component", "source_reader")}
}

// WithSheet selects the workbook sheet for XLSX sources
func (r *Reader) WithSheet(sheet string) *Reader {
	next := *r
	next.sheet = sheet
	return &next
}

// ReadFile dispatches on the file extension
func (r *Reader) ReadFile(ctx context.Context, path string) ([]risk.Observation, ReadStats, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return r.ReadXLSX(ctx, path)
	case ".csv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, ReadStats{}, fmt.Errorf("failed to open source: %w", err)
		}
		defer f.Close()
		return r.ReadCSV(ctx, f)
	default:
		return nil, ReadStats{}, fmt.Errorf("unsupported source format %q", filepath.Ext(path))
	}
}

// ReadCSV reads a CSV stream. A leading byte order mark is ignored.
func (r *Reader) ReadCSV(ctx context.Context, src io.Reader) ([]risk.Observation, ReadStats, error) {
	br := bufio.NewReader(src)
	if lead, err := br.Peek(len(bom)); err == nil && string(lead) == bom {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	next := func() ([]string, error) {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		return row, nil
	}
	return r.collect(ctx, "csv", next)
}

// ReadXLSX reads the configured sheet of a workbook, defaulting to the first one
func (r *Reader) ReadXLSX(ctx context.Context, path string) ([]risk.Observation, ReadStats, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, ReadStats{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	next := func() ([]string, error) {
		if !rows.Next() {
			if err := rows.Error(); err != nil {
				return nil, fmt.Errorf("failed to iterate sheet %q: %w", sheet, err)
			}
			return nil, io.EOF
		}
		cols, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet row: %w", err)
		}
		return cols, nil
	}
	return r.collect(ctx, "xlsx", next)
}

// collect resolves the layout from the first row and parses the rest
func (r *Reader) collect(ctx context.Context, format string, next func() ([]string, error)) ([]risk.Observation, ReadStats, error) {
	header, err := next()
	if errors.Is(err, io.EOF) {
		return nil, ReadStats{}, ErrNoHeader
	}
	if err != nil {
		return nil, ReadStats{}, err
	}
	layout := ResolveLayout(header)

	stats := ReadStats{ByName: layout.ByName}
	var out []risk.Observation
	for {
		if stats.Rows%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		row, err := next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
		stats.Rows++

		o, ok := layout.parseRow(row)
		if !ok {
			stats.SkippedDates++
			continue
		}
		out = append(out, o)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	stats.Observations = len(out)

	r.logger.InfoContext(ctx, "source read",
		"format", format,
		"rows", stats.Rows,
		"observations", stats.Observations,
		"skipped_dates", stats.SkippedDates,
		"columns_by_name", stats.ByName,
	)
	return out, stats, nil
}
