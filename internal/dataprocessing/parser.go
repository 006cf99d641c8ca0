package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"oilrisk/internal/risk"
	"oilrisk/pkg/contracts/domain"
)

// DateHeader is the header name of the observation date column
const DateHeader = "date"

// ColumnLayout maps each source field to its 0-based column
type ColumnLayout struct {
	Date   int
	Fields map[risk.Field]int
	ByName bool
}

// PositionalLayout is the column layout of the cleaned dataset export
var PositionalLayout = ColumnLayout{
	Date: 0,
	Fields: map[risk.Field]int{
		risk.FieldCPI:           1,
		risk.FieldOilPrice:      3,
		risk.FieldBrentChg:      7,
		risk.FieldInventory:     8,
		risk.FieldOPECOutput:    11,
		risk.FieldVIX:           35,
		risk.FieldGeoTotal:      88,
		risk.FieldRussiaUkraine: 89,
		risk.FieldMiddleEast:    90,
		risk.FieldGPR:           119,
		risk.FieldSentiment:     123,
		risk.FieldUSDIndex:      137,
	},
}

// ResolveLayout maps the header row to columns. Headers are matched by name,
// case-insensitively; if any field is missing the positional layout applies.
func ResolveLayout(header []string) ColumnLayout {
	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, bom)))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	dateCol, ok := index[DateHeader]
	if !ok {
		return PositionalLayout
	}
	layout := ColumnLayout{Date: dateCol, Fields: make(map[risk.Field]int, len(risk.SourceFields)), ByName: true}
	for _, f := range risk.SourceFields {
		col, ok := index[string(f)]
		if !ok {
			return PositionalLayout
		}
		layout.Fields[f] = col
	}
	return layout
}

// ParseCell parses a numeric cell; the second result is false when the cell is absent
func ParseCell(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseDate parses the leading YYYY-MM-DD of a date cell
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(domain.DateLayout) {
		s = s[:len(domain.DateLayout)]
	}
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseRow converts one data row. Short rows leave the missing fields absent.
func (l ColumnLayout) parseRow(row []string) (risk.Observation, bool) {
	if l.Date >= len(row) {
		return risk.Observation{}, false
	}
	date, ok := ParseDate(row[l.Date])
	if !ok {
		return risk.Observation{}, false
	}

	values := make(map[risk.Field]float64, len(l.Fields))
	for f, col := range l.Fields {
		if col >= len(row) {
			continue
		}
		if v, ok := ParseCell(row[col]); ok {
			values[f] = v
		}
	}
	return risk.Observation{Date: date, Values: values}, true
}
