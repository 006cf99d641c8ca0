// Package events contains the message contracts published by the risk pipeline
// and streamed by the report endpoints.
package events

import (
	"time"

	"oilrisk/pkg/contracts/domain"
)

// SchemaVersion is the version of every envelope published by this module
const SchemaVersion = "1.0"

// Source identifies this module as the event producer
const Source = "oilrisk"

// EventType names a published event
type EventType string

const (
	EventTypeAlertRaised      EventType = "risk.alert.raised"
	EventTypeDatasetPublished EventType = "risk.dataset.published"
)

// Envelope wraps every published event
type Envelope[T any] struct {
	EventType     EventType `json:"event_type"`
	Source        string    `json:"source"`
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	RunID         string    `json:"run_id,omitempty"`
	Data          T         `json:"data"`
}

// NewEnvelope stamps data with the module source and schema version
func NewEnvelope[T any](eventType EventType, runID string, at time.Time, data T) Envelope[T] {
	return Envelope[T]{
		EventType:     eventType,
		Source:        Source,
		SchemaVersion: SchemaVersion,
		Timestamp:     at.UTC(),
		RunID:         runID,
		Data:          data,
	}
}

// AlertRaised is the payload of one synthesized alert
type AlertRaised struct {
	AlertID         int64                `json:"alert_id"`
	Date            string               `json:"date"`
	Level           domain.RiskLevel     `json:"level"`
	RiskIndex       float64              `json:"risk_index"`
	TriggerType     domain.TriggerType   `json:"trigger_type"`
	TriggerFactor   string               `json:"trigger_factor"`
	TriggerFactorZh string               `json:"trigger_factor_zh"`
	Summary         string               `json:"summary"`
	SummaryEn       string               `json:"summary_en"`
	Rules           []domain.TriggerRule `json:"rules"`
}

// NewAlertRaised converts an alert row into its event payload
func NewAlertRaised(a domain.AlertRow) AlertRaised {
	return AlertRaised{
		AlertID:         a.ID,
		Date:            a.Date.Format(domain.DateLayout),
		Level:           a.Level,
		RiskIndex:       a.RiskIndex,
		TriggerType:     a.TriggerType,
		TriggerFactor:   a.TriggerFactor,
		TriggerFactorZh: a.TriggerFactorZh,
		Summary:         a.Summary,
		SummaryEn:       a.SummaryEn,
		Rules:           a.Detail,
	}
}

// DatasetPublished summarizes a completed run
type DatasetPublished struct {
	Months      int            `json:"months"`
	FirstMonth  string         `json:"first_month,omitempty"`
	LastMonth   string         `json:"last_month,omitempty"`
	Alerts      int            `json:"alerts"`
	AlertLevels map[string]int `json:"alert_levels"`
}

// NewDatasetPublished summarizes a dataset
func NewDatasetPublished(d *domain.RiskDataset) DatasetPublished {
	out := DatasetPublished{
		Months:      len(d.RiskIndex),
		Alerts:      len(d.Alerts),
		AlertLevels: make(map[string]int, 3),
	}
	if n := len(d.RiskIndex); n > 0 {
		out.FirstMonth = d.RiskIndex[0].Date.Format(domain.DateLayout)
		out.LastMonth = d.RiskIndex[n-1].Date.Format(domain.DateLayout)
	}
	for _, a := range d.Alerts {
		out.AlertLevels[string(a.Level)]++
	}
	return out
}
