// Package mq publishes risk alerts to Kafka.
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"oilrisk/pkg/contracts/domain"
	"oilrisk/pkg/contracts/events"
)

// MessageWriter is the subset of *kafka.Writer used by the publisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter creates a synchronous writer for topic
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 250 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
}

// NewMessage encodes payload as a JSON message
func NewMessage(key string, payload any, at time.Time) (kafka.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{
		Key:   []byte(key),
		Value: body,
		Time:  at.UTC(),
	}, nil
}

// ParseMessageJSON decodes a message body
func ParseMessageJSON[T any](msg kafka.Message) (T, error) {
	var payload T
	err := json.Unmarshal(msg.Value, &payload)
	return payload, err
}

// AlertPublisher publishes one event per alert followed by a dataset summary.
// It implements exporter.Sink.
type AlertPublisher struct {
	writer MessageWriter
	logger *slog.Logger
	now    func() time.Time
}

// NewAlertPublisher creates a publisher over writer
func NewAlertPublisher(writer MessageWriter, logger *slog.Logger) *AlertPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlertPublisher{
		writer: writer,
		logger: logger.With("component", "alert_publisher"),
		now:    time.Now,
	}
}

// Name implements exporter.Sink
func (p *AlertPublisher) Name() string { return "kafka" }

// Write implements exporter.Sink. Alerts are keyed by date so a replay lands on
// the same partition.
func (p *AlertPublisher) Write(ctx context.Context, dataset *domain.RiskDataset) error {
	at := p.now()
	msgs := make([]kafka.Message, 0, len(dataset.Alerts)+1)
	for _, a := range dataset.Alerts {
		env := events.NewEnvelope(events.EventTypeAlertRaised, dataset.RunID, at, events.NewAlertRaised(a))
		msg, err := NewMessage(a.Date.Format(domain.DateLayout), env, at)
		if err != nil {
			return fmt.Errorf("failed to encode alert %d: %w", a.ID, err)
		}
		msgs = append(msgs, msg)
	}

	summary := events.NewEnvelope(events.EventTypeDatasetPublished, dataset.RunID, at, events.NewDatasetPublished(dataset))
	msg, err := NewMessage(dataset.RunID, summary, at)
	if err != nil {
		return fmt.Errorf("failed to encode dataset summary: %w", err)
	}
	msgs = append(msgs, msg)

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to publish alerts: %w", err)
	}
	p.logger.InfoContext(ctx, "alerts published", "run_id", dataset.RunID, "messages", len(msgs))
	return nil
}

// Close closes the underlying writer
func (p *AlertPublisher) Close() error {
	return p.writer.Close()
}
