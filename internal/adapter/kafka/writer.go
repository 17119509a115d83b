// Package kafka mirrors analytics events to a Kafka topic for downstream
// consumers. The mirror is best-effort: publish failures are logged by
// the caller and never surfaced to API clients.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/cropwise-guidance-service/internal/store"
)

// Writer produces analytics event messages to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the analytics topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireOne,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishEvent serializes and publishes one recorded analytics event.
func (w *Writer) PublishEvent(ctx context.Context, event store.AnalyticsEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// eventPayload is the wire form of a mirrored event.
type eventPayload struct {
	ID        uint      `json:"id"`
	UserID    *uint     `json:"user_id,omitempty"`
	EventName string    `json:"event_name"`
	Meta      string    `json:"meta,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// serializeToMessage marshals an analytics event into a Kafka message
// keyed by event name so consumers can partition by event type.
func serializeToMessage(event store.AnalyticsEvent) (kafkago.Message, error) {
	data, err := json.Marshal(eventPayload{
		ID:        event.ID,
		UserID:    event.UserID,
		EventName: event.EventName,
		Meta:      event.MetaJSON,
		CreatedAt: event.CreatedAt,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize analytics event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.EventName),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "recorded_at", Value: []byte(event.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}
