package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"travel-time-service/internal/domain"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventBatchCompleted is the type of the event emitted after every batch.
const EventBatchCompleted = "route.batch.completed"

// BatchCompletedEvent is the JSON payload published for a finished batch.
type BatchCompletedEvent struct {
	Type          string              `json:"type"`
	BatchID       string              `json:"batch_id"`
	Mode          string              `json:"mode"`
	TrafficModel  string              `json:"traffic_model,omitempty"`
	DepartureTime *int64              `json:"departure_time,omitempty"`
	Summary       domain.BatchSummary `json:"summary"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
}

func NewBatchCompletedEvent(b *domain.Batch) BatchCompletedEvent {
	return BatchCompletedEvent{
		Type:          EventBatchCompleted,
		BatchID:       b.ID.String(),
		Mode:          string(b.Mode),
		TrafficModel:  string(b.TrafficModel),
		DepartureTime: b.DepartureTime,
		Summary:       b.Summary,
		StartedAt:     b.StartedAt.UTC(),
		FinishedAt:    b.FinishedAt.UTC(),
	}
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher implements BatchPublisher on a kafka-go writer.
type KafkaPublisher struct {
	writer messageWriter
	logger *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

// PublishBatchCompleted writes one event keyed by batch ID.
func (p *KafkaPublisher) PublishBatchCompleted(ctx context.Context, b *domain.Batch) error {
	payload, err := json.Marshal(NewBatchCompletedEvent(b))
	if err != nil {
		return fmt.Errorf("publish batch %s: marshal: %w", b.ID, err)
	}

	msg := kafkago.Message{
		Key:   []byte(b.ID.String()),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "type", Value: []byte(EventBatchCompleted)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish batch %s: %w", b.ID, err)
	}

	p.logger.Debug("batch event published", zap.String("batch_id", b.ID.String()))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
