package events

import (
	"context"
	"time"

	"wingman/internal/domain/models"
	"wingman/pkg/kafka"
)

// ProcessedAlert is the event emitted after each webhook alert clears the
// pipeline. Consumers key on the symbol.
type ProcessedAlert struct {
	Symbol       string    `json:"symbol"`
	Timeframe    string    `json:"timeframe"`
	Price        *float64  `json:"price,omitempty"`
	VolumeSource string    `json:"volume_source"`
	Delivered    bool      `json:"delivered"`
	ReceivedAt   time.Time `json:"received_at"`
}

// KafkaPublisher emits processed-alert events to a topic.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *kafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishProcessed(ctx context.Context, payload *models.AlertPayload, result models.ProcessResult) error {
	event := ProcessedAlert{
		Symbol:       payload.Symbol,
		Timeframe:    payload.Timeframe,
		Price:        payload.Price,
		VolumeSource: result.VolumeSource,
		Delivered:    result.Delivered,
		ReceivedAt:   payload.ReceivedAt,
	}
	return p.producer.Publish(ctx, p.topic, []byte(payload.Symbol), event)
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
