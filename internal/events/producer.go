package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const orderEventsTopic = "order-events"

// Producer publishes ordering events to Kafka. Publishing is part of the
// submission path: a failed publish fails the submit so the draft stays
// retryable.
type Producer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewProducer(brokers string, logger *zap.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers),
		Topic:    orderEventsTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		logger: logger,
	}
}

func (p *Producer) PublishOrderSubmitted(ctx context.Context, event OrderSubmittedEvent) error {
	return p.publish(ctx, event.OrderNumber, "order_submitted", event)
}

func (p *Producer) PublishShareSettled(ctx context.Context, event ShareSettledEvent) error {
	return p.publish(ctx, event.OrderNumber, "share_settled", event)
}

func (p *Producer) publish(ctx context.Context, key, eventType string, event any) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event",
			zap.String("event_type", eventType), zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
		},
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			zap.String("event_type", eventType),
			zap.String("key", key),
			zap.Error(err))
		return err
	}

	p.logger.Info("Event published",
		zap.String("event_type", eventType),
		zap.String("key", key))

	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
