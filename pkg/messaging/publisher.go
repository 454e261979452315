package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/premierlux/premierlux-backend/pkg/logger"
)

// Publisher publishes events to RabbitMQ
type Publisher struct {
	rabbitmq *RabbitMQ
	logger   *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(rabbitmq *RabbitMQ, log *logger.Logger) *Publisher {
	return &Publisher{
		rabbitmq: rabbitmq,
		logger:   log.WithComponent("publisher"),
	}
}

// Publish publishes an event to the given exchange with the event type as
// the routing key.
func (p *Publisher) Publish(ctx context.Context, exchange string, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp.Persistent,
		Timestamp:     time.Now().UTC(),
		MessageId:     event.ID,
		Type:          event.Type,
		CorrelationId: event.CorrelationID,
		Body:          body,
	}

	if err := p.rabbitmq.Channel().PublishWithContext(
		ctx,
		exchange,
		event.Type, // routing key
		false,      // mandatory
		false,      // immediate
		publishing,
	); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.Type, err)
	}

	p.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("exchange", exchange).
		Msg("event published")

	return nil
}

// PublishEvent builds an event from the given type and payload and publishes it.
// The correlation ID is taken from the context when present.
func (p *Publisher) PublishEvent(ctx context.Context, exchange, eventType, source string, data interface{}) error {
	event, err := NewEvent(eventType, source, data)
	if err != nil {
		return err
	}

	event.CorrelationID = getCorrelationID(ctx)

	return p.Publish(ctx, exchange, event)
}

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// WithCorrelationID returns a context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey, correlationID)
}

func getCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}
