// Package pubsub publishes subscription domain events to a message broker.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/harvestbox/subscriptions/internal/domain/subscription"
	"github.com/harvestbox/subscriptions/internal/shared/logger"
)

// DefaultExchange is the topic exchange subscription events are routed through.
const DefaultExchange = "harvestbox.subscription.events"

// EventEnvelope is the JSON body of every published message. The routing
// key equals EventType, e.g. "reminder.issued".
type EventEnvelope struct {
	EventType   string          `json:"event_type"`
	AggregateID uint            `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// NewEventEnvelope wraps a domain event for the wire.
func NewEventEnvelope(event subscription.Event) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event %s: %w", event.GetEventType(), err)
	}
	return &EventEnvelope{
		EventType:   event.GetEventType(),
		AggregateID: event.GetAggregateID(),
		OccurredAt:  event.GetTimestamp().UTC(),
		Payload:     payload,
	}, nil
}

// amqpChannel is the subset of *amqp.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQEventPublisher publishes domain events to a durable topic exchange.
type RabbitMQEventPublisher struct {
	conn     *amqp.Connection
	channel  amqpChannel
	exchange string
	logger   logger.Interface
	mu       sync.Mutex
}

// NewRabbitMQEventPublisher dials the broker and declares the exchange.
func NewRabbitMQEventPublisher(url, exchange string, log logger.Interface) (*RabbitMQEventPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Infow("RabbitMQ event publisher connected", "exchange", exchange)

	return &RabbitMQEventPublisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   log,
	}, nil
}

// Publish sends one event as a persistent JSON message.
func (p *RabbitMQEventPublisher) Publish(ctx context.Context, event subscription.Event) error {
	envelope, err := NewEventEnvelope(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		envelope.EventType,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    envelope.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Errorw("failed to publish event",
			"event_type", envelope.EventType,
			"aggregate_id", envelope.AggregateID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debugw("event published",
		"event_type", envelope.EventType,
		"aggregate_id", envelope.AggregateID,
	)
	return nil
}

// Close closes the channel and the connection.
func (p *RabbitMQEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warnw("error closing channel", "error", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return err
		}
	}

	p.logger.Infow("RabbitMQ event publisher closed")
	return nil
}

// NoopEventPublisher only logs. It is used when no broker is configured.
type NoopEventPublisher struct {
	logger logger.Interface
}

func NewNoopEventPublisher(log logger.Interface) *NoopEventPublisher {
	return &NoopEventPublisher{logger: log}
}

func (p *NoopEventPublisher) Publish(ctx context.Context, event subscription.Event) error {
	p.logger.Debugw("noop publish",
		"event_type", event.GetEventType(),
		"aggregate_id", event.GetAggregateID(),
	)
	return nil
}

func (p *NoopEventPublisher) Close() error {
	return nil
}
