// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/city-weather/internal/queue"
)

// Publisher delivers activity events.
type Publisher interface {
	Publish(ctx context.Context, ev q.ActivityEvent) error
}

// NopPublisher drops every event; used when RABBITMQ_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, q.ActivityEvent) error { return nil }

// AMQPPublisher publishes to the weather.activity queue, dialing per event.
type AMQPPublisher struct {
	url    string
	logger *slog.Logger
}

func NewAMQPPublisher(url string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{url: url, logger: logger}
}

// NewPublisher returns an AMQPPublisher, or a NopPublisher when url is empty.
func NewPublisher(url string, logger *slog.Logger) Publisher {
	if url == "" {
		return NopPublisher{}
	}
	return NewAMQPPublisher(url, logger)
}

// Publish sends ev as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev q.ActivityEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(2 * time.Second)})
	if err != nil {
		p.logger.WarnContext(ctx, "rabbitmq: dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WarnContext(ctx, "rabbitmq: channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.ActivityQueueName, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	); err != nil {
		p.logger.WarnContext(ctx, "rabbitmq: queue declare failed", "error", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.ActivityQueueName, false, false, pub); err != nil {
		p.logger.WarnContext(ctx, "rabbitmq: publish failed", "error", err)
		return err
	}
	return nil
}
