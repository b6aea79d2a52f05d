package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/brixxspace/brixxspace-api/internal/queue"
)

// EventPublisher announces domain events.  Failures are reported to the
// caller, which logs them without failing the request.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// AMQPPublisher publishes persistent JSON messages to RabbitMQ.  Each call
// dials its own connection; registrations are rare enough that pooling is
// not worth the reconnect bookkeeping.
type AMQPPublisher struct {
	URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// PublishUserRegistered sends ev to the user.registered queue, declaring the
// queue first (durable, idempotent).
func (p *AMQPPublisher) PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return p.publish(ctx, queue.UserRegisteredQueue, body)
}

func (p *AMQPPublisher) publish(ctx context.Context, queueName string, body []byte) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// default exchange; routing key = queue name
	if err := ch.PublishWithContext(ctx, "", queueName, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
