package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/brixxspace/brixxspace-api/internal/logging"
	"github.com/brixxspace/brixxspace-api/internal/mailer"
)

// WelcomeConsumer listens on the user.registered queue, sends the welcome
// email and appends an audit line to <LogDir>/registrations.log.
type WelcomeConsumer struct {
	URL    string
	Mailer mailer.Mailer
	Log    logging.Logger
	LogDir string
}

// Run connects to RabbitMQ and consumes until ctx is cancelled, reconnecting
// with exponential backoff (1s doubling up to 30s).  A message that cannot
// be processed is rejected without requeue so the loop keeps moving.
func (w *WelcomeConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(w.URL)
		if err != nil {
			w.Log.Warn(ctx, "welcome-consumer: dial failed", "err", err, "retry_in", backoff.String())
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = w.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		w.Log.Warn(ctx, "welcome-consumer: consume loop ended; reconnecting", "err", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (w *WelcomeConsumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(20, 0, false); err != nil {
		w.Log.Warn(ctx, "welcome-consumer: set QoS failed", "err", err)
	}
	if _, err := ch.QueueDeclare(UserRegisteredQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(UserRegisteredQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := w.Handle(ctx, d.Body); err != nil {
				w.Log.Error(ctx, "welcome-consumer: handle message failed", "err", err)
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle processes one message body.
func (w *WelcomeConsumer) Handle(ctx context.Context, body []byte) error {
	var ev UserRegisteredEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Email == "" {
		return errors.New("event without email")
	}
	if err := w.Mailer.Send(ctx, mailer.WelcomeMessage(ev.Email, ev.FullName)); err != nil {
		return fmt.Errorf("welcome mail: %w", err)
	}
	return w.appendAudit(ev)
}

func (w *WelcomeConsumer) appendAudit(ev UserRegisteredEvent) error {
	dir := w.LogDir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "registrations.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("[%s] User registered | user_id=%d | email=%s | name=%q | role=%s\n",
		ev.RegisteredAt, ev.UserID, ev.Email, ev.FullName, ev.Role)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
