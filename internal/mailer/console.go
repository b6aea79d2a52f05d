package mailer

import (
	"context"

	"github.com/brixxspace/brixxspace-api/internal/logging"
)

// ConsoleMailer logs messages instead of sending them.
type ConsoleMailer struct {
	log logging.Logger
}

func NewConsoleMailer(log logging.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info(ctx, "mock email", "to", msg.Email, "subject", msg.Subject, "body", msg.Body)
	return nil
}
