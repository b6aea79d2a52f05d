// Package mailer delivers transactional email.  SMTPMailer talks to a real
// relay; ConsoleMailer fulfils the same contract by logging the message when
// no SMTP credentials are configured.
package mailer

import (
	"context"

	"github.com/brixxspace/brixxspace-api/internal/config"
	"github.com/brixxspace/brixxspace-api/internal/logging"
)

// Message is one outbound email.
type Message struct {
	Email   string
	Subject string
	Body    string
}

// Mailer either delivers msg or returns an error.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the SMTP mailer when credentials are present, otherwise the
// console fallback.
func New(cfg config.SMTPConfig, log logging.Logger) Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg)
	}
	log.Warn(context.Background(), "smtp credentials missing; emails will be logged instead of sent")
	return NewConsoleMailer(log)
}
