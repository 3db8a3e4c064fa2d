package mailer

import (
	"context"

	"beewise-preorder-go/internal/config"
)

// Mailer sends a single HTML email and returns the transport's message ID.
// It is injected into the preorder service at construction time; no global
// transport state exists.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// New selects the mail transport from configuration: SMTP when credentials
// are present, the Gmail API account otherwise.
func New(cfg *config.Config) (Mailer, error) {
	if cfg.UseSMTP() {
		return NewSMTPMailer(&cfg.SMTP), nil
	}
	return NewGmailMailer(&cfg.Gmail)
}
