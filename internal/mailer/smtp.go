package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	mail "gopkg.in/mail.v2"

	"beewise-preorder-go/internal/config"
)

// SMTPMailer sends mail through a plain SMTP account
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
	domain string
}

// NewSMTPMailer creates an SMTP-backed mailer
func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	domain := cfg.Host
	if at := strings.LastIndex(cfg.From, "@"); at >= 0 {
		domain = cfg.From[at+1:]
	}

	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		domain: domain,
	}
}

// Send delivers a single HTML email via SMTP. The Message-ID is minted
// locally since SMTP gives us nothing back on success.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), m.domain)

	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetHeader("Message-ID", messageID)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return "", fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	logrus.Debugf("Sent email %s to %s via SMTP", messageID, to)
	return messageID, nil
}
