package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"beewise-preorder-go/internal/config"
)

// GmailMailer sends mail through the Gmail API using an OAuth2 refresh
// token. It is the fallback transport when no SMTP account is configured.
type GmailMailer struct {
	service   *gmail.Service
	userEmail string
}

// NewGmailMailer creates a Gmail-API-backed mailer
func NewGmailMailer(cfg *config.GmailConfig) (*GmailMailer, error) {
	ctx := context.Background()

	oauth2Config := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{gmail.GmailSendScope},
		Endpoint:     google.Endpoint,
	}

	token := &oauth2.Token{
		RefreshToken: cfg.RefreshToken,
	}

	tokenSource := oauth2Config.TokenSource(ctx, token)

	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &GmailMailer{
		service:   service,
		userEmail: cfg.UserEmail,
	}, nil
}

// Send delivers a single HTML email via the Gmail API, retrying on rate
// limits with exponential backoff.
func (m *GmailMailer) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	raw := m.buildMessage(to, subject, htmlBody)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		sent, err := m.service.Users.Messages.Send(m.userEmail, message).Context(ctx).Do()
		if err == nil {
			logrus.Debugf("Sent email %s to %s via Gmail API", sent.Id, to)
			return sent.Id, nil
		}

		lastErr = err
		logrus.Warnf("Failed to send email (attempt %d/%d): %v", attempt, 3, err)

		if strings.Contains(err.Error(), "quota") || strings.Contains(err.Error(), "rate") {
			waitTime := time.Duration(attempt*attempt) * time.Second
			logrus.Infof("Rate limited, waiting %v before retry", waitTime)
			time.Sleep(waitTime)
		} else {
			break
		}
	}

	return "", fmt.Errorf("failed to send email after 3 attempts: %w", lastErr)
}

func (m *GmailMailer) buildMessage(to, subject, htmlBody string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("From: %s\r\n", m.userEmail))
	b.WriteString(fmt.Sprintf("To: %s\r\n", to))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("Content-Transfer-Encoding: 7bit\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)

	return b.String()
}
