// Package email delivers sign-in links.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"swimteam/swimlog/internal/config"
	"swimteam/swimlog/internal/logger"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Overrides the configured sender when set
	Subject string
	HTML    string
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// NewSender picks the provider named in cfg.
func NewSender(cfg config.EmailConfig, log logger.Logger) (Sender, error) {
	switch cfg.Provider {
	case config.EmailResend:
		return NewResendSender(cfg.APIKey, cfg.From, log), nil
	case config.EmailNoop, "":
		return NewNoopSender(log), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

var magicLinkTmpl = template.Must(template.New("magic-link").Parse(`<p>Hallo {{.Username}},</p>
<p>Klik op de link hieronder om in te loggen bij het zwemlogboek.</p>
<p><a href="{{.URL}}">Inloggen</a></p>
<p>De link is {{.Minutes}} minuten geldig en werkt maar één keer.</p>`))

// MagicLinkMessage builds the sign-in email.
func MagicLinkMessage(to, username, link string, ttl time.Duration) (SendRequest, error) {
	var buf bytes.Buffer
	err := magicLinkTmpl.Execute(&buf, struct {
		Username string
		URL      string
		Minutes  int
	}{username, link, int(ttl.Minutes())})
	if err != nil {
		return SendRequest{}, fmt.Errorf("render magic link email: %w", err)
	}
	return SendRequest{
		To:      []string{to},
		Subject: "Je inloglink voor het zwemlogboek",
		HTML:    buf.String(),
	}, nil
}
