package email

import (
	"context"
	"fmt"
	"time"

	"github.com/resend/resend-go/v2"

	"swimteam/swimlog/internal/logger"
)

// ResendSender sends emails via the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
	log    logger.Logger
}

var _ Sender = (*ResendSender)(nil)

func NewResendSender(apiKey, from string, log logger.Logger) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

// Send sends a single email via Resend.
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	from := req.From
	if from == "" {
		from = s.from
	}

	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
	})
	if err != nil {
		s.log.Errorf("resend send to %v failed: %v", req.To, err)
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	s.log.Infof("resend sent %s to %v", sent.Id, req.To)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}
