package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"swimteam/swimlog/internal/logger"
)

// NoopSender logs sends but does not deliver them. The last message is kept
// so local runs and tests can pick up the sign-in link.
type NoopSender struct {
	log logger.Logger

	mu   sync.Mutex
	last *SendRequest
}

var _ Sender = (*NoopSender)(nil)

func NewNoopSender(log logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	s.log.Infof("noop email to %v: %s", req.To, req.Subject)
	s.mu.Lock()
	s.last = &req
	s.mu.Unlock()
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", time.Now().UnixNano()),
		SentAt:    time.Now(),
	}, nil
}

// Last returns the most recent message, if any.
func (s *NoopSender) Last() (SendRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return SendRequest{}, false
	}
	return *s.last, true
}
