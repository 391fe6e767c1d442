package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SentMail is one email captured by the mock provider.
type SentMail struct {
	To      string
	Subject string
	Body    string
}

// MockProvider logs mail instead of sending it. Used when SMTP is not
// configured and in tests.
type MockProvider struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []SentMail
	fail error
}

func NewMockProvider(logger *zap.Logger) *MockProvider {
	return &MockProvider{logger: logger}
}

func (m *MockProvider) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, SentMail{To: to, Subject: subject, Body: body})
	m.logger.Info("mock email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_length", len(body)))
	return nil
}

// Sent returns a copy of everything sent so far.
func (m *MockProvider) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}

// FailWith makes every subsequent Send return err.
func (m *MockProvider) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}
