package mail

import (
	"context"
	"net/mail"
	"sync"

	"go.uber.org/zap"
)

// ConsoleMailer writes messages to the log instead of delivering them. It keeps a copy of
// every message it has seen.
type ConsoleMailer struct {
	from       mail.Address
	subjPrefix string
	logger     *zap.Logger

	mu   sync.Mutex
	sent []Message
}

// NewConsoleMailer builds a log-only mailer.
func NewConsoleMailer(from mail.Address, subjPrefix string, logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{from: from, subjPrefix: subjPrefix, logger: logger}
}

// Send implements Mailer.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	m.logger.Info("email",
		zap.String("from", m.from.String()),
		zap.String("to", joinAddresses(msg.To)),
		zap.String("subject", m.subjPrefix+msg.Subject),
		zap.String("body", msg.Text),
	)
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

// Sent returns a copy of the messages handled so far.
func (m *ConsoleMailer) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.sent))
	copy(out, m.sent)
	return out
}
