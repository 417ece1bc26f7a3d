package mailer

import (
	"context"
	"sync"
)

// MemorySender stores messages in memory for inspection/testing.
// Set Err to make every Send fail.
type MemorySender struct {
	mu       sync.Mutex
	messages []Message
	Err      error
	// FailFor makes Send fail only for the listed recipients.
	FailFor map[string]error
}

// NewMemorySender constructs an empty memory sender.
func NewMemorySender() *MemorySender {
	return &MemorySender{}
}

// Send records the message.
func (m *MemorySender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if err, ok := m.FailFor[msg.To]; ok {
		return err
	}
	m.messages = append(m.messages, msg)
	return nil
}

// Messages returns a copy of messages seen so far.
func (m *MemorySender) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Message, len(m.messages))
	copy(out, m.messages)
	return out
}
