package peppol

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Mock is an in-memory access point for development and tests. It
// accepts any structurally plausible participant ID and marks messages
// delivered on the first status poll.
type Mock struct {
	mu   sync.Mutex
	seq  int
	sent map[string]time.Time
}

func NewMock() *Mock {
	return &Mock{sent: make(map[string]time.Time)}
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) SendInvoice(ctx context.Context, senderID, receiverID string, ublXML []byte) (*SendResult, error) {
	if len(ublXML) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if receiverID == "" {
		return nil, fmt.Errorf("receiver participant required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := fmt.Sprintf("mock-msg-%06d", m.seq)
	m.sent[id] = time.Now()

	return &SendResult{MessageID: id, Status: "SENT"}, nil
}

func (m *Mock) GetStatus(ctx context.Context, messageID string) (*DeliveryStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sent[messageID]; !ok {
		return nil, fmt.Errorf("unknown message %q", messageID)
	}
	return &DeliveryStatus{MessageID: messageID, Status: "DELIVERED"}, nil
}

// ValidateParticipant accepts scheme-qualified IDs like "0235:123456789012345".
func (m *Mock) ValidateParticipant(ctx context.Context, participantID string) (bool, error) {
	parts := strings.SplitN(participantID, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false, nil
	}
	return true, nil
}
