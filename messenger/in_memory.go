// Package messenger contains concrete MessengerService implementations. The
// service interface resides in the core package; select an implementation at
// wiring time.
package messenger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadmesh/leadmesh/core"
)

// Conversation is the in-memory record of one external conversation.
type Conversation struct {
	ID        string
	SessionID string
	ContactID string
	Messages  []core.Message
	Closed    bool
	CreatedAt time.Time
}

// InMemoryService is a volatile conversation service fake. Safe for
// concurrent access.
type InMemoryService struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// NewInMemoryService constructs an empty in-memory messenger.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{conversations: make(map[string]*Conversation)}
}

// CreateConversation opens a conversation for the session.
func (s *InMemoryService) CreateConversation(_ context.Context, sessionID, contactID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv := &Conversation{ID: core.NewID(), SessionID: sessionID, ContactID: contactID, CreatedAt: time.Now()}
	s.conversations[conv.ID] = conv
	return conv.ID, nil
}

// SendMessage appends a message to the conversation, preserving the role.
func (s *InMemoryService) SendMessage(_ context.Context, conversationID, role, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		return "", fmt.Errorf("conversation %s: %w", conversationID, core.ErrNotFound)
	}
	if conv.Closed {
		return "", fmt.Errorf("conversation %s is closed", conversationID)
	}
	conv.Messages = append(conv.Messages, core.Message{Role: role, Text: text, Timestamp: time.Now()})
	return core.NewID(), nil
}

// CloseConversation marks the conversation finished.
func (s *InMemoryService) CloseConversation(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[conversationID]
	if !ok {
		return fmt.Errorf("conversation %s: %w", conversationID, core.ErrNotFound)
	}
	conv.Closed = true
	return nil
}

// Conversation returns a snapshot of a stored conversation.
func (s *InMemoryService) Conversation(id string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return Conversation{}, false
	}
	snapshot := *conv
	snapshot.Messages = make([]core.Message, len(conv.Messages))
	copy(snapshot.Messages, conv.Messages)
	return snapshot, true
}
