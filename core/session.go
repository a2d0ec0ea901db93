package core

import (
	"sync"
	"time"
)

// Message is one entry in a session's append-only conversation log.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the conversation-level aggregate tracking the collected contact
// profile, external identifiers, advisory UI flags, and the ordered message
// log. It is safe for concurrent access.
//
// Contract:
//   - ID is immutable after creation; exactly one Session exists per id and
//     the session manager is the sole owner
//   - AddMessage appends and refreshes LastActivity (append-only log)
//   - Clone returns a deep copy safe for independent inspection
//   - DisclaimerShown / ContactCollected are advisory flags consulted by the
//     caller, not invariants enforced by the store
type Session struct {
	ID               string         `json:"id"`
	Language         Language       `json:"language"`
	DisclaimerShown  bool           `json:"disclaimer_shown"`
	ContactCollected bool           `json:"contact_collected"`
	Contact          ContactProfile `json:"contact"`
	ContactID        string         `json:"contact_id,omitempty"`
	ConversationID   string         `json:"conversation_id,omitempty"`
	Messages         []Message      `json:"messages"`
	StartedAt        time.Time      `json:"started_at"`
	LastActivity     time.Time      `json:"last_activity"`
	Metadata         map[string]any `json:"metadata"`
	mu               sync.RWMutex
}

// NewSession creates a session with the given id and language.
func NewSession(id string, lang Language) *Session {
	if !lang.Valid() {
		lang = LangEnglish
	}
	now := time.Now()
	return &Session{
		ID:           id,
		Language:     lang,
		Messages:     []Message{},
		StartedAt:    now,
		LastActivity: now,
		Metadata:     map[string]any{},
	}
}

// Touch refreshes the last-activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = time.Now()
}

// AddMessage appends to the message log and refreshes LastActivity.
func (s *Session) AddMessage(role, text string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := Message{Role: role, Text: text, Timestamp: time.Now()}
	s.Messages = append(s.Messages, msg)
	s.LastActivity = msg.Timestamp
	return msg
}

// MessageLog returns a defensive copy of the message log.
func (s *Session) MessageLog() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}

// MessageCount returns the current log length.
func (s *Session) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Messages)
}

// CountByRole returns the number of logged messages with the given role.
func (s *Session) CountByRole(role string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, m := range s.Messages {
		if m.Role == role {
			n++
		}
	}
	return n
}

// MergeContact overlays non-empty profile fields onto the stored profile.
func (s *Session) MergeContact(p ContactProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Contact = s.Contact.Merge(p)
	s.LastActivity = time.Now()
}

// AttachExternalIDs persists the external contact / conversation identifiers
// resolved by a workflow. Empty arguments leave the stored value untouched.
func (s *Session) AttachExternalIDs(contactID, conversationID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if contactID != "" {
		s.ContactID = contactID
	}
	if conversationID != "" {
		s.ConversationID = conversationID
	}
	s.LastActivity = time.Now()
}

// MergeMetadata merges a key/value delta into the session metadata.
func (s *Session) MergeMetadata(delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.Metadata[k] = v
	}
}

// MetaBool returns a metadata value as a bool, defaulting to false.
func (s *Session) MetaBool(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, _ := s.Metadata[key].(bool)
	return b
}

// IdleSince reports whether the session has seen no activity since the
// given cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastActivity.Before(cutoff)
}

// Clone returns a deep copy of the session (maps and slices) safe for
// inspection outside the store's locks.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:               s.ID,
		Language:         s.Language,
		DisclaimerShown:  s.DisclaimerShown,
		ContactCollected: s.ContactCollected,
		Contact:          s.Contact,
		ContactID:        s.ContactID,
		ConversationID:   s.ConversationID,
		Messages:         make([]Message, len(s.Messages)),
		StartedAt:        s.StartedAt,
		LastActivity:     s.LastActivity,
		Metadata:         make(map[string]any, len(s.Metadata)),
	}
	copy(clone.Messages, s.Messages)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}
