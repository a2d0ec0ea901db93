package testutil

import (
	"time"

	"github.com/leadmesh/leadmesh/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").Contact(profile).Message("user", "hi").Build()
type SessionBuilder struct {
	id           string
	lang         core.Language
	contact      core.ContactProfile
	contactID    string
	metadata     map[string]any
	messages     []core.Message
	lastActivity time.Time
}

// NewSessionBuilder creates a new builder for a session with the given id.
// Use chainable methods then call Build.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, lang: core.LangEnglish, metadata: map[string]any{}}
}

// Language sets the session language (chainable).
func (b *SessionBuilder) Language(lang core.Language) *SessionBuilder {
	b.lang = lang
	return b
}

// Contact sets the collected contact profile (chainable).
func (b *SessionBuilder) Contact(p core.ContactProfile) *SessionBuilder {
	b.contact = p
	return b
}

// ContactID attaches an external contact identifier (chainable).
func (b *SessionBuilder) ContactID(id string) *SessionBuilder {
	b.contactID = id
	return b
}

// Meta sets a metadata key/value pair (chainable).
func (b *SessionBuilder) Meta(key string, val any) *SessionBuilder {
	b.metadata[key] = val
	return b
}

// Message appends a message to the log (chainable).
func (b *SessionBuilder) Message(role, text string) *SessionBuilder {
	b.messages = append(b.messages, core.Message{Role: role, Text: text, Timestamp: time.Now()})
	return b
}

// Messages appends n user messages to the log (chainable).
func (b *SessionBuilder) Messages(n int) *SessionBuilder {
	for i := 0; i < n; i++ {
		b.Message("user", "message")
	}
	return b
}

// LastActivity pins the session's last-activity timestamp (chainable).
func (b *SessionBuilder) LastActivity(t time.Time) *SessionBuilder {
	b.lastActivity = t
	return b
}

// Build returns a *core.Session with the pre-populated state.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id, b.lang)
	s.Contact = b.contact
	s.ContactID = b.contactID
	for k, v := range b.metadata {
		s.Metadata[k] = v
	}
	s.Messages = append(s.Messages, b.messages...)
	if !b.lastActivity.IsZero() {
		s.LastActivity = b.lastActivity
	}
	return s
}

// NewContext builds a workflow context with optional contact profile.
func NewContext(sessionID string, contact *core.ContactProfile) *core.Context {
	wctx := core.NewContext(sessionID, core.LangEnglish)
	wctx.Contact = contact
	return wctx
}
