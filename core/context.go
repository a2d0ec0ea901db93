package core

import "sync"

// Language identifies one of the two supported conversation languages.
type Language string

const (
	// LangEnglish is the default conversation language.
	LangEnglish Language = "en"
	// LangSpanish is the secondary conversation language.
	LangSpanish Language = "es"
)

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool { return l == LangEnglish || l == LangSpanish }

// ContactProfile carries optional identity fields collected during a
// conversation. All fields are optional; consuming agents validate the
// fields they actually require (see agent.BaseAgent.ValidateContext).
type ContactProfile struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// HasName reports whether a first or last name is present.
func (p ContactProfile) HasName() bool { return p.FirstName != "" || p.LastName != "" }

// Merge overlays non-empty fields of other onto a copy of p.
func (p ContactProfile) Merge(other ContactProfile) ContactProfile {
	if other.FirstName != "" {
		p.FirstName = other.FirstName
	}
	if other.LastName != "" {
		p.LastName = other.LastName
	}
	if other.Email != "" {
		p.Email = other.Email
	}
	if other.Phone != "" {
		p.Phone = other.Phone
	}
	return p
}

// Context is the per-request execution context shared by every agent call
// within one workflow invocation. The orchestrator creates a fresh Context
// per top-level workflow and passes it by reference; it is never persisted
// directly; the session store persists a superset of it.
//
// The metadata map holds cross-agent handoff data (for example the external
// contact identifier once the contact step resolves one). Access goes through
// SetMeta/Meta so concurrent side-effect goroutines cannot corrupt the map.
type Context struct {
	SessionID string
	Language  Language
	Contact   *ContactProfile

	mu       sync.RWMutex
	metadata map[string]any
}

// Metadata keys used for cross-agent handoff within a workflow.
const (
	MetaContactID         = "contact_id"
	MetaConversationID    = "conversation_id"
	MetaAppointmentBooked = "appointment_booked"
	MetaMessageCount      = "message_count"
)

// NewContext creates a workflow context for the given session.
func NewContext(sessionID string, lang Language) *Context {
	if !lang.Valid() {
		lang = LangEnglish
	}
	return &Context{SessionID: sessionID, Language: lang, metadata: map[string]any{}}
}

// SetMeta stores a metadata value.
func (c *Context) SetMeta(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.metadata[key] = value
}

// Meta returns a metadata value and an existence flag.
func (c *Context) Meta(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.metadata[key]
	return v, ok
}

// MetaString returns a metadata value as a string, or "" when absent or not
// a string.
func (c *Context) MetaString(key string) string {
	v, ok := c.Meta(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// MetaBool returns a metadata value as a bool, defaulting to false.
func (c *Context) MetaBool(key string) bool {
	v, ok := c.Meta(key)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// MetaInt returns a metadata value as an int, defaulting to 0.
func (c *Context) MetaInt(key string) int {
	v, ok := c.Meta(key)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// MetaSnapshot returns a shallow copy of the metadata map for merging into a
// session after a workflow completes.
func (c *Context) MetaSnapshot() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.metadata))
	for k, v := range c.metadata {
		out[k] = v
	}
	return out
}
