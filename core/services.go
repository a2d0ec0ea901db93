package core

import (
	"context"
	"time"
)

// Contact is the external CRM's view of a person. ID is assigned by the
// identity service and is the handle every downstream operation uses.
type Contact struct {
	ID      string         `json:"id"`
	Profile ContactProfile `json:"profile"`
	Tags    []string       `json:"tags,omitempty"`
	Notes   []string       `json:"notes,omitempty"`
}

// IdentityService is the external CRM/identity seam. Implementations are
// expected to be remote; all calls take a context for timeout propagation and
// return sentinel errors (ErrNotFound, ErrAlreadyExists) where applicable.
type IdentityService interface {
	// FindContact looks a contact up by email or phone; either may be empty.
	FindContact(ctx context.Context, email, phone string) (*Contact, error)
	// CreateContact creates a new contact. Returns ErrAlreadyExists when a
	// contact with the same email or phone is already registered.
	CreateContact(ctx context.Context, profile ContactProfile) (*Contact, error)
	// UpdateContact overlays non-empty profile fields onto the contact.
	UpdateContact(ctx context.Context, id string, profile ContactProfile) (*Contact, error)
	// AddTags attaches tags to the contact; adding an existing tag is a no-op.
	AddTags(ctx context.Context, id string, tags ...string) error
	// RemoveTags detaches tags; removing an absent tag is a no-op.
	RemoveTags(ctx context.Context, id string, tags ...string) error
	// AddNote appends a free-form note to the contact record.
	AddNote(ctx context.Context, id, note string) error
	// CreateTask opens a follow-up task against the contact.
	CreateTask(ctx context.Context, id, title string, due time.Time) (string, error)
	// EnrollCampaign places the contact into a named campaign and returns an
	// enrollment identifier.
	EnrollCampaign(ctx context.Context, id, campaign string, props map[string]any) (string, error)
}

// Slot is one bookable time slot reported by the calendar service.
type Slot struct {
	Date string `json:"date"` // YYYY-MM-DD
	Time string `json:"time"` // HH:MM, 24h
}

// Booking is a confirmed calendar event.
type Booking struct {
	ID        string    `json:"id"`
	ContactID string    `json:"contact_id"`
	Type      string    `json:"type"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
}

// CalendarService is the external scheduling seam.
type CalendarService interface {
	// Availability reports whether a slot of durationMin minutes can be
	// booked on the given date.
	Availability(ctx context.Context, date string, durationMin int) (bool, error)
	// Slots lists open slots in the inclusive date range.
	Slots(ctx context.Context, startDate, endDate string) ([]Slot, error)
	// CreateEvent books the event and returns it with an assigned ID.
	CreateEvent(ctx context.Context, booking Booking) (Booking, error)
}

// MessengerService is the external conversation/messaging seam.
type MessengerService interface {
	// CreateConversation opens a conversation for the session and returns
	// its external identifier.
	CreateConversation(ctx context.Context, sessionID, contactID string) (string, error)
	// SendMessage delivers a message into the conversation, preserving the
	// author role, and returns a message identifier.
	SendMessage(ctx context.Context, conversationID, role, text string) (string, error)
	// CloseConversation marks the conversation finished.
	CloseConversation(ctx context.Context, conversationID string) error
}

// Tracker records analytics events. Failures are never fatal to a workflow;
// callers log and move on.
type Tracker interface {
	Track(ctx context.Context, event string, props map[string]any) error
}
