// Package identity contains concrete IdentityService implementations. The
// service interface and Contact type reside in the core package; depend on
// core.IdentityService in your code and select an implementation (like the
// in-memory store below) at wiring time.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadmesh/leadmesh/core"
)

// Task is a stored follow-up task record.
type Task struct {
	ContactID string
	Title     string
	Due       time.Time
}

// InMemoryService is a volatile CRM fake storing contacts in a process-local
// map. It is safe for concurrent access and best suited for tests or demo
// wiring. Create-path conflicts return core.ErrAlreadyExists so callers can
// exercise their upsert fallback.
type InMemoryService struct {
	mu          sync.RWMutex
	contacts    map[string]*core.Contact
	tasks       map[string]Task
	enrollments map[string][]string // contactID -> campaigns
}

// NewInMemoryService constructs an empty in-memory identity service.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		contacts:    make(map[string]*core.Contact),
		tasks:       make(map[string]Task),
		enrollments: make(map[string][]string),
	}
}

// FindContact looks a contact up by email or phone.
func (s *InMemoryService) FindContact(_ context.Context, email, phone string) (*core.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findLocked(email, phone)
	if c == nil {
		return nil, core.ErrNotFound
	}
	return cloneContact(c), nil
}

// CreateContact registers a new contact, rejecting duplicate email/phone.
func (s *InMemoryService) CreateContact(_ context.Context, profile core.ContactProfile) (*core.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.findLocked(profile.Email, profile.Phone); existing != nil {
		return nil, core.ErrAlreadyExists
	}
	c := &core.Contact{ID: core.NewID(), Profile: profile}
	s.contacts[c.ID] = c
	return cloneContact(c), nil
}

// UpdateContact overlays non-empty profile fields onto the stored contact.
func (s *InMemoryService) UpdateContact(_ context.Context, id string, profile core.ContactProfile) (*core.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	c.Profile = c.Profile.Merge(profile)
	return cloneContact(c), nil
}

// AddTags attaches tags; adding an existing tag is a no-op.
func (s *InMemoryService) AddTags(_ context.Context, id string, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return core.ErrNotFound
	}
	for _, tag := range tags {
		if !contains(c.Tags, tag) {
			c.Tags = append(c.Tags, tag)
		}
	}
	return nil
}

// RemoveTags detaches tags; removing an absent tag is a no-op.
func (s *InMemoryService) RemoveTags(_ context.Context, id string, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return core.ErrNotFound
	}
	kept := c.Tags[:0]
	for _, tag := range c.Tags {
		if !contains(tags, tag) {
			kept = append(kept, tag)
		}
	}
	c.Tags = kept
	return nil
}

// AddNote appends a note to the contact record.
func (s *InMemoryService) AddNote(_ context.Context, id, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return core.ErrNotFound
	}
	c.Notes = append(c.Notes, note)
	return nil
}

// CreateTask opens a follow-up task against the contact.
func (s *InMemoryService) CreateTask(_ context.Context, id, title string, due time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return "", core.ErrNotFound
	}
	taskID := core.NewID()
	s.tasks[taskID] = Task{ContactID: id, Title: title, Due: due}
	return taskID, nil
}

// Tasks returns the stored tasks for a contact.
func (s *InMemoryService) Tasks(id string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Task
	for _, t := range s.tasks {
		if t.ContactID == id {
			out = append(out, t)
		}
	}
	return out
}

// EnrollCampaign records a campaign enrollment for the contact.
func (s *InMemoryService) EnrollCampaign(_ context.Context, id, campaign string, _ map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contacts[id]; !ok {
		return "", fmt.Errorf("enroll %q: %w", campaign, core.ErrNotFound)
	}
	s.enrollments[id] = append(s.enrollments[id], campaign)
	return core.NewID(), nil
}

// Enrollments returns the campaigns a contact was enrolled in, in order.
func (s *InMemoryService) Enrollments(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.enrollments[id]))
	copy(out, s.enrollments[id])
	return out
}

// Contact returns a snapshot of the stored contact, if present.
func (s *InMemoryService) Contact(id string) (*core.Contact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, false
	}
	return cloneContact(c), true
}

func (s *InMemoryService) findLocked(email, phone string) *core.Contact {
	for _, c := range s.contacts {
		if email != "" && c.Profile.Email == email {
			return c
		}
		if phone != "" && c.Profile.Phone == phone {
			return c
		}
	}
	return nil
}

func cloneContact(c *core.Contact) *core.Contact {
	clone := &core.Contact{ID: c.ID, Profile: c.Profile, Tags: make([]string, len(c.Tags)), Notes: make([]string, len(c.Notes))}
	copy(clone.Tags, c.Tags)
	copy(clone.Notes, c.Notes)
	return clone
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
