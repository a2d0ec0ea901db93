package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/logging"
	"github.com/leadmesh/leadmesh/orchestrator"
)

// Options holds configuration overrides passed to NewManager.
type Options struct {
	// Logger receives session lifecycle telemetry.
	Logger logging.Logger
}

// entry pairs a session with the lock that serializes its compound
// operations. Removed entries are marked so a waiter that acquired the lock
// after finalization retries against a fresh entry instead of mutating a
// dropped session.
type entry struct {
	mu      sync.Mutex
	session *core.Session
	removed bool
}

// Manager is the sole owner of live sessions: exactly one core.Session exists
// per identifier at any time. Mutations of one session serialize on its entry
// lock; distinct sessions proceed without contention (the map itself is under
// a read/write lock only long enough to resolve entries).
type Manager struct {
	mu      sync.RWMutex
	entries map[string]*entry

	orch   *orchestrator.Orchestrator
	logger logging.Logger
}

// NewManager constructs a Manager driving the given orchestrator.
func NewManager(orch *orchestrator.Orchestrator, optFns ...func(o *Options)) *Manager {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Manager{
		entries: make(map[string]*entry),
		orch:    orch,
		logger:  opts.Logger,
	}
}

// GetOrCreate resolves the session for an identifier, creating it on first
// reference, refreshes its last-activity timestamp, and returns a snapshot.
func (m *Manager) GetOrCreate(id string, lang core.Language) *core.Session {
	e := m.entryFor(id, lang)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.Touch()
	return e.session.Clone()
}

// Session returns a snapshot of an existing session without creating one.
func (m *Manager) Session(id string) (*core.Session, bool) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return e.session.Clone(), true
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// MarkDisclaimerShown flips the advisory disclaimer flag.
func (m *Manager) MarkDisclaimerShown(id string) {
	e := m.entryFor(id, core.LangEnglish)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session.DisclaimerShown = true
}

// SaveContactInfo merges partial contact fields into the session's profile,
// drives the lead intake workflow, and on success persists the external
// contact and conversation identifiers onto the session and flips the
// contact-collected flag. The workflow's step records are returned either way.
func (m *Manager) SaveContactInfo(ctx context.Context, id string, profile core.ContactProfile) ([]core.StepRecord, error) {
	e := m.entryFor(id, core.LangEnglish)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return m.SaveContactInfo(ctx, id, profile)
	}

	e.session.MergeContact(profile)
	wctx := m.workflowContext(e.session)

	records := m.orch.IngestLead(ctx, wctx, orchestrator.LeadInput{
		Profile: e.session.Contact,
		Source:  "chat",
	})

	contactID := wctx.MetaString(core.MetaContactID)
	if contactID != "" {
		e.session.AttachExternalIDs(contactID, wctx.MetaString(core.MetaConversationID))
		e.session.ContactCollected = true
		m.logger.Info("contact collected", "session_id", id, "contact_id", contactID)
	}
	e.session.MergeMetadata(wctx.MetaSnapshot())
	return records, nil
}

// AddMessage appends the message to the session log unconditionally and
// forwards it through the message workflow only when an external conversation
// is already attached; messages recorded before contact collection stay
// local. A snapshot of the updated session is returned.
func (m *Manager) AddMessage(ctx context.Context, id, role, text string) (*core.Session, error) {
	e := m.entryFor(id, core.LangEnglish)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return m.AddMessage(ctx, id, role, text)
	}

	e.session.AddMessage(role, text)

	if e.session.ConversationID != "" {
		wctx := m.workflowContext(e.session)
		rec := m.orch.HandleMessage(ctx, wctx, orchestrator.MessageInput{Role: role, Text: text})
		if !rec.Result.Success {
			m.logger.Warn("message forwarding failed", "session_id", id, "error", rec.Result.Error)
		}
		e.session.MergeMetadata(wctx.MetaSnapshot())
	}
	return e.session.Clone(), nil
}

// RequestAppointment drives the appointment workflow for the session and
// merges the resulting metadata (including the appointment-booked flag) back
// onto it.
func (m *Manager) RequestAppointment(ctx context.Context, id string, req orchestrator.AppointmentRequest) ([]core.StepRecord, error) {
	e := m.entryFor(id, core.LangEnglish)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return m.RequestAppointment(ctx, id, req)
	}

	wctx := m.workflowContext(e.session)
	records := m.orch.HandleAppointmentRequest(ctx, wctx, req)
	e.session.MergeMetadata(wctx.MetaSnapshot())
	return records, nil
}

// GenerateSummary finalizes the session: it runs the end-conversation
// workflow and, should that path fail to produce a summary, falls back to a
// deterministic local one, so summary generation never fails outright. The
// session is removed afterwards (terminal transition).
func (m *Manager) GenerateSummary(ctx context.Context, id string) (string, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return "", core.ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.removed {
		return "", core.ErrSessionNotFound
	}
	return m.finalizeLocked(ctx, e), nil
}

// Cleanup sweeps all sessions and finalizes those whose last activity is
// older than maxAge, using the same summarize-then-remove path as explicit
// ending; idle sessions are never silently dropped. It returns the number of
// sessions removed.
func (m *Manager) Cleanup(ctx context.Context, maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.RLock()
	stale := make([]*entry, 0)
	for _, e := range m.entries {
		if e.session.IdleSince(cutoff) {
			stale = append(stale, e)
		}
	}
	m.mu.RUnlock()

	removed := 0
	for _, e := range stale {
		e.mu.Lock()
		// An append may have raced the sweep; finalize only if still idle.
		if !e.removed && e.session.IdleSince(cutoff) {
			m.finalizeLocked(ctx, e)
			removed++
		}
		e.mu.Unlock()
	}
	if removed > 0 {
		m.logger.Info("session sweep finished", "removed", removed)
	}
	return removed
}

// StartSweeper runs Cleanup on the given interval until the context is
// cancelled. It runs independently of request handling but acquires the same
// per-session locks as any other mutator.
func (m *Manager) StartSweeper(ctx context.Context, interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Cleanup(ctx, maxAge)
			}
		}
	}()
}

// finalizeLocked produces the session summary and removes the session.
// Caller must hold the entry lock.
func (m *Manager) finalizeLocked(ctx context.Context, e *entry) string {
	s := e.session
	wctx := m.workflowContext(s)

	summary, _ := m.orch.EndConversation(ctx, wctx, orchestrator.EndInput{Messages: s.MessageLog()})
	if summary == "" {
		summary = m.fallbackSummary(s)
	}

	e.removed = true
	m.mu.Lock()
	delete(m.entries, s.ID)
	m.mu.Unlock()

	m.logger.Info("session finalized", "session_id", s.ID, "messages", s.MessageCount())
	return summary
}

// fallbackSummary builds a deterministic, purely local summary from session
// fields. It backs the never-fails guarantee of GenerateSummary.
func (m *Manager) fallbackSummary(s *core.Session) string {
	contact := "no contact on file"
	if s.Contact.HasName() {
		contact = s.Contact.FirstName
		if s.Contact.LastName != "" {
			contact += " " + s.Contact.LastName
		}
	} else if s.Contact.Email != "" {
		contact = s.Contact.Email
	}
	duration := s.LastActivity.Sub(s.StartedAt).Round(time.Second)
	return fmt.Sprintf(
		"Conversation summary: duration %s, %d user messages, %d assistant messages, contact: %s.",
		duration, s.CountByRole("user"), s.CountByRole("assistant"), contact,
	)
}

// workflowContext builds a fresh per-workflow context from the session's
// current state. Caller must hold the entry lock.
func (m *Manager) workflowContext(s *core.Session) *core.Context {
	wctx := core.NewContext(s.ID, s.Language)
	profile := s.Contact
	wctx.Contact = &profile
	if s.ContactID != "" {
		wctx.SetMeta(core.MetaContactID, s.ContactID)
	}
	if s.ConversationID != "" {
		wctx.SetMeta(core.MetaConversationID, s.ConversationID)
	}
	if s.MetaBool(core.MetaAppointmentBooked) {
		wctx.SetMeta(core.MetaAppointmentBooked, true)
	}
	wctx.SetMeta(core.MetaMessageCount, s.MessageCount())
	return wctx
}

// entryFor resolves or creates the entry for a session id.
func (m *Manager) entryFor(id string, lang core.Language) *entry {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if ok {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok = m.entries[id]; ok {
		return e
	}
	e = &entry{session: core.NewSession(id, lang)}
	m.entries[id] = e
	m.logger.Debug("session created", "session_id", id, "language", lang)
	return e
}
