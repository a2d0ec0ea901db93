// Package tracking contains concrete Tracker implementations. The interface
// resides in the core package; select an implementation at wiring time.
package tracking

import (
	"context"
	"sync"
	"time"
)

// Event is one recorded tracking event.
type Event struct {
	Name  string
	Props map[string]any
	At    time.Time
}

// InMemoryTracker records events in a process-local slice. Safe for
// concurrent access; useful for tests and demo wiring.
type InMemoryTracker struct {
	mu     sync.Mutex
	events []Event
}

// NewInMemoryTracker constructs an empty tracker.
func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{}
}

// Track records the event.
func (t *InMemoryTracker) Track(_ context.Context, event string, props map[string]any) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	copied := make(map[string]any, len(props))
	for k, v := range props {
		copied[k] = v
	}
	t.events = append(t.events, Event{Name: event, Props: copied, At: time.Now()})
	return nil
}

// Events returns a copy of the recorded events in order.
func (t *InMemoryTracker) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Count returns the number of recorded events with the given name.
func (t *InMemoryTracker) Count(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.events {
		if e.Name == name {
			n++
		}
	}
	return n
}
