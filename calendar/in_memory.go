// Package calendar contains concrete CalendarService implementations. The
// service interface plus the Slot and Booking types reside in the core
// package; select an implementation at wiring time.
package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/leadmesh/leadmesh/core"
)

// Business hours offered by the in-memory calendar.
var defaultTimes = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00"}

// InMemoryService is a volatile calendar fake. Every business-hour slot is
// open until booked; Availability answers against the booked set. Safe for
// concurrent access.
type InMemoryService struct {
	mu       sync.RWMutex
	bookings map[string]core.Booking
	booked   map[string]int // date -> bookings that day
	closed   map[string]bool
}

// NewInMemoryService constructs an empty in-memory calendar.
func NewInMemoryService() *InMemoryService {
	return &InMemoryService{
		bookings: make(map[string]core.Booking),
		booked:   make(map[string]int),
		closed:   make(map[string]bool),
	}
}

// CloseDate marks a date fully unavailable. Test/demo hook.
func (s *InMemoryService) CloseDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed[date] = true
}

// Availability reports whether the date still has an open slot.
func (s *InMemoryService) Availability(_ context.Context, date string, _ int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed[date] {
		return false, nil
	}
	return s.booked[date] < len(defaultTimes), nil
}

// Slots lists open business-hour slots in the inclusive date range. Dates are
// compared lexically, which works for the YYYY-MM-DD format.
func (s *InMemoryService) Slots(_ context.Context, startDate, endDate string) ([]core.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slots := []core.Slot{}
	for date := startDate; date <= endDate; {
		if !s.closed[date] {
			for i, t := range defaultTimes {
				if i < s.booked[date] {
					continue
				}
				slots = append(slots, core.Slot{Date: date, Time: t})
			}
		}
		next := nextDate(date)
		if next == date {
			break
		}
		date = next
	}
	return slots, nil
}

// CreateEvent books the event and returns it with an assigned ID.
func (s *InMemoryService) CreateEvent(_ context.Context, booking core.Booking) (core.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	booking.ID = core.NewID()
	s.bookings[booking.ID] = booking
	s.booked[booking.StartsAt.Format("2006-01-02")]++
	return booking, nil
}

// Booking returns a stored booking by id.
func (s *InMemoryService) Booking(id string) (core.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	return b, ok
}

// nextDate advances a YYYY-MM-DD date by one day, returning the input
// unchanged when it does not parse (which terminates the range loop).
func nextDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}
