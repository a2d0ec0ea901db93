package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leadmesh/leadmesh/core"
)

// Appointment type durations. Unknown types fall back to consultation.
var appointmentDurations = map[string]time.Duration{
	"consultation": 30 * time.Minute,
	"follow_up":    15 * time.Minute,
	"intake":       60 * time.Minute,
}

// AppointmentDuration resolves an appointment type to its normalized name and
// length. Unknown types resolve to consultation.
func AppointmentDuration(kind string) (string, time.Duration) {
	if d, ok := appointmentDurations[kind]; ok {
		return kind, d
	}
	return "consultation", appointmentDurations["consultation"]
}

const (
	availabilityCacheTTL = 5 * time.Minute
	slotsCacheTTL        = 10 * time.Minute
)

var _ core.Agent = (*SchedulingAgent)(nil)

// SchedulingAgent checks availability and books appointments against the
// external calendar. Availability and slot queries are cached agent-locally
// (5 and 10 minutes respectively); bookings always hit the calendar.
type SchedulingAgent struct {
	BaseAgent
	calendar core.CalendarService
}

// NewSchedulingAgent creates a SchedulingAgent backed by the given calendar.
func NewSchedulingAgent(calendar core.CalendarService) *SchedulingAgent {
	return &SchedulingAgent{
		BaseAgent: NewBaseAgent(
			"scheduling",
			"Checks availability and books appointments on the external calendar",
			"appointment", "schedule", "calendar", "availability", "booking",
		),
		calendar: calendar,
	}
}

// AvailabilityRequest asks whether a slot of the given length is open.
type AvailabilityRequest struct {
	Date        string // YYYY-MM-DD
	DurationMin int
}

// CheckAvailability reports whether the requested slot can be booked. The
// answer is cached for five minutes keyed by (date, duration).
func (a *SchedulingAgent) CheckAvailability(ctx context.Context, wctx *core.Context, req AvailabilityRequest) core.Result {
	return a.run("check_availability", func() (core.Result, error) {
		if req.Date == "" {
			return core.Result{}, errors.New("scheduling: a date is required")
		}
		if req.DurationMin <= 0 {
			req.DurationMin = 30
		}
		key := fmt.Sprintf("avail:%s:%d", req.Date, req.DurationMin)
		if cached, ok := a.GetCache(key); ok {
			return cached.(core.Result), nil
		}
		available, err := a.calendar.Availability(ctx, req.Date, req.DurationMin)
		if err != nil {
			return core.Result{}, fmt.Errorf("checking availability: %w", err)
		}
		res := core.Ok(map[string]any{"available": available, "date": req.Date})
		if !available {
			res = res.WithNextAction("get_slots")
		}
		a.SetCache(key, res, availabilityCacheTTL)
		return res, nil
	})
}

// SlotsRequest asks for open slots in an inclusive date range.
type SlotsRequest struct {
	StartDate string
	EndDate   string
}

// GetSlots lists open slots in the range. The answer is cached for ten
// minutes keyed by the date range.
func (a *SchedulingAgent) GetSlots(ctx context.Context, wctx *core.Context, req SlotsRequest) core.Result {
	return a.run("get_slots", func() (core.Result, error) {
		if req.StartDate == "" {
			return core.Result{}, errors.New("scheduling: a start date is required")
		}
		if req.EndDate == "" {
			req.EndDate = req.StartDate
		}
		key := fmt.Sprintf("slots:%s:%s", req.StartDate, req.EndDate)
		if cached, ok := a.GetCache(key); ok {
			return cached.(core.Result), nil
		}
		slots, err := a.calendar.Slots(ctx, req.StartDate, req.EndDate)
		if err != nil {
			return core.Result{}, fmt.Errorf("fetching slots: %w", err)
		}
		res := core.Ok(map[string]any{"slots": slots, "count": len(slots)})
		a.SetCache(key, res, slotsCacheTTL)
		return res, nil
	})
}

// BookingRequest describes the appointment to book. ContactID may be empty
// when the context metadata already carries one.
type BookingRequest struct {
	ContactID string
	Date      string // YYYY-MM-DD
	Time      string // HH:MM, 24h
	Type      string // consultation, follow_up or intake
}

// Book creates the calendar event. Preconditions: a resolved contact id
// (request or context metadata) and a validated email on the context profile.
// The end time is the start plus the type-specific duration.
func (a *SchedulingAgent) Book(ctx context.Context, wctx *core.Context, req BookingRequest) core.Result {
	return a.run("book", func() (core.Result, error) {
		contactID := req.ContactID
		if contactID == "" {
			contactID = wctx.MetaString(core.MetaContactID)
		}
		if contactID == "" {
			return core.Result{}, core.ErrMissingContactID
		}
		if err := a.ValidateContext(wctx, FieldEmail); err != nil {
			return core.Result{}, err
		}

		start, err := time.Parse("2006-01-02 15:04", req.Date+" "+req.Time)
		if err != nil {
			return core.Result{}, fmt.Errorf("scheduling: invalid date/time %q %q: %w", req.Date, req.Time, err)
		}
		kind, duration := AppointmentDuration(req.Type)
		booking, err := a.calendar.CreateEvent(ctx, core.Booking{
			ContactID: contactID,
			Type:      kind,
			StartsAt:  start,
			EndsAt:    start.Add(duration),
		})
		if err != nil {
			return core.Result{}, fmt.Errorf("booking appointment: %w", err)
		}

		wctx.SetMeta(core.MetaAppointmentBooked, true)
		return core.Ok(map[string]any{
			"booking_id": booking.ID,
			"contact_id": contactID,
			"type":       kind,
			"starts_at":  booking.StartsAt.Format("2006-01-02 15:04"),
			"ends_at":    booking.EndsAt.Format("2006-01-02 15:04"),
			"end_time":   booking.EndsAt.Format("15:04"),
		}).WithNextAction("confirm_appointment"), nil
	})
}
