package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadmesh/leadmesh/core"
)

var _ core.CalendarService = (*InMemoryService)(nil)

func TestInMemoryService_Availability(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	open, err := svc.Availability(ctx, "2025-03-10", 30)
	require.NoError(t, err)
	assert.True(t, open)

	svc.CloseDate("2025-03-10")
	open, err = svc.Availability(ctx, "2025-03-10", 30)
	require.NoError(t, err)
	assert.False(t, open)
}

func TestInMemoryService_SlotsShrinkAsBookingsLand(t *testing.T) {
	svc := NewInMemoryService()
	ctx := context.Background()

	slots, err := svc.Slots(ctx, "2025-03-10", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 6)
	assert.Equal(t, "09:00", slots[0].Time)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	booked, err := svc.CreateEvent(ctx, core.Booking{ContactID: "c1", Type: "consultation", StartsAt: start, EndsAt: start.Add(30 * time.Minute)})
	require.NoError(t, err)
	require.NotEmpty(t, booked.ID)

	slots, err = svc.Slots(ctx, "2025-03-10", "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, slots, 5)

	stored, ok := svc.Booking(booked.ID)
	require.True(t, ok)
	assert.Equal(t, "c1", stored.ContactID)
}

func TestInMemoryService_SlotsRange(t *testing.T) {
	svc := NewInMemoryService()
	svc.CloseDate("2025-03-11")

	slots, err := svc.Slots(context.Background(), "2025-03-10", "2025-03-12")
	require.NoError(t, err)
	assert.Len(t, slots, 12, "closed middle day contributes nothing")
	assert.Equal(t, "2025-03-10", slots[0].Date)
	assert.Equal(t, "2025-03-12", slots[len(slots)-1].Date)
}

func TestInMemoryService_SlotsBadDate(t *testing.T) {
	svc := NewInMemoryService()

	slots, err := svc.Slots(context.Background(), "later", "whenever")
	require.NoError(t, err)
	assert.Len(t, slots, 6, "an unparseable date cannot advance, so the loop stops after it")
}
