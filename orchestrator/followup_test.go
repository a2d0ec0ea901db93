package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/internal/testutil"
)

func TestShouldFollowUp(t *testing.T) {
	tests := []struct {
		name         string
		booked       bool
		contactID    string
		messageCount int
		want         bool
	}{
		{"engaged lead gets follow-up", false, "contact-1", 5, true},
		{"booked appointment never follows up", true, "contact-1", 20, false},
		{"no contact never follows up", false, "", 20, false},
		{"at threshold is not enough", false, "contact-1", 4, false},
		{"below threshold", false, "contact-1", 2, false},
		{"just above threshold", false, "contact-1", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldFollowUp(tt.booked, tt.contactID, tt.messageCount))
		})
	}
}

func TestShouldFollowUpSession(t *testing.T) {
	engaged := testutil.NewSessionBuilder("sess-1").
		ContactID("contact-1").
		Messages(5).
		Build()
	assert.True(t, ShouldFollowUpSession(engaged))

	booked := testutil.NewSessionBuilder("sess-2").
		ContactID("contact-1").
		Messages(5).
		Meta(core.MetaAppointmentBooked, true).
		Build()
	assert.False(t, ShouldFollowUpSession(booked))
}
