package leadmesh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadmesh/leadmesh/config"
	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/identity"
	"github.com/leadmesh/leadmesh/logging"
	"github.com/leadmesh/leadmesh/orchestrator"
	"github.com/leadmesh/leadmesh/session"
	"github.com/leadmesh/leadmesh/tracking"
)

func TestNew_Defaults(t *testing.T) {
	m := New()
	require.NotNil(t, m.Orchestrator())
	require.NotNil(t, m.Sessions())
	require.NotNil(t, m.Topics())
}

func TestNew_LoggerBuiltFromConfig(t *testing.T) {
	m := New(func(o *Options) {
		c := config.Default()
		c.Logging.Level = "debug"
		c.Logging.Format = "text"
		o.Config = c
	})
	require.NotNil(t, m.Logger())
	assert.IsType(t, &logging.LeadMeshLogger{}, m.Logger())
}

func TestNew_LoggerOverrideWins(t *testing.T) {
	custom := logging.NoOpLogger{}
	m := New(func(o *Options) {
		o.Logger = custom
	})
	assert.Equal(t, custom, m.Logger())
}

func TestLeadMesh_EndToEnd(t *testing.T) {
	ident := identity.NewInMemoryService()
	tracker := tracking.NewInMemoryTracker()
	m := New(func(o *Options) {
		o.Identity = ident
		o.Tracker = tracker
		o.Logger = logging.NoOpLogger{}
	})
	ctx := context.Background()
	sessions := m.Sessions()

	// A visitor opens a chat and writes before sharing contact details.
	sessions.GetOrCreate("sess-1", core.LangEnglish)
	sessions.MarkDisclaimerShown("sess-1")
	s, err := sessions.AddMessage(ctx, "sess-1", "user", "I was in a car accident last month")
	require.NoError(t, err)
	assert.Empty(t, s.ConversationID)

	// Contact details arrive as free text.
	profile := session.ParseContactInfo("my name is Jane Doe and my email is jane@example.com", core.LangEnglish)
	records, err := sessions.SaveContactInfo(ctx, "sess-1", profile)
	require.NoError(t, err)
	require.NotEmpty(t, records)

	s, ok := sessions.Session("sess-1")
	require.True(t, ok)
	assert.True(t, s.ContactCollected)
	require.NotEmpty(t, s.ContactID)

	// The conversation continues and an appointment is booked.
	_, err = sessions.AddMessage(ctx, "sess-1", "user", "can we schedule a consultation?")
	require.NoError(t, err)
	appt, err := sessions.RequestAppointment(ctx, "sess-1", orchestrator.AppointmentRequest{
		Date: "2025-03-10", Time: "09:00", Type: "consultation",
	})
	require.NoError(t, err)
	require.NotEmpty(t, appt)

	s, _ = sessions.Session("sess-1")
	assert.True(t, s.MetaBool(core.MetaAppointmentBooked))

	// Ending the session produces a summary and removes it.
	summary, err := sessions.GenerateSummary(ctx, "sess-1")
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	assert.Equal(t, 0, sessions.Len())

	stored, found := ident.Contact(s.ContactID)
	require.True(t, found)
	assert.Equal(t, "Jane", stored.Profile.FirstName)

	assert.Eventually(t, func() bool {
		return tracker.Count("lead_created") >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestLeadMesh_TopicSelection(t *testing.T) {
	m := New(func(o *Options) {
		c := config.Default()
		c.Topics.Locations = []string{"El Paso"}
		o.Config = c
	})

	sel, err := m.Topics().Select(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, sel.Title)
	assert.NotContains(t, sel.Title, "{{")
}

func TestLeadMesh_StartSweeper(t *testing.T) {
	m := New(func(o *Options) {
		c := config.Default()
		c.Sessions.SweepInterval = 10 * time.Millisecond
		c.Sessions.MaxIdle = time.Nanosecond
		o.Config = c
		o.Logger = logging.NoOpLogger{}
	})
	m.Sessions().GetOrCreate("sess-1", core.LangEnglish)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.StartSweeper(ctx)

	assert.Eventually(t, func() bool {
		return m.Sessions().Len() == 0
	}, time.Second, 10*time.Millisecond, "idle session is swept and finalized")
}