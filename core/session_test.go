package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSession_Defaults(t *testing.T) {
	s := NewSession("sess-1", LangSpanish)

	assert.Equal(t, "sess-1", s.ID)
	assert.Equal(t, LangSpanish, s.Language)
	assert.Empty(t, s.Messages)
	assert.False(t, s.DisclaimerShown)
	assert.False(t, s.ContactCollected)
	assert.WithinDuration(t, time.Now(), s.StartedAt, time.Second)
}

func TestNewSession_InvalidLanguageFallsBack(t *testing.T) {
	s := NewSession("sess-1", Language("fr"))
	assert.Equal(t, LangEnglish, s.Language)
}

func TestSession_AddMessage_AppendOnly(t *testing.T) {
	s := NewSession("sess-1", LangEnglish)

	for _, text := range []string{"first", "second", "third"} {
		before := s.MessageCount()
		s.AddMessage("user", text)
		require.Equal(t, before+1, s.MessageCount())
		log := s.MessageLog()
		assert.Equal(t, text, log[len(log)-1].Text, "new entry must be last")
	}

	log := s.MessageLog()
	assert.Equal(t, []string{"first", "second", "third"}, []string{log[0].Text, log[1].Text, log[2].Text})
}

func TestSession_AddMessage_RefreshesActivity(t *testing.T) {
	s := NewSession("sess-1", LangEnglish)
	s.LastActivity = time.Now().Add(-time.Hour)

	s.AddMessage("user", "hello")

	assert.WithinDuration(t, time.Now(), s.LastActivity, time.Second)
}

func TestSession_CountByRole(t *testing.T) {
	s := NewSession("sess-1", LangEnglish)
	s.AddMessage("user", "hi")
	s.AddMessage("assistant", "hello")
	s.AddMessage("user", "bye")

	assert.Equal(t, 2, s.CountByRole("user"))
	assert.Equal(t, 1, s.CountByRole("assistant"))
	assert.Equal(t, 0, s.CountByRole("system"))
}

func TestSession_Clone_Independence(t *testing.T) {
	s := NewSession("sess-1", LangEnglish)
	s.AddMessage("user", "hi")
	s.Metadata["key"] = "value"

	clone := s.Clone()
	clone.AddMessage("user", "clone only")
	clone.Metadata["key"] = "changed"

	assert.Equal(t, 1, s.MessageCount())
	assert.Equal(t, "value", s.Metadata["key"])
	assert.Equal(t, 2, clone.MessageCount())
}

func TestSession_AttachExternalIDs_KeepsExistingOnEmpty(t *testing.T) {
	s := NewSession("sess-1", LangEnglish)
	s.AttachExternalIDs("contact-1", "conv-1")
	s.AttachExternalIDs("", "")

	assert.Equal(t, "contact-1", s.ContactID)
	assert.Equal(t, "conv-1", s.ConversationID)
}

func TestSession_IdleSince(t *testing.T) {
	s := NewSession("sess-1", LangEnglish)
	s.LastActivity = time.Now().Add(-10 * time.Minute)

	assert.True(t, s.IdleSince(time.Now().Add(-5*time.Minute)))
	assert.False(t, s.IdleSince(time.Now().Add(-15*time.Minute)))
}

func TestContactProfile_Merge(t *testing.T) {
	base := ContactProfile{FirstName: "Jane", Email: "jane@x.com"}
	merged := base.Merge(ContactProfile{LastName: "Doe", Email: "jane+new@x.com"})

	assert.Equal(t, "Jane", merged.FirstName)
	assert.Equal(t, "Doe", merged.LastName)
	assert.Equal(t, "jane+new@x.com", merged.Email)
	// Original is untouched.
	assert.Empty(t, base.LastName)
}
