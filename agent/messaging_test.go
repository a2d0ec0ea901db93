package agent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadmesh/leadmesh/core"
	"github.com/leadmesh/leadmesh/messenger"
)

func TestMessagingAgent_SendLazilyCreatesConversation(t *testing.T) {
	svc := messenger.NewInMemoryService()
	a := NewMessagingAgent(svc)
	wctx := core.NewContext("sess-1", core.LangEnglish)

	_, ok := a.ConversationID("sess-1")
	require.False(t, ok, "no conversation before the first send")

	res := a.Send(context.Background(), wctx, SendRequest{Text: "hello"})
	require.True(t, res.Success, res.Error)
	convID := res.String("conversation_id")
	require.NotEmpty(t, convID)
	assert.Equal(t, "user", res.String("role"))
	assert.Equal(t, convID, wctx.MetaString(core.MetaConversationID))

	// Second send reuses the same conversation.
	res = a.Send(context.Background(), wctx, SendRequest{Role: "assistant", Text: "hi there"})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, convID, res.String("conversation_id"))

	conv, found := svc.Conversation(convID)
	require.True(t, found)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "user", conv.Messages[0].Role)
	assert.Equal(t, "assistant", conv.Messages[1].Role)
}

func TestMessagingAgent_SendRequiresText(t *testing.T) {
	a := NewMessagingAgent(messenger.NewInMemoryService())
	wctx := core.NewContext("sess-1", core.LangEnglish)

	res := a.Send(context.Background(), wctx, SendRequest{})
	assert.False(t, res.Success)
}

func TestMessagingAgent_EndClosesAndLogsSummary(t *testing.T) {
	svc := messenger.NewInMemoryService()
	a := NewMessagingAgent(svc)
	wctx := core.NewContext("sess-1", core.LangEnglish)

	send := a.Send(context.Background(), wctx, SendRequest{Text: "hello"})
	require.True(t, send.Success)
	convID := send.String("conversation_id")

	res := a.End(context.Background(), wctx, EndRequest{Summary: "short chat"})
	require.True(t, res.Success, res.Error)
	assert.True(t, res.Bool("closed"))

	conv, found := svc.Conversation(convID)
	require.True(t, found)
	assert.True(t, conv.Closed)
	last := conv.Messages[len(conv.Messages)-1]
	assert.Equal(t, "system", last.Role)
	assert.Equal(t, "Conversation summary: short chat", last.Text)

	_, ok := a.ConversationID("sess-1")
	assert.False(t, ok, "mapping is dropped on end")
}

// flakyCloser fails the first CloseConversation call and succeeds afterwards.
type flakyCloser struct {
	*messenger.InMemoryService
	closeCalls int
}

func (s *flakyCloser) CloseConversation(ctx context.Context, conversationID string) error {
	s.closeCalls++
	if s.closeCalls == 1 {
		return errors.New("messenger unavailable")
	}
	return s.InMemoryService.CloseConversation(ctx, conversationID)
}

func TestMessagingAgent_EndKeepsMappingOnCloseFailure(t *testing.T) {
	svc := &flakyCloser{InMemoryService: messenger.NewInMemoryService()}
	a := NewMessagingAgent(svc)
	wctx := core.NewContext("sess-1", core.LangEnglish)

	send := a.Send(context.Background(), wctx, SendRequest{Text: "hello"})
	require.True(t, send.Success)
	convID := send.String("conversation_id")

	res := a.End(context.Background(), wctx, EndRequest{})
	require.False(t, res.Success)

	// The mapping survives a failed close so a retry targets the same
	// conversation instead of opening a duplicate.
	got, ok := a.ConversationID("sess-1")
	require.True(t, ok)
	assert.Equal(t, convID, got)

	res = a.End(context.Background(), wctx, EndRequest{})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, convID, res.String("conversation_id"))

	conv, found := svc.Conversation(convID)
	require.True(t, found)
	assert.True(t, conv.Closed)
	_, ok = a.ConversationID("sess-1")
	assert.False(t, ok)
}

func TestMessagingAgent_EndWithoutConversation(t *testing.T) {
	a := NewMessagingAgent(messenger.NewInMemoryService())
	wctx := core.NewContext("sess-1", core.LangEnglish)

	res := a.End(context.Background(), wctx, EndRequest{Summary: "nothing happened"})
	require.True(t, res.Success, res.Error)
	assert.False(t, res.Bool("closed"))
}

func TestMessagingAgent_Summarize(t *testing.T) {
	a := NewMessagingAgent(messenger.NewInMemoryService())
	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	msgs := []core.Message{
		{Role: "user", Text: "I was in a car accident last week", Timestamp: base},
		{Role: "assistant", Text: "I am sorry to hear that. Can you tell me more?", Timestamp: base.Add(30 * time.Second)},
		{Role: "user", Text: "Yes, and I want to schedule a consultation", Timestamp: base.Add(70 * time.Second)},
		{Role: "user", Text: "How much does it cost?", Timestamp: base.Add(2 * time.Minute)},
	}

	s := a.Summarize(msgs)
	assert.Equal(t, 3, s.UserMessages)
	assert.Equal(t, 1, s.AssistantMessages)
	assert.Equal(t, 2*time.Minute, s.Duration)
	assert.Equal(t, []string{"appointment", "billing", "personal_injury"}, s.Topics)
	assert.Equal(t, "Conversation lasted 2m0s with 3 user and 1 assistant messages. Topics discussed: appointment, billing, personal_injury.", s.Text)
}

func TestMessagingAgent_SummarizeEmpty(t *testing.T) {
	a := NewMessagingAgent(messenger.NewInMemoryService())

	s := a.Summarize(nil)
	assert.Zero(t, s.UserMessages)
	assert.Zero(t, s.AssistantMessages)
	assert.Empty(t, s.Topics)
	assert.Contains(t, s.Text, "general inquiry")
}

func TestMessagingAgent_SummarizeSpanishKeywords(t *testing.T) {
	a := NewMessagingAgent(messenger.NewInMemoryService())

	s := a.Summarize([]core.Message{
		{Role: "user", Text: "Quiero una cita sobre mi divorcio"},
	})
	assert.Equal(t, []string{"appointment", "family_law"}, s.Topics)
}
