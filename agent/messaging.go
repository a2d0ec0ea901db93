package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/leadmesh/leadmesh/core"
)

// summaryTopics maps a topic label to the keywords that signal it. Summarize
// scans the message log against this fixed dictionary; it never calls an
// external summarization service.
var summaryTopics = map[string][]string{
	"appointment":      {"appointment", "schedule", "meeting", "consultation", "cita", "reunión"},
	"immigration":      {"immigration", "visa", "green card", "citizenship", "inmigración", "ciudadanía"},
	"personal_injury":  {"accident", "injury", "injured", "crash", "accidente", "lesión"},
	"family_law":       {"divorce", "custody", "child support", "divorcio", "custodia"},
	"criminal_defense": {"arrest", "arrested", "charges", "dui", "arresto", "cargos"},
	"billing":          {"price", "cost", "fee", "payment", "precio", "costo", "pago"},
}

// ConversationSummary is the pure summarization output: a rendered text plus
// the structured fields it was built from.
type ConversationSummary struct {
	Text              string        `json:"text"`
	Topics            []string      `json:"topics"`
	Duration          time.Duration `json:"duration"`
	UserMessages      int           `json:"user_messages"`
	AssistantMessages int           `json:"assistant_messages"`
}

var _ core.Agent = (*MessagingAgent)(nil)

// MessagingAgent bridges sessions to the external conversation service. It
// keeps a local map from session id to the external conversation identifier
// and lazily creates a conversation on the first send for a session.
type MessagingAgent struct {
	BaseAgent
	messenger core.MessengerService

	mu            sync.Mutex
	conversations map[string]string // sessionID -> conversationID
}

// NewMessagingAgent creates a MessagingAgent backed by the given messenger.
func NewMessagingAgent(messenger core.MessengerService) *MessagingAgent {
	return &MessagingAgent{
		BaseAgent: NewBaseAgent(
			"messaging",
			"Manages external conversations: create, send, close and summarize",
			"message", "conversation", "chat", "summary",
		),
		messenger:     messenger,
		conversations: make(map[string]string),
	}
}

// EnsureConversation returns the conversation id mapped to the context's
// session, creating one through the messenger when none exists yet.
func (a *MessagingAgent) EnsureConversation(ctx context.Context, wctx *core.Context) core.Result {
	return a.run("ensure_conversation", func() (core.Result, error) {
		id, err := a.ensure(ctx, wctx)
		if err != nil {
			return core.Result{}, err
		}
		return core.Ok(map[string]any{"conversation_id": id}), nil
	})
}

// SendRequest carries one message to deliver, preserving the author role.
type SendRequest struct {
	Role string
	Text string
}

// Send delivers a message into the session's conversation, lazily creating
// the conversation on the first message.
func (a *MessagingAgent) Send(ctx context.Context, wctx *core.Context, req SendRequest) core.Result {
	return a.run("send", func() (core.Result, error) {
		if req.Text == "" {
			return core.Result{}, errors.New("messaging: message text is required")
		}
		role := req.Role
		if role == "" {
			role = "user"
		}
		convID, err := a.ensure(ctx, wctx)
		if err != nil {
			return core.Result{}, err
		}
		msgID, err := a.messenger.SendMessage(ctx, convID, role, req.Text)
		if err != nil {
			return core.Result{}, fmt.Errorf("sending message: %w", err)
		}
		return core.Ok(map[string]any{"conversation_id": convID, "message_id": msgID, "role": role}), nil
	})
}

// EndRequest carries the closing summary for a conversation.
type EndRequest struct {
	Summary string
}

// End logs the summary as a final system message and closes the conversation.
// Ending a session that never opened a conversation succeeds with no external
// call.
func (a *MessagingAgent) End(ctx context.Context, wctx *core.Context, req EndRequest) core.Result {
	return a.run("end", func() (core.Result, error) {
		a.mu.Lock()
		convID, ok := a.conversations[wctx.SessionID]
		a.mu.Unlock()
		if !ok {
			if convID = wctx.MetaString(core.MetaConversationID); convID == "" {
				return core.Ok(map[string]any{"closed": false}), nil
			}
		}
		if req.Summary != "" {
			if _, err := a.messenger.SendMessage(ctx, convID, "system", "Conversation summary: "+req.Summary); err != nil {
				return core.Result{}, fmt.Errorf("logging summary: %w", err)
			}
		}
		if err := a.messenger.CloseConversation(ctx, convID); err != nil {
			return core.Result{}, fmt.Errorf("closing conversation: %w", err)
		}
		// Drop the mapping only once the conversation is actually closed, so
		// a failed close can be retried against the same conversation.
		a.mu.Lock()
		delete(a.conversations, wctx.SessionID)
		a.mu.Unlock()
		return core.Ok(map[string]any{"closed": true, "conversation_id": convID}), nil
	})
}

// Summarize builds a summary purely from the supplied message list: topics by
// keyword matching, duration from the first and last timestamps, and per-role
// message counts. It is deterministic and performs no external calls.
func (a *MessagingAgent) Summarize(messages []core.Message) ConversationSummary {
	s := ConversationSummary{Topics: []string{}}
	joined := ""
	for _, m := range messages {
		switch m.Role {
		case "assistant", "system":
			if m.Role == "assistant" {
				s.AssistantMessages++
			}
		default:
			s.UserMessages++
		}
		joined += " " + strings.ToLower(m.Text)
	}
	if len(messages) > 1 {
		s.Duration = messages[len(messages)-1].Timestamp.Sub(messages[0].Timestamp)
	}
	for topic, keywords := range summaryTopics {
		for _, kw := range keywords {
			if strings.Contains(joined, kw) {
				s.Topics = append(s.Topics, topic)
				break
			}
		}
	}
	sort.Strings(s.Topics)

	topics := "general inquiry"
	if len(s.Topics) > 0 {
		topics = strings.Join(s.Topics, ", ")
	}
	s.Text = fmt.Sprintf(
		"Conversation lasted %s with %d user and %d assistant messages. Topics discussed: %s.",
		s.Duration.Round(time.Second), s.UserMessages, s.AssistantMessages, topics,
	)
	return s
}

// ConversationID returns the conversation mapped to a session, if any.
func (a *MessagingAgent) ConversationID(sessionID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, ok := a.conversations[sessionID]
	return id, ok
}

// ensure resolves or creates the session's conversation id and records it in
// both the local map and the workflow context metadata.
func (a *MessagingAgent) ensure(ctx context.Context, wctx *core.Context) (string, error) {
	a.mu.Lock()
	if id, ok := a.conversations[wctx.SessionID]; ok {
		a.mu.Unlock()
		wctx.SetMeta(core.MetaConversationID, id)
		return id, nil
	}
	a.mu.Unlock()

	id, err := a.messenger.CreateConversation(ctx, wctx.SessionID, wctx.MetaString(core.MetaContactID))
	if err != nil {
		return "", fmt.Errorf("creating conversation: %w", err)
	}

	a.mu.Lock()
	// Another workflow may have won the create race for this session.
	if existing, ok := a.conversations[wctx.SessionID]; ok {
		a.mu.Unlock()
		wctx.SetMeta(core.MetaConversationID, existing)
		return existing, nil
	}
	a.conversations[wctx.SessionID] = id
	a.mu.Unlock()

	wctx.SetMeta(core.MetaConversationID, id)
	return id, nil
}
