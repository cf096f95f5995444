package internal

import (
	"context"
	"sync"
	"time"
)

// FakeGateway is an in-memory Gateway for tests. Set the *Err fields to make
// the corresponding call fail.
type FakeGateway struct {
	mu            sync.Mutex
	nextConvID    int64
	nextMsgID     int64
	conversations []RawConversation
	credential    string
	calls         []string

	GetErr    error
	CreateErr error
	DeleteErr error
	AddErr    error
	ProbeErr  error
	SetErr    error

	// BeforeCreate, when set, runs inside CreateConversation before the
	// conversation is stored
	BeforeCreate func(title string)
}

// NewFakeGateway creates a fake gateway holding the given conversations
func NewFakeGateway(conversations ...RawConversation) *FakeGateway {
	g := &FakeGateway{nextConvID: 1, nextMsgID: 1}
	for _, c := range conversations {
		if c.ID >= g.nextConvID {
			g.nextConvID = c.ID + 1
		}
		for _, m := range c.Messages {
			if m.ID >= g.nextMsgID {
				g.nextMsgID = m.ID + 1
			}
		}
		g.conversations = append(g.conversations, c)
	}
	return g
}

// Calls returns the names of gateway calls made so far
func (g *FakeGateway) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

// Stored returns the conversations currently held by the fake backend
func (g *FakeGateway) Stored() []RawConversation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]RawConversation(nil), g.conversations...)
}

func (g *FakeGateway) GetConversations(_ context.Context) ([]RawConversation, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "get_conversations")
	if g.GetErr != nil {
		return nil, g.GetErr
	}
	out := make([]RawConversation, len(g.conversations))
	for i, c := range g.conversations {
		out[i] = c
		out[i].Messages = append([]RawMessage{}, c.Messages...)
	}
	return out, nil
}

func (g *FakeGateway) CreateConversation(_ context.Context, title string) (*RawConversation, error) {
	if g.BeforeCreate != nil {
		g.BeforeCreate(title)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "create_conversation")
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	conv := RawConversation{
		ID:          g.nextConvID,
		Title:       title,
		CreatedAt:   time.Now().UTC(),
		LLMProvider: DefaultProvider,
		Messages:    []RawMessage{},
	}
	g.nextConvID++
	g.conversations = append([]RawConversation{conv}, g.conversations...)
	return &conv, nil
}

func (g *FakeGateway) DeleteConversation(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "delete_conversation")
	if g.DeleteErr != nil {
		return g.DeleteErr
	}
	for i, c := range g.conversations {
		if c.ID == id {
			g.conversations = append(g.conversations[:i], g.conversations[i+1:]...)
			return nil
		}
	}
	return ErrConversationNotFound
}

func (g *FakeGateway) AddMessage(_ context.Context, conversationID int64, role Role, content string) (*RawMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "add_message")
	if g.AddErr != nil {
		return nil, g.AddErr
	}
	msg := RawMessage{
		ID:             g.nextMsgID,
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	g.nextMsgID++
	for i := range g.conversations {
		if g.conversations[i].ID == conversationID {
			g.conversations[i].Messages = append(g.conversations[i].Messages, msg)
		}
	}
	return &msg, nil
}

func (g *FakeGateway) ProbeCredential(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "probe_credential")
	if g.ProbeErr != nil {
		return g.ProbeErr
	}
	if g.credential == "" {
		return ErrCredentialNotFound
	}
	return nil
}

func (g *FakeGateway) SetCredential(_ context.Context, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, "set_credential")
	if g.SetErr != nil {
		return g.SetErr
	}
	g.credential = value
	return nil
}

// CreateTestRawConversation creates a raw conversation with the given
// messages
func CreateTestRawConversation(id int64, title string, messages ...RawMessage) RawConversation {
	for i := range messages {
		messages[i].ConversationID = id
	}
	if messages == nil {
		messages = []RawMessage{}
	}
	return RawConversation{
		ID:          id,
		Title:       title,
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LLMProvider: DefaultProvider,
		Messages:    messages,
	}
}

// CreateTestRawMessage creates a raw message row
func CreateTestRawMessage(id int64, role Role, content string) RawMessage {
	return RawMessage{
		ID:        id,
		Role:      role,
		Content:   content,
		CreatedAt: time.Date(2024, 1, 1, 12, 0, int(id), 0, time.UTC),
	}
}

// CreateTestConversation creates a decoded conversation for exporter tests
func CreateTestConversation(id int64) *Conversation {
	conv := NewNormalizer().NormalizeConversation(&RawConversation{
		ID:          id,
		Title:       "Test Conversation",
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LLMProvider: DefaultProvider,
		Messages: []RawMessage{
			{ID: 1, ConversationID: id, Role: RoleUser, Content: "Hello, how are you?", CreatedAt: time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC)},
			{ID: 2, ConversationID: id, Role: RoleAssistant, Content: "I'm doing well, thank you!", CreatedAt: time.Date(2024, 1, 1, 12, 0, 2, 0, time.UTC)},
		},
	})
	return &conv
}

// CreateTestConversationWithMessages creates a conversation holding the given messages
func CreateTestConversationWithMessages(id int64, messages []Message) *Conversation {
	return &Conversation{
		ID:          id,
		Title:       "Test Conversation",
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		LLMProvider: DefaultProvider,
		Messages:    messages,
	}
}
