package internal

import (
	"fmt"
	"time"
)

// Role identifies who authored a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole converts a stored role string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant, RoleSystem:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

// Conversation is the in-memory form of a stored conversation
type Conversation struct {
	ID          int64     `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	LLMProvider string    `json:"llm_provider" yaml:"llm_provider"`
	Messages    []Message `json:"messages" yaml:"messages"`
}

// Message is a single decoded message. Content is never nil for messages
// produced by the store.
type Message struct {
	ID             int64          `json:"id" yaml:"id"`
	ConversationID int64          `json:"conversation_id" yaml:"conversation_id"`
	Role           Role           `json:"role" yaml:"role"`
	Content        MessageContent `json:"content" yaml:"content"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
}

// Clone returns a copy of the conversation that shares no slices with c
func (c Conversation) Clone() Conversation {
	out := c
	out.Messages = make([]Message, len(c.Messages))
	for i, msg := range c.Messages {
		out.Messages[i] = msg.Clone()
	}
	return out
}

// Clone returns a copy of the message with its block sequence copied
func (m Message) Clone() Message {
	out := m
	if blocks, ok := m.Content.(Blocks); ok {
		out.Content = append(Blocks{}, blocks...)
	}
	return out
}

// hasMessage reports whether a message with the given id is already present
func (c *Conversation) hasMessage(id int64) bool {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return true
		}
	}
	return false
}

// RawConversation is a conversation as returned by the gateway, with
// message bodies still in their storage string form
type RawConversation struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	CreatedAt   time.Time    `json:"created_at"`
	LLMProvider string       `json:"llm_provider"`
	Messages    []RawMessage `json:"messages"`
}

// RawMessage is a stored message row
type RawMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}
