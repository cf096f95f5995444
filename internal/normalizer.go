package internal

import "time"

// Normalizer converts gateway rows into in-memory conversations
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// NormalizeConversation converts a RawConversation to a Conversation,
// decoding every message body
func (n *Normalizer) NormalizeConversation(raw *RawConversation) Conversation {
	messages := make([]Message, 0, len(raw.Messages))
	seen := make(map[int64]struct{}, len(raw.Messages))
	for _, msg := range raw.Messages {
		if _, dup := seen[msg.ID]; dup {
			LogWarn("Skipping duplicate message %d in conversation %d", msg.ID, raw.ID)
			continue
		}
		seen[msg.ID] = struct{}{}
		messages = append(messages, n.NormalizeMessage(msg))
	}

	return Conversation{
		ID:          raw.ID,
		Title:       raw.Title,
		CreatedAt:   raw.CreatedAt,
		LLMProvider: raw.LLMProvider,
		Messages:    messages,
	}
}

// NormalizeMessage converts a RawMessage to a Message
func (n *Normalizer) NormalizeMessage(raw RawMessage) Message {
	return Message{
		ID:             raw.ID,
		ConversationID: raw.ConversationID,
		Role:           raw.Role,
		Content:        DecodeContent(raw.Role, raw.Content),
		CreatedAt:      raw.CreatedAt,
	}
}

// NormalizeAllConversations normalizes a gateway listing, keeping the
// first occurrence of any repeated conversation id
func (n *Normalizer) NormalizeAllConversations(raws []RawConversation) []Conversation {
	conversations := make([]Conversation, 0, len(raws))
	seen := make(map[int64]struct{}, len(raws))

	for i := range raws {
		if _, dup := seen[raws[i].ID]; dup {
			LogWarn("Skipping duplicate conversation %d", raws[i].ID)
			continue
		}
		seen[raws[i].ID] = struct{}{}
		conversations = append(conversations, n.NormalizeConversation(&raws[i]))
	}

	return conversations
}

// FormatTimestamp formats a time for display and export
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
