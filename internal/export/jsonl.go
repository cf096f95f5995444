package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/budgetchat/chat-mirror/internal"
)

// JSONLExporter exports conversations in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a conversation to JSONL format. Content keeps its stored
// shape: a string for text, an array for blocks.
func (e *JSONLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	if conv == nil {
		return errors.New("conversation is nil")
	}
	enc := json.NewEncoder(w)

	for _, msg := range conv.Messages {
		obj := map[string]interface{}{
			"conversation_id": conv.ID,
			"id":              msg.ID,
			"role":            msg.Role,
			"content":         msg.Content,
		}

		if ts := internal.FormatTimestamp(msg.CreatedAt); ts != "" {
			obj["created_at"] = ts
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", msg.ID, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
