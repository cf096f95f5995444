package export

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/budgetchat/chat-mirror/internal"
)

// JSONExporter exports conversations in JSON format (pretty-printed)
type JSONExporter struct{}

// Export exports a conversation to JSON format
func (e *JSONExporter) Export(conv *internal.Conversation, w io.Writer) error {
	if conv == nil {
		return errors.New("conversation is nil")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
