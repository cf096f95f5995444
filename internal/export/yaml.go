package export

import (
	"errors"
	"io"

	"github.com/budgetchat/chat-mirror/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports conversations in YAML format
type YAMLExporter struct{}

// Export exports a conversation to YAML format
func (e *YAMLExporter) Export(conv *internal.Conversation, w io.Writer) error {
	if conv == nil {
		return errors.New("conversation is nil")
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	return enc.Encode(conv)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
