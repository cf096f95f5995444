package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/budgetchat/chat-mirror/internal"
)

// MarkdownExporter exports conversations in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conv *internal.Conversation, w io.Writer) error {
	if conv == nil {
		return errors.New("conversation is nil")
	}

	_, _ = fmt.Fprintf(w, "# %s\n\n", conv.Title)

	_, _ = fmt.Fprintf(w, "**ID:** %d  \n", conv.ID)
	if conv.LLMProvider != "" {
		_, _ = fmt.Fprintf(w, "**Provider:** %s  \n", conv.LLMProvider)
	}
	if ts := internal.FormatTimestamp(conv.CreatedAt); ts != "" {
		_, _ = fmt.Fprintf(w, "**Created:** %s  \n", ts)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(conv.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")
	_, _ = fmt.Fprintf(w, "## Messages\n\n")

	for i, msg := range conv.Messages {
		timestamp := ""
		if ts := internal.FormatTimestamp(msg.CreatedAt); ts != "" {
			timestamp = fmt.Sprintf(" (%s)", ts)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, renderContent(msg.Content))

		if i < len(conv.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// renderContent renders text as-is (escaped) and image blocks as image links
func renderContent(content internal.MessageContent) string {
	blocks, ok := content.(internal.Blocks)
	if !ok {
		return escapeMarkdown(internal.PlainText(content))
	}

	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case internal.TextBlock:
			parts = append(parts, escapeMarkdown(v.Text))
		case internal.ImageBlock:
			parts = append(parts, fmt.Sprintf("![image](%s)", v.URL))
		}
	}
	return strings.Join(parts, "\n\n")
}

// escapeMarkdown escapes markdown emphasis outside fenced code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
