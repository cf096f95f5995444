package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	limit int
	since string
)

var (
	// Styles for show command
	conversationHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	conversationMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				MarginBottom(1)

	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	imageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [conversation-id]",
	Short: "Show messages of a conversation",
	Long:  `Display the messages of a conversation. Without an id the newest conversation is shown.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int64
		if len(args) > 0 {
			var err error
			if id, err = parseConversationID(args[0]); err != nil {
				return err
			}
		}

		var sinceTime time.Time
		if since != "" {
			parsed, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return fmt.Errorf("invalid --since timestamp format (expected RFC3339): %w", err)
			}
			sinceTime = parsed
		}

		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		conv, err := selectConversation(app, id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		displayConversationHeader(out, &conv)

		messagesToShow := conv.Messages
		if !sinceTime.IsZero() {
			filtered := make([]internal.Message, 0, len(messagesToShow))
			for _, msg := range messagesToShow {
				if !msg.CreatedAt.Before(sinceTime) {
					filtered = append(filtered, msg)
				}
			}
			messagesToShow = filtered
		}

		totalFiltered := len(messagesToShow)
		if limit > 0 && limit < len(messagesToShow) {
			messagesToShow = messagesToShow[:limit]
		}

		for i, msg := range messagesToShow {
			displayMessage(out, i+1, msg, totalFiltered)
		}

		if limit > 0 && limit < totalFiltered {
			remaining := totalFiltered - limit
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true).
				Render(fmt.Sprintf("... (%d more message(s))", remaining)))
		}

		return nil
	},
}

func displayConversationHeader(out io.Writer, conv *internal.Conversation) {
	if conv == nil {
		return
	}
	header := conversationHeaderStyle.Render(fmt.Sprintf("💬 %s", conv.Title))
	_, _ = fmt.Fprintln(out, header)

	metaParts := []string{fmt.Sprintf("ID: %d", conv.ID)}
	if ts := internal.FormatTimestamp(conv.CreatedAt); ts != "" {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", ts))
	}
	metaParts = append(metaParts, fmt.Sprintf("Messages: %d", len(conv.Messages)))
	if conv.LLMProvider != "" {
		metaParts = append(metaParts, fmt.Sprintf("Provider: %s", conv.LLMProvider))
	}

	_, _ = fmt.Fprintln(out, conversationMetaStyle.Render(strings.Join(metaParts, " • ")))
	_, _ = fmt.Fprintln(out)
}

func displayMessage(out io.Writer, index int, msg internal.Message, total int) {
	var roleStyle lipgloss.Style
	var roleLabel string

	switch msg.Role {
	case internal.RoleUser:
		roleStyle = userMessageStyle
		roleLabel = "👤 User"
	case internal.RoleAssistant:
		roleStyle = assistantMessageStyle
		roleLabel = "🤖 Assistant"
	default:
		roleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		roleLabel = fmt.Sprintf("🔧 %s", msg.Role)
	}

	header := roleStyle.Render(roleLabel) + " " + timestampStyle.Render(fmt.Sprintf("[%d/%d]", index, total))
	if !msg.CreatedAt.IsZero() {
		header += " " + timestampStyle.Render(msg.CreatedAt.Local().Format("15:04:05"))
	}
	_, _ = fmt.Fprintln(out, header)

	content := renderMessageContent(msg.Content)
	if content != "" {
		_, _ = fmt.Fprintln(out, messageContentStyle.Render(content))
	} else {
		_, _ = fmt.Fprintln(out, messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}

	_, _ = fmt.Fprintln(out)
}

// renderMessageContent wraps text and lists image blocks by URL
func renderMessageContent(content internal.MessageContent) string {
	blocks, ok := content.(internal.Blocks)
	if !ok {
		return wrapText(strings.TrimSpace(internal.PlainText(content)), 80)
	}

	var parts []string
	for _, b := range blocks {
		switch block := b.(type) {
		case internal.TextBlock:
			if text := strings.TrimSpace(block.Text); text != "" {
				parts = append(parts, wrapText(text, 80))
			}
		case internal.ImageBlock:
			parts = append(parts, imageStyle.Render("🖼  "+block.URL))
		}
	}
	return strings.Join(parts, "\n")
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVarP(&limit, "limit", "n", 0, "Limit number of messages to show")
	showCmd.Flags().StringVar(&since, "since", "", "Show messages since timestamp (RFC3339)")
}
