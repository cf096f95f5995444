package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	providerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List conversations",
	Long:  `List all stored conversations, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer func() { _ = app.Close() }()

		displayConversations(cmd.OutOrStdout(), app.Store.Conversations(), time.Now())
		return nil
	},
}

func displayConversations(out io.Writer, conversations []internal.Conversation, now time.Time) {
	if len(conversations) == 0 {
		_, _ = fmt.Fprintln(out, headerStyle.Render("📋 No conversations found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d conversation(s)", len(conversations)))
	_, _ = fmt.Fprintln(out, header)
	_, _ = fmt.Fprintln(out)

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Title")+"\t"+titleStyle.Render("Messages")+"\t"+titleStyle.Render("Created")+"\t"+titleStyle.Render("Provider")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 90))

	for _, conv := range conversations {
		title := conv.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
		title = nameStyle.Render(title)

		msgCount := countStyle.Render(strconv.Itoa(len(conv.Messages)))
		created := dateStyle.Render(formatRelative(conv.CreatedAt, now))

		provider := conv.LLMProvider
		if provider == "" {
			provider = "—"
		}

		id := idStyle.Render(strconv.FormatInt(conv.ID, 10))
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n", id, title, msgCount, created, providerStyle.Render(provider))
	}

	_ = w.Flush()
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(strconv.FormatInt(conversations[0].ID, 10))+
		idStyle.Render(") with `chat-mirror show <id>`"))
}

// formatRelative renders recent times compactly and older ones as dates
func formatRelative(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
