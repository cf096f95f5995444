package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/budgetchat/chat-mirror/internal"
)

func TestListCommand(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "list")
	if !strings.Contains(out, "No conversations found") {
		t.Errorf("empty list output = %q", out)
	}

	env.mustRun(t, "new")
	env.mustRun(t, "new")

	out = env.mustRun(t, "list")
	for _, want := range []string{"Found 2 conversation(s)", "New Chat", "New Chat 1", "openai"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output should contain %q, got:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "New Chat") {
			if !strings.Contains(line, "New Chat 1") {
				t.Errorf("newest conversation should be listed first, got row %q", line)
			}
			break
		}
	}
}

func TestDisplayConversations(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name          string
		conversations []internal.Conversation
		want          []string
	}{
		{
			name:          "empty",
			conversations: nil,
			want:          []string{"No conversations found"},
		},
		{
			name: "long title truncated",
			conversations: []internal.Conversation{
				{ID: 3, Title: strings.Repeat("x", 60), LLMProvider: "openai", CreatedAt: now.Add(-time.Hour)},
			},
			want: []string{strings.Repeat("x", 47) + "...", "show <id>"},
		},
		{
			name: "missing provider",
			conversations: []internal.Conversation{
				{ID: 1, Title: "Old", CreatedAt: now.AddDate(-2, 0, 0)},
			},
			want: []string{"Old", "—", now.AddDate(-2, 0, 0).Format("2006-01-02")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			displayConversations(&buf, tt.conversations, now)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, "—"},
		{"same day", now.Add(-2 * time.Hour), "Today 10:00"},
		{"this week", now.Add(-3 * 24 * time.Hour), "Fri 12:00"},
		{"this year", now.AddDate(0, -2, 0), "Apr 10 12:00"},
		{"older", now.AddDate(-2, 0, 0), "2022-06-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatRelative(tt.t, now); got != tt.want {
				t.Errorf("formatRelative() = %q, want %q", got, tt.want)
			}
		})
	}
}
