package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/budgetchat/chat-mirror/internal"
)

func TestMarkdownExporter_Export(t *testing.T) {
	tests := []struct {
		name    string
		conv    *internal.Conversation
		want    []string
		notWant []string
		wantErr bool
	}{
		{
			name: "basic conversation",
			conv: internal.CreateTestConversation(1),
			want: []string{
				"# Test Conversation",
				"**ID:** 1",
				"**Provider:** openai",
				"**Messages:** 2",
				"**user:** (2024-01-01T12:00:01Z)",
				"Hello, how are you?",
				"**assistant:**",
			},
		},
		{
			name: "image blocks become links",
			conv: internal.CreateTestConversationWithMessages(2, []internal.Message{
				{ID: 1, Role: internal.RoleUser, Content: internal.Blocks{
					internal.TextBlock{Text: "what is **this**"},
					internal.ImageBlock{URL: "https://x/a.png"},
				}},
			}),
			want:    []string{"![image](https://x/a.png)", "what is \\*\\*this\\*\\*"},
			notWant: []string{"---\n\n**user"},
		},
		{
			name:    "nil conversation",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := (&MarkdownExporter{}).Export(tt.conv, &buf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MarkdownExporter.Export() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			output := buf.String()
			for _, wantStr := range tt.want {
				if !strings.Contains(output, wantStr) {
					t.Errorf("Output should contain %q, got:\n%s", wantStr, output)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(output, notWantStr) {
					t.Errorf("Output should not contain %q, got:\n%s", notWantStr, output)
				}
			}
		})
	}
}

func TestMarkdownExporter_Extension(t *testing.T) {
	exporter := &MarkdownExporter{}
	if got := exporter.Extension(); got != "md" {
		t.Errorf("MarkdownExporter.Extension() = %v, want md", got)
	}
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		notWant []string
	}{
		{
			name:  "basic text",
			input: "Hello world",
			want:  []string{"Hello world"},
		},
		{
			name:    "markdown bold",
			input:   "This is **bold** text",
			want:    []string{"\\*\\*bold\\*\\*"},
			notWant: []string{"**bold**"},
		},
		{
			name:    "markdown underline",
			input:   "This is __underlined__ text",
			want:    []string{"\\_\\_underlined\\_\\_"},
			notWant: []string{"__underlined__"},
		},
		{
			name:  "code block preserved",
			input: "```go\npackage main\n```",
			want:  []string{"```go", "package main", "```"},
		},
		{
			name:    "mixed content",
			input:   "Regular text **bold** and ```code```",
			want:    []string{"\\*\\*bold\\*\\*", "```code```"},
			notWant: []string{"**bold**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := escapeMarkdown(tt.input)
			for _, wantStr := range tt.want {
				if !strings.Contains(got, wantStr) {
					t.Errorf("escapeMarkdown() should contain %q, got: %s", wantStr, got)
				}
			}
			for _, notWantStr := range tt.notWant {
				if strings.Contains(got, notWantStr) {
					t.Errorf("escapeMarkdown() should not contain %q, got: %s", notWantStr, got)
				}
			}
		})
	}
}


