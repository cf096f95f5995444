package export

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/budgetchat/chat-mirror/testutil"
)

func TestJSONLExporter_Export(t *testing.T) {
	conv := internal.CreateTestConversationWithMessages(5, []internal.Message{
		{ID: 1, Role: internal.RoleUser, Content: internal.Text("Hello")},
		{ID: 2, Role: internal.RoleAssistant, Content: internal.Text("Hi there")},
		{ID: 3, Role: internal.RoleUser, Content: internal.Blocks{internal.TextBlock{Text: "see"}, internal.ImageBlock{URL: "https://x/a.png"}}},
	})

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}

	var lines []map[string]interface{}
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var obj map[string]interface{}
		testutil.JSONUnmarshal(t, scanner.Bytes(), &obj)
		lines = append(lines, obj)
	}

	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if lines[0]["role"] != "user" || lines[0]["content"] != "Hello" {
		t.Errorf("first line = %v", lines[0])
	}
	if lines[1]["role"] != "assistant" {
		t.Errorf("second line role = %v, want assistant", lines[1]["role"])
	}
	if lines[0]["conversation_id"] != float64(5) {
		t.Errorf("conversation_id = %v, want 5", lines[0]["conversation_id"])
	}
	if _, ok := lines[0]["created_at"]; ok {
		t.Error("zero timestamps should be omitted")
	}
	blocks, ok := lines[2]["content"].([]interface{})
	if !ok || len(blocks) != 2 {
		t.Fatalf("block content = %v, want 2-element array", lines[2]["content"])
	}
}

func TestJSONLExporter_Timestamps(t *testing.T) {
	conv := internal.CreateTestConversation(1)

	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"created_at":"2024-01-01T12:00:01Z"`) {
		t.Errorf("output missing timestamp: %s", buf.String())
	}
}

func TestJSONLExporter_Empty(t *testing.T) {
	var buf bytes.Buffer
	conv := internal.CreateTestConversationWithMessages(1, []internal.Message{})
	if err := (&JSONLExporter{}).Export(conv, &buf); err != nil {
		t.Fatalf("JSONLExporter.Export() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty conversation should produce no output, got %q", buf.String())
	}
}

func TestJSONLExporter_Extension(t *testing.T) {
	exporter := &JSONLExporter{}
	if got := exporter.Extension(); got != "jsonl" {
		t.Errorf("JSONLExporter.Extension() = %v, want jsonl", got)
	}
}

func TestJSONLExporter_Export_NilConversation(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONLExporter{}).Export(nil, &buf); err == nil {
		t.Error("JSONLExporter.Export(nil) should return an error")
	}
}
