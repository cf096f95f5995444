package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportCommand(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "new")
	env.mustRun(t, "send", "hello")
	env.mustRun(t, "new")

	tests := []struct {
		name      string
		format    string
		wantFiles []string
	}{
		{"jsonl", "jsonl", []string{"conversation_1.jsonl", "conversation_2.jsonl"}},
		{"markdown", "md", []string{"conversation_1.md", "conversation_2.md"}},
		{"yaml", "yaml", []string{"conversation_1.yaml", "conversation_2.yaml"}},
		{"json", "json", []string{"conversation_1.json", "conversation_2.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outDir := filepath.Join(t.TempDir(), "exports")
			out := env.mustRun(t, "export", "--format", tt.format, "--out", outDir)
			if !strings.Contains(out, "2 conversation(s) exported") {
				t.Errorf("export output = %q", out)
			}
			for _, name := range tt.wantFiles {
				if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
					t.Errorf("expected export file %s: %v", name, err)
				}
			}
		})
	}
}

func TestExportCommand_SingleConversation(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "new")
	env.mustRun(t, "send", "hello", "--id", "1")
	env.mustRun(t, "new")

	outDir := t.TempDir()
	env.mustRun(t, "export", "--format", "json", "--out", outDir, "--id", "1")

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("exported %d files, want 1", len(entries))
	}

	data, err := os.ReadFile(filepath.Join(outDir, "conversation_1.json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Title    string `json:"title"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if decoded.Title != "New Chat" || len(decoded.Messages) != 1 || decoded.Messages[0].Content != "hello" {
		t.Errorf("exported conversation = %+v", decoded)
	}
}

func TestExportCommand_Errors(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "new")

	tests := []struct {
		name string
		args []string
	}{
		{"invalid format", []string{"export", "--format", "invalid"}},
		{"unknown conversation", []string{"export", "--id", "42", "--out", t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.run(t, tt.args...); err == nil {
				t.Errorf("%v should fail", tt.args)
			}
		})
	}
}

func TestExportCommand_ReportsFailedConversation(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "new")

	outDir := t.TempDir()
	// a directory in the way makes the export file impossible to create
	if err := os.Mkdir(filepath.Join(outDir, "conversation_1.jsonl"), 0755); err != nil {
		t.Fatal(err)
	}

	out, err := env.run(t, "export", "--out", outDir)
	if err == nil {
		t.Fatal("export should fail when a conversation cannot be written")
	}
	if !strings.Contains(out, "ERROR: Failed to export conversation 1") {
		t.Errorf("export should report the failed conversation, got:\n%s", out)
	}
}
