package cmd

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/budgetchat/chat-mirror/internal"
	"github.com/budgetchat/chat-mirror/testutil"
)

func TestInspectCommand_LegacyDatabase(t *testing.T) {
	env := newCLIEnv(t)
	legacy := filepath.Join(t.TempDir(), "legacy.sqlite")
	testutil.CreateLegacyDatabaseFixture(t, legacy)

	out := env.mustRun(t, "inspect", legacy)
	for _, want := range []string{
		"Found 2 table(s)",
		"Table: conversations",
		"Table: messages",
		"Rows: 3",
		"content (blocks: 1 text, 1 image)",
		"content (text): Paris.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestInspectCommand_LeavesForeignDatabaseUntouched(t *testing.T) {
	env := newCLIEnv(t)
	path := filepath.Join(t.TempDir(), "notes.sqlite")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	_ = db.Close()

	out := env.mustRun(t, "inspect", path)
	if !strings.Contains(out, "Found 1 table(s)") {
		t.Errorf("inspect should report only the notes table, got:\n%s", out)
	}

	ro, err := internal.OpenDatabaseReadOnly(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer ro.Close()
	var objects int
	if err := ro.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name IN ('conversations', 'messages', 'idx_messages_conversation')").Scan(&objects); err != nil {
		t.Fatalf("query sqlite_master: %v", err)
	}
	if objects != 0 {
		t.Errorf("inspect created %d schema object(s) in the inspected file", objects)
	}
}

func TestInspectCommand_MissingDatabase(t *testing.T) {
	env := newCLIEnv(t)
	if _, err := env.run(t, "inspect", filepath.Join(t.TempDir(), "missing.sqlite")); err == nil {
		t.Error("inspect of a missing database should fail")
	}
}

func TestDescribeContent(t *testing.T) {
	tests := []struct {
		role internal.Role
		raw  string
		want string
	}{
		{internal.RoleUser, "hello", "text"},
		{internal.RoleUser, `[{"type":"text","text":"a"},{"type":"image_url","image_url":{"url":"u"}}]`, "blocks: 1 text, 1 image"},
		{internal.RoleAssistant, `[{"type":"text","text":"a"}]`, "text"},
		{internal.RoleUser, `[{"type":"audio"}]`, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := describeContent(tt.role, tt.raw); got != tt.want {
				t.Errorf("describeContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateValue(t *testing.T) {
	if got := truncateValue(strings.Repeat("a", 250)); len(got) != 203 {
		t.Errorf("truncateValue() length = %d, want 203", len(got))
	}
	if got := truncateValue("first\nsecond"); got != "first..." {
		t.Errorf("truncateValue() = %q, want first...", got)
	}
}
