package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

// CreateLegacyDatabaseFixture writes a database file at dbPath holding one
// conversation whose messages mix plain-text and block-array bodies, the way
// rows from older and newer clients coexist
func CreateLegacyDatabaseFixture(t *testing.T, dbPath string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(LegacySchema); err != nil {
		t.Fatalf("Failed to create tables: %v", err)
	}

	convID := InsertConversation(t, db, "Legacy chat", "2024-03-01 09:00:00")
	InsertMessage(t, db, convID, "user", "What is the capital of France?", "2024-03-01 09:00:01")
	InsertMessage(t, db, convID, "assistant", "Paris.", "2024-03-01 09:00:02")
	InsertMessage(t, db, convID, "user",
		`[{"type":"text","text":"And this one?"},{"type":"image_url","image_url":{"url":"https://example.com/map.png"}}]`,
		"2024-03-01 09:00:03")
}

// CreateKeyFileFixture writes a credential file with owner-only permissions
func CreateKeyFileFixture(t *testing.T, path, value string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create key directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(value), 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}
}
