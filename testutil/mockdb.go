package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// LegacySchema mirrors the tables written by earlier releases, which let
// SQLite fill created_at with CURRENT_TIMESTAMP
const LegacySchema = `
CREATE TABLE IF NOT EXISTS conversations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	llm_provider TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id),
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// CreateInMemoryDB creates an in-memory SQLite database with the legacy schema
func CreateInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create in-memory database: %v", err)
	}
	// a second connection would open a different, empty database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(LegacySchema); err != nil {
		db.Close()
		t.Fatalf("Failed to create tables: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// InsertConversation inserts a conversation row and returns its id
func InsertConversation(t *testing.T, db *sql.DB, title, createdAt string) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO conversations (title, created_at, llm_provider) VALUES (?, ?, 'openai')",
		title, createdAt)
	if err != nil {
		t.Fatalf("Failed to insert conversation: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read conversation id: %v", err)
	}
	return id
}

// InsertMessage inserts a message row and returns its id
func InsertMessage(t *testing.T, db *sql.DB, conversationID int64, role, content, createdAt string) int64 {
	t.Helper()
	res, err := db.Exec(
		"INSERT INTO messages (conversation_id, role, content, created_at) VALUES (?, ?, ?, ?)",
		conversationID, role, content, createdAt)
	if err != nil {
		t.Fatalf("Failed to insert message: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("Failed to read message id: %v", err)
	}
	return id
}

// CountRows returns the number of rows in table
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}
