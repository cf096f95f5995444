package internal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// timeLayout is the stored timestamp format. Fixed width so that text
// ordering matches chronological ordering.
const timeLayout = "2006-01-02 15:04:05.000000"

var legacyTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339Nano,
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS conversations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	created_at TEXT NOT NULL,
	llm_provider TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS messages (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id INTEGER NOT NULL REFERENCES conversations(id),
	role TEXT NOT NULL,
	content TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id);
`

// OpenDatabase opens (creating if needed) the SQLite database at path and
// applies the schema. ":memory:" opens a private in-memory database.
func OpenDatabase(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, &StorageError{Path: path, Op: "open", Err: err}
		}
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	if path == ":memory:" {
		// each connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "migrate", Err: err}
	}

	return db, nil
}

// OpenDatabaseReadOnly opens an existing SQLite file without creating or
// migrating anything
func OpenDatabaseReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &StorageError{Path: path, Op: "open", Err: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &StorageError{Path: path, Op: "open", Err: fmt.Errorf("database ping failed: %w", err)}
	}
	return db, nil
}

// Migrate creates the conversation and message tables if they are missing
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func formatDBTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseDBTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(timeLayout, s, time.UTC); err == nil {
		return t, nil
	}
	for _, layout := range legacyTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Source: "timestamp", Key: s, Err: fmt.Errorf("unrecognized time format")}
}
