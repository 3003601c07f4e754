package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

const recordsSchema = `
CREATE TABLE IF NOT EXISTS records (
	id         TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	ts         INTEGER NOT NULL,
	role       TEXT NOT NULL,
	kind       TEXT NOT NULL,
	text       TEXT NOT NULL,
	detail     TEXT
);
CREATE INDEX IF NOT EXISTS idx_records_session_ts ON records(session_id, ts);
CREATE INDEX IF NOT EXISTS idx_records_ts ON records(ts);
`

// CreateRecordDB creates an empty record database file and returns its path
func CreateRecordDB(t *testing.T) string {
	t.Helper()
	path := TempDBPath(t)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.Exec(recordsSchema); err != nil {
		t.Fatalf("Failed to create records schema: %v", err)
	}
	return path
}

// InsertRecord inserts one raw row into the records table
func InsertRecord(t *testing.T, path, id, sessionID string, ts int64, role, kind, text, detail string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	var detailVal interface{}
	if detail != "" {
		detailVal = detail
	}
	if _, err := db.Exec(
		"INSERT INTO records (id, session_id, ts, role, kind, text, detail) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, sessionID, ts, role, kind, text, detailVal); err != nil {
		t.Fatalf("Failed to insert record: %v", err)
	}
}

// CreateSeededDB creates a database with sample records across two sessions
func CreateSeededDB(t *testing.T) string {
	t.Helper()
	path := CreateRecordDB(t)

	rows := []struct {
		id, session string
		ts          int64
		role, kind  string
		text        string
	}{
		{"rec-1", "session-a", 1000, "USER", "DIALOGUE", "how do I configure the logger here?"},
		{"rec-2", "session-a", 2000, "AGENT_BUILDER", "DIALOGUE", "I will update the logger configuration"},
		{"rec-3", "session-a", 3000, "AGENT_CHAT", "DIALOGUE", "the logger writes to stderr with level prefixes"},
		{"rec-4", "session-b", 5000, "USER", "DIALOGUE", "please explain this stack setup"},
		{"rec-5", "session-b", 6000, "AGENT_BUILDER", "DIALOGUE", "terminal created: build-shell"},
	}
	for _, r := range rows {
		InsertRecord(t, path, r.id, r.session, r.ts, r.role, r.kind, r.text, "")
	}
	return path
}
