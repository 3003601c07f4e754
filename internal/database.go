package internal

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schemaSQL = `
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

// OpenDatabase opens (creating if necessary) the record database and ensures
// the append-only schema exists.
func OpenDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// modernc.org/sqlite serializes writes on a single connection; keeping
	// the pool at one connection avoids SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}
