package internal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// Store is the append-only record log. The underlying database is opened
// lazily on first use; every operation queues behind that one-time
// initialization. Records are only ever inserted, never updated or deleted.
type Store struct {
	path string

	once    sync.Once
	db      *sql.DB
	initErr error

	mu sync.Mutex // serializes the write path
}

// NewStore creates a store handle for the database at path. The database is
// not touched until the first operation.
func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) init() (*sql.DB, error) {
	s.once.Do(func() {
		db, err := OpenDatabase(s.path)
		if err != nil {
			s.initErr = err
			return
		}
		s.db = db
	})
	if s.initErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, s.initErr)
	}
	return s.db, nil
}

// Append durably inserts one record. Appends are independent and
// order-commutative; concurrent calls are safe.
func (s *Store) Append(ctx context.Context, rec Record) error {
	db, err := s.init()
	if err != nil {
		return err
	}

	detail, err := rec.MarshalDetail()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = db.ExecContext(ctx,
		"INSERT INTO records (id, session_id, ts, role, kind, text, detail) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.SessionID, rec.Timestamp.UnixNano(), string(rec.Role), string(rec.Kind), rec.Text, detail)
	if err != nil {
		return fmt.Errorf("%w: append failed: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Query narrows records by keyword substring (case-insensitive, empty matches
// everything) and inclusive time bounds. Time bounds are pushed into SQL; the
// keyword scan runs over each row's text, since SQLite's lower() only folds
// ASCII and recorded dialogue is frequently not. Results come back
// newest-first with id as the final tie-break.
func (s *Store) Query(ctx context.Context, keyword string, start, end *time.Time) ([]Record, error) {
	db, err := s.init()
	if err != nil {
		return nil, err
	}

	query := "SELECT id, session_id, ts, role, kind, text, detail FROM records"
	var conds []string
	var args []interface{}
	if start != nil {
		conds = append(conds, "ts >= ?")
		args = append(args, start.UnixNano())
	}
	if end != nil {
		conds = append(conds, "ts <= ?")
		args = append(args, end.UnixNano())
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY ts DESC, id ASC"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		if keyword != "" && !containsFold(rec.Text, keyword) {
			continue
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration error: %v", ErrStoreUnavailable, err)
	}
	return records, nil
}

// All returns every stored record, newest-first. This backs the unfiltered
// "fetch all records for export" query.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	return s.Query(ctx, "", nil, nil)
}

// SessionRecords returns all records of one session ordered by timestamp
// ascending. An unknown session yields an empty slice, not an error; the
// aggregator decides how to surface that.
func (s *Store) SessionRecords(ctx context.Context, sessionID string) ([]Record, error) {
	db, err := s.init()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, session_id, ts, role, kind, text, detail FROM records WHERE session_id = ? ORDER BY ts ASC, id ASC",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration error: %v", ErrStoreUnavailable, err)
	}
	return records, nil
}

// SessionIDs returns the distinct session ids ordered by each session's most
// recent record timestamp, descending.
func (s *Store) SessionIDs(ctx context.Context) ([]string, error) {
	db, err := s.init()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT session_id FROM records GROUP BY session_id ORDER BY MAX(ts) DESC, session_id ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan failed: %v", ErrStoreUnavailable, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration error: %v", ErrStoreUnavailable, err)
	}
	return ids, nil
}

// Count returns the total number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	db, err := s.init()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count failed: %v", ErrStoreUnavailable, err)
	}
	return n, nil
}

// Close releases the database handle if it was ever opened.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanRecord(rows *sql.Rows) (Record, error) {
	var (
		rec    Record
		ts     int64
		role   string
		kind   string
		detail sql.NullString
	)
	if err := rows.Scan(&rec.ID, &rec.SessionID, &ts, &role, &kind, &rec.Text, &detail); err != nil {
		return Record{}, fmt.Errorf("%w: scan failed: %v", ErrStoreUnavailable, err)
	}
	rec.Timestamp = time.Unix(0, ts)
	rec.Role = Role(role)
	rec.Kind = Kind(kind)
	if detail.Valid && detail.String != "" {
		d, err := UnmarshalDetail(rec.Kind, detail.String)
		if err != nil {
			return Record{}, fmt.Errorf("record %s: %w", rec.ID, err)
		}
		rec.Detail = d
	}
	return rec, nil
}
