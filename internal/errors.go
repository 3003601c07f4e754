package internal

import "errors"

var (
	// ErrStoreUnavailable indicates the record store could not complete an
	// operation (not initialized, I/O failure). Callers log and continue;
	// it is never fatal to the host process.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrSessionNotFound indicates a detail query for a session with no
	// records. Distinguishable from a session that exists with zero duration.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidQuery indicates malformed query construction, e.g. a start
	// bound after the end bound.
	ErrInvalidQuery = errors.New("invalid query")
)
