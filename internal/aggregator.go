package internal

import (
	"context"
	"fmt"
	"time"
)

// Aggregator derives per-session views from the record store. It is
// read-only: summaries are computed on demand, never persisted.
type Aggregator struct {
	store *Store
}

// NewAggregator creates an aggregator reading from the store.
func NewAggregator(store *Store) *Aggregator {
	return &Aggregator{store: store}
}

// ListSessions returns distinct session ids ordered by each session's most
// recent record timestamp, descending.
func (a *Aggregator) ListSessions(ctx context.Context) ([]string, error) {
	return a.store.SessionIDs(ctx)
}

// SessionSummaries computes one summary per session, in ListSessions order.
func (a *Aggregator) SessionSummaries(ctx context.Context) ([]SessionSummary, error) {
	ids, err := a.store.SessionIDs(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		records, err := a.store.SessionRecords(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		summaries = append(summaries, summarize(id, records))
	}
	return summaries, nil
}

// SessionDetail returns the full ordered record list for a session plus its
// formatted duration. A session with zero records is ErrSessionNotFound,
// never an empty-but-valid detail.
func (a *Aggregator) SessionDetail(ctx context.Context, sessionID string) (*SessionDetail, error) {
	records, err := a.store.SessionRecords(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	first := records[0].Timestamp
	last := records[len(records)-1].Timestamp
	return &SessionDetail{
		SessionID: sessionID,
		Records:   records,
		Duration:  FormatDuration(last.Sub(first)),
	}, nil
}

func summarize(id string, records []Record) SessionSummary {
	summary := SessionSummary{
		SessionID:      id,
		RecordCount:    len(records),
		FirstTimestamp: records[0].Timestamp,
		LastTimestamp:  records[len(records)-1].Timestamp,
	}
	seen := make(map[Role]bool)
	for _, rec := range records {
		if !seen[rec.Role] {
			seen[rec.Role] = true
			summary.Roles = append(summary.Roles, rec.Role)
		}
	}
	return summary
}

// FormatDuration renders a duration with its largest applicable units:
// hours+minutes, minutes+seconds, or bare seconds.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
