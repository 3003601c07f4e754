package internal

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func mustAppend(t *testing.T, store *Store, rec Record) Record {
	t.Helper()
	if err := store.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	return rec
}

func dialogueAt(sessionID string, role Role, text string, ts time.Time) Record {
	rec := NewRecord(sessionID, role, text, nil)
	rec.Timestamp = ts
	return rec
}

func TestSearch_EmptyKeywordScoresNeutral(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, store, dialogueAt("s1", RoleUser, "first record of the morning", base))
	mustAppend(t, store, dialogueAt("s1", RoleAgentChat, "second record of the morning", base.Add(time.Minute)))
	mustAppend(t, store, dialogueAt("s2", RoleAgentBuilder, "third record of the morning", base.Add(2*time.Minute)))

	results, err := NewRanker(store).Search(context.Background(), Query{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, res := range results {
		if res.Relevance != 0.5 {
			t.Errorf("relevance = %v, want exactly 0.5", res.Relevance)
		}
		if len(res.Excerpts) != 0 {
			t.Errorf("empty-keyword search produced excerpts: %v", res.Excerpts)
		}
	}
	// Stable, deterministic order: newest first.
	for i := 1; i < len(results); i++ {
		if results[i].Record.Timestamp.After(results[i-1].Record.Timestamp) {
			t.Errorf("results out of newest-first order at %d", i)
		}
	}
}

func TestSearch_ScoringFormula(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// One occurrence at position 0 of a 50-rune text.
	textA := "项目" + strings.Repeat("测", 48)
	// Two occurrences, the first at rune 40 of a 50-rune text.
	textB := strings.Repeat("测", 40) + "项目" + strings.Repeat("测", 6) + "项目"

	recA := mustAppend(t, store, dialogueAt("s1", RoleUser, textA, base))
	recB := mustAppend(t, store, dialogueAt("s1", RoleUser, textB, base.Add(time.Minute)))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "项目"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if results[0].Record.ID != recA.ID {
		t.Errorf("first result is %s, want the early-match record %s", results[0].Record.ID, recA.ID)
	}
	if math.Abs(results[0].Relevance-1.0) > 1e-9 {
		t.Errorf("relevance A = %v, want 1.0", results[0].Relevance)
	}
	if results[1].Record.ID != recB.ID {
		t.Errorf("second result is %s, want %s", results[1].Record.ID, recB.ID)
	}
	if math.Abs(results[1].Relevance-0.8) > 1e-9 {
		t.Errorf("relevance B = %v, want 0.8", results[1].Relevance)
	}
}

func TestSearch_MoreOccurrencesNearStartRankHigher(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	// Equal-length texts: two early occurrences versus one late occurrence.
	early := "key and key again " + strings.Repeat("x", 22)
	late := strings.Repeat("x", 31) + " over key"
	if len([]rune(early)) != len([]rune(late)) {
		t.Fatalf("fixture texts differ in length: %d vs %d", len([]rune(early)), len([]rune(late)))
	}

	recEarly := mustAppend(t, store, dialogueAt("s1", RoleUser, early, base))
	mustAppend(t, store, dialogueAt("s1", RoleUser, late, base.Add(time.Minute)))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "key"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Record.ID != recEarly.ID {
		t.Error("record with two early occurrences should rank first")
	}
	if results[0].Relevance <= results[1].Relevance {
		t.Errorf("scores not strictly ordered: %v vs %v", results[0].Relevance, results[1].Relevance)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	mustAppend(t, store, dialogueAt("s1", RoleUser, "the Logger setup is documented here", time.Now()))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "logger"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}

func TestSearch_KeywordDrivenExcludesNonMatches(t *testing.T) {
	store := newTestStore(t)
	mustAppend(t, store, dialogueAt("s1", RoleUser, "nothing relevant in this text", time.Now()))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "keyword"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0 (zero-occurrence records are excluded)", len(results))
	}
}

func TestSearch_ConjunctiveFilters(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mustAppend(t, store, dialogueAt("s1", RoleUser, "question about the search ranking", base))
	mustAppend(t, store, dialogueAt("s1", RoleAgentChat, "answer about the search ranking", base.Add(time.Minute)))

	change := NewRecord("s1", RoleAgentBuilder, "updated the ranking comparator", &FileChangeDetail{
		FilePath:   "internal/ranker.go",
		ChangeKind: "modify",
	})
	change.Timestamp = base.Add(2 * time.Minute)
	mustAppend(t, store, change)

	ranker := NewRanker(store)
	ctx := context.Background()

	role := RoleUser
	results, err := ranker.Search(ctx, Query{Keyword: "ranking", Role: &role})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Record.Role != RoleUser {
		t.Errorf("role filter returned %d result(s)", len(results))
	}

	kind := KindFileChange
	results, err = ranker.Search(ctx, Query{Kind: &kind})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Record.Kind != KindFileChange {
		t.Errorf("kind filter returned %d result(s)", len(results))
	}

	for _, ext := range []string{"go", ".go"} {
		results, err = ranker.Search(ctx, Query{FileExtension: ext})
		if err != nil {
			t.Fatalf("Search(ext=%q) error = %v", ext, err)
		}
		if len(results) != 1 {
			t.Errorf("extension filter %q returned %d result(s), want 1", ext, len(results))
		}
	}

	results, err = ranker.Search(ctx, Query{FileExtension: "ts"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("extension filter 'ts' returned %d result(s), want 0", len(results))
	}
}

func TestSearch_TimeBounds(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mustAppend(t, store, dialogueAt("s1", RoleUser, "record inside the window", base))
	mustAppend(t, store, dialogueAt("s1", RoleUser, "record outside the window", base.Add(time.Hour)))

	end := base.Add(time.Minute)
	results, err := NewRanker(store).Search(context.Background(), Query{Start: &base, End: &end})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	// Bounds are inclusive.
	results, err = NewRanker(store).Search(context.Background(), Query{Start: &base, End: &base})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("inclusive bound query got %d results, want 1", len(results))
	}
}

func TestSearch_InvalidBounds(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(-time.Hour)

	_, err := NewRanker(store).Search(context.Background(), Query{Start: &start, End: &end})
	if !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("error = %v, want ErrInvalidQuery", err)
	}
}

func TestSearch_Excerpts(t *testing.T) {
	store := newTestStore(t)
	text := strings.Repeat("a", 30) + "needle" + strings.Repeat("b", 30)
	mustAppend(t, store, dialogueAt("s1", RoleUser, text, time.Now()))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "needle"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	excerpts := results[0].Excerpts
	if len(excerpts) != 1 {
		t.Fatalf("got %d excerpts, want 1", len(excerpts))
	}
	want := strings.Repeat("a", 20) + "needle" + strings.Repeat("b", 20)
	if excerpts[0] != want {
		t.Errorf("excerpt = %q, want %q", excerpts[0], want)
	}
}

func TestSearch_ExcerptsAllOccurrencesAndClipping(t *testing.T) {
	store := newTestStore(t)
	text := "needle at the start and a needle near the end too"
	mustAppend(t, store, dialogueAt("s1", RoleUser, text, time.Now()))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "needle"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	excerpts := results[0].Excerpts
	if len(excerpts) != 2 {
		t.Fatalf("got %d excerpts, want one per occurrence", len(excerpts))
	}
	if !strings.HasPrefix(excerpts[0], "needle") {
		t.Errorf("first excerpt %q should be clipped at the text start", excerpts[0])
	}
}

func TestSearch_TieBreakNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	older := mustAppend(t, store, dialogueAt("s1", RoleUser, "identical matching text body", base))
	newer := mustAppend(t, store, dialogueAt("s1", RoleUser, "identical matching text body", base.Add(time.Hour)))

	results, err := NewRanker(store).Search(context.Background(), Query{Keyword: "matching"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Record.ID != newer.ID || results[1].Record.ID != older.ID {
		t.Error("equal scores should keep newest-first order")
	}
}

func TestSearch_StoreFailurePropagates(t *testing.T) {
	store := NewStore("/nonexistent-dir-for-test/records.db")
	_, err := NewRanker(store).Search(context.Background(), Query{Keyword: "anything"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("error = %v, want ErrStoreUnavailable", err)
	}
}
