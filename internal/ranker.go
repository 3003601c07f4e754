package internal

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Ranker turns a structured query into a relevance-ordered result set.
type Ranker struct {
	store *Store
}

// NewRanker creates a ranker reading from the store.
func NewRanker(store *Store) *Ranker {
	return &Ranker{store: store}
}

// Search narrows by keyword and time against the store, applies the remaining
// filters in memory, scores each survivor and orders the results by score
// descending. Ties keep the store's newest-first order. A store failure
// propagates as a single error with no partial results.
func (r *Ranker) Search(ctx context.Context, q Query) ([]SearchResult, error) {
	if q.Start != nil && q.End != nil && q.Start.After(*q.End) {
		return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidQuery, q.Start, q.End)
	}

	records, err := r.store.Query(ctx, q.Keyword, q.Start, q.End)
	if err != nil {
		return nil, err
	}

	needle := foldRunes(q.Keyword)
	results := make([]SearchResult, 0, len(records))
	for _, rec := range records {
		if q.Role != nil && rec.Role != *q.Role {
			continue
		}
		if q.Kind != nil && rec.Kind != *q.Kind {
			continue
		}
		if q.FileExtension != "" && !matchesExtension(rec, q.FileExtension) {
			continue
		}

		res := SearchResult{Record: rec}
		if q.Keyword == "" {
			// Neutral default: structured queries without a keyword still
			// produce a stable, non-discriminating order.
			res.Relevance = 0.5
		} else {
			text := []rune(rec.Text)
			occurrences := occurrenceIndexes(foldRunes(rec.Text), needle)
			if len(occurrences) == 0 {
				continue
			}
			res.Relevance = scoreKeyword(len(occurrences), occurrences[0], len(text))
			res.Excerpts = extractExcerpts(text, occurrences, len(needle))
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results, nil
}

// scoreKeyword implements the relevance formula: a base for matching at all,
// a bonus per occurrence, and a positional bonus that decays the further into
// the text the first match sits. Capped at 1.
func scoreKeyword(occurrences, firstIndex, textLen int) float64 {
	positionScore := 0.0
	if textLen > 0 {
		positionScore = 1 - float64(firstIndex)/float64(textLen)
		if positionScore < 0 {
			positionScore = 0
		}
	}
	score := 0.3 + float64(occurrences)*0.2 + positionScore*0.5
	if score > 1 {
		score = 1
	}
	return score
}

// excerptRadius is the number of runes kept on each side of a match.
const excerptRadius = 20

// extractExcerpts returns one window per occurrence, clipped to the text
// bounds.
func extractExcerpts(text []rune, occurrences []int, needleLen int) []string {
	excerpts := make([]string, 0, len(occurrences))
	for _, idx := range occurrences {
		start := idx - excerptRadius
		if start < 0 {
			start = 0
		}
		end := idx + needleLen + excerptRadius
		if end > len(text) {
			end = len(text)
		}
		excerpts = append(excerpts, string(text[start:end]))
	}
	return excerpts
}

// matchesExtension reports whether the record's detail carries a file path
// with the given extension. Records without a path never match.
func matchesExtension(rec Record, ext string) bool {
	path := rec.FilePath()
	if path == "" {
		return false
	}
	want := "." + strings.TrimPrefix(ext, ".")
	return strings.EqualFold(filepath.Ext(path), want)
}
