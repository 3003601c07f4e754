package internal

import "unicode"

// foldRunes lowercases a string rune by rune. Per-rune folding keeps indices
// aligned with the original text, which the excerpt extractor relies on.
func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

// containsFold reports whether substr occurs in s, case-insensitively.
func containsFold(s, substr string) bool {
	return indexFold(foldRunes(s), foldRunes(substr)) >= 0
}

func indexFold(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			return i
		}
	}
	return -1
}

// occurrenceIndexes returns the rune index of every non-overlapping
// occurrence of needle in haystack.
func occurrenceIndexes(haystack, needle []rune) []int {
	if len(needle) == 0 {
		return nil
	}
	var indexes []int
	for i := 0; i+len(needle) <= len(haystack); {
		if runesEqual(haystack[i:i+len(needle)], needle) {
			indexes = append(indexes, i)
			i += len(needle)
		} else {
			i++
		}
	}
	return indexes
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
