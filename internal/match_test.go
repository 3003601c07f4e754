package internal

import "testing"

func TestContainsFold(t *testing.T) {
	tests := []struct {
		s, substr string
		want      bool
	}{
		{"The Logger Setup", "logger", true},
		{"the logger setup", "LOGGER", true},
		{"项目初始化完成", "项目", true},
		{"nothing here", "logger", false},
		{"", "x", false},
		{"anything", "", true},
	}
	for _, tt := range tests {
		if got := containsFold(tt.s, tt.substr); got != tt.want {
			t.Errorf("containsFold(%q, %q) = %v, want %v", tt.s, tt.substr, got, tt.want)
		}
	}
}

func TestOccurrenceIndexes(t *testing.T) {
	tests := []struct {
		haystack, needle string
		want             []int
	}{
		{"key and key", "key", []int{0, 8}},
		{"aaaa", "aa", []int{0, 2}}, // non-overlapping
		{"测项目试项目", "项目", []int{1, 4}},
		{"no match", "zz", nil},
	}
	for _, tt := range tests {
		got := occurrenceIndexes(foldRunes(tt.haystack), foldRunes(tt.needle))
		if len(got) != len(tt.want) {
			t.Errorf("occurrenceIndexes(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("occurrenceIndexes(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
				break
			}
		}
	}
}
