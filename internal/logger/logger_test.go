package logger

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short text unchanged", input: "hello", maxLen: 50, expected: "hello"},
		{name: "exact length unchanged", input: "hello", maxLen: 5, expected: "hello"},
		{name: "long text gets ellipsis", input: "hello world", maxLen: 8, expected: "hello..."},
		{name: "tiny limit is all ellipsis", input: "hello", maxLen: 3, expected: "..."},
		{name: "multibyte text counts runes", input: "привет мир", maxLen: 9, expected: "привет..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := truncate(tc.input, tc.maxLen); got != tc.expected {
				t.Errorf("truncate(%q, %d) = %q, want %q", tc.input, tc.maxLen, got, tc.expected)
			}
		})
	}

	t.Run("never produces invalid UTF-8", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("п", 100)
		for maxLen := 4; maxLen < 20; maxLen++ {
			if got := truncate(long, maxLen); !utf8.ValidString(got) {
				t.Errorf("truncate produced invalid UTF-8 at maxLen %d: %q", maxLen, got)
			}
		}
	})
}
