// Package utils provides shared utilities for text and logging.
package utils

import (
	"strings"
	"unicode/utf8"
)

// Truncate returns s truncated to maxLen runes, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	n := 0
	for i := range s {
		if n == maxLen {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

// naValues are the cell spellings treated as missing, matching common spreadsheet exports.
var naValues = map[string]bool{
	"":        true,
	"na":      true,
	"n/a":     true,
	"nan":     true,
	"-nan":    true,
	"null":    true,
	"none":    true,
	"#n/a":    true,
	"<na>":    true,
	"-1.#ind": true,
	"1.#qnan": true,
}

// IsNA reports whether a raw cell value should be treated as missing.
func IsNA(s string) bool {
	return naValues[strings.ToLower(strings.TrimSpace(s))]
}
