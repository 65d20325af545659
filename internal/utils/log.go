package utils

import (
	"strings"
	"unicode/utf8"
)

// TruncateForLog trims s and cuts it to limit runes, marking a cut with "...".
// A non-positive limit yields an empty string.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}
