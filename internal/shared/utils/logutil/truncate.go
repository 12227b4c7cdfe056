package logutil

import "unicode/utf8"

// TruncateForLog shortens s to at most maxLen runes and appends "..." when
// something was cut. Used for upstream error bodies and token prefixes.
func TruncateForLog(s string, maxLen int) string {
	if maxLen <= 0 {
		return "..."
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen]) + "..."
}
