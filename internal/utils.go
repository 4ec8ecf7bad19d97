package internal

import (
	"strings"
	"unicode/utf8"
)

// Version is the application version reported by the CLI
const Version = "0.3.0"

// CharCount returns the number of characters (code points) in s.
// Length limits across the pipeline are expressed in characters, not bytes.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate returns the first n characters of s followed by "..." when s is
// longer than n characters, and s unchanged otherwise.
func Truncate(s string, n int) string {
	if n < 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is an ASCII letter or digit
func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
