// Package batch reads URL lists and turns every entry into an MP3 file.
package batch

import (
	"fmt"
	"os"
	"strings"
)

// Entry is one article to process
type Entry struct {
	Index    int    // 1-based position among the entries
	URL      string
	Language string // Optional override; empty uses the batch default
}

// ReadBatchFile reads article URLs from a file
// Supports formats:
// - URL only: "https://example.com/story"
// - With language override: "https://example.com/story = fr"
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var entries []Entry
	for n, line := range splitLines(string(content)) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Query strings may contain '=', so only a spaced " = " separates the language
		entry := Entry{URL: line}
		if url, lang, ok := strings.Cut(line, " = "); ok {
			entry.URL = strings.TrimSpace(url)
			entry.Language = strings.TrimSpace(lang)
		} else if strings.HasPrefix(line, "=") {
			entry.URL = ""
		}
		if entry.URL == "" {
			return nil, fmt.Errorf("line %d: missing URL", n+1)
		}

		entry.Index = len(entries) + 1
		entries = append(entries, entry)
	}

	return entries, nil
}

// splitLines splits a string by newlines
func splitLines(s string) []string {
	var lines []string
	current := ""
	for _, r := range s {
		if r == '\n' {
			lines = append(lines, current)
			current = ""
		} else if r != '\r' {
			current += string(r)
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
