package audio

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

const (
	// OpenAIMaxInput is the longest input, in characters, a single OpenAI
	// speech request accepts
	OpenAIMaxInput = 4096

	// GoogleMaxInputBytes is the input limit, in bytes, of a single Google
	// Cloud TTS request
	GoogleMaxInputBytes = 5000
)

// SizeFunc measures text in the unit a provider limits its input by
type SizeFunc func(string) int

// Characters measures text in runes
func Characters(s string) int {
	return utf8.RuneCountInString(s)
}

// Bytes measures text in UTF-8 bytes
func Bytes(s string) int {
	return len(s)
}

// Segments splits text into pieces no larger than limit. It breaks between
// sentences where it can, between words when a sentence is too long and
// inside a word only when the word alone exceeds limit. Pieces are trimmed
// and never empty.
func Segments(text string, limit int, size SizeFunc) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 || size(text) <= limit {
		return []string{text}
	}

	var (
		segments []string
		current  strings.Builder
		n        int
	)
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			segments = append(segments, s)
		}
		current.Reset()
		n = 0
	}

	for _, piece := range pieces(text, limit, size) {
		m := size(piece)
		if n > 0 && n+m > limit {
			flush()
		}
		current.WriteString(piece)
		n += m
	}
	flush()

	return segments
}

// pieces returns text as sentences, falling back to words and then to
// hard cuts for anything longer than limit
func pieces(text string, limit int, size SizeFunc) []string {
	var out []string

	state := -1
	for rest := text; rest != ""; {
		var sentence string
		sentence, rest, state = uniseg.FirstSentenceInString(rest, state)
		if size(sentence) <= limit {
			out = append(out, sentence)
			continue
		}

		wordState := -1
		for words := sentence; words != ""; {
			var word string
			word, words, wordState = uniseg.FirstWordInString(words, wordState)
			if size(word) <= limit {
				out = append(out, word)
				continue
			}
			out = append(out, hardSplit(word, limit, size)...)
		}
	}

	return out
}

// hardSplit cuts s into rune-aligned parts no larger than limit
func hardSplit(s string, limit int, size SizeFunc) []string {
	var (
		parts []string
		start int
		n     int
	)
	for i, r := range s {
		m := size(string(r))
		if n > 0 && n+m > limit {
			parts = append(parts, s[start:i])
			start, n = i, 0
		}
		n += m
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// synthesizeSegments splits text under limit, synthesizes each piece in
// order and joins the MP3 data into one stream
func synthesizeSegments(text string, limit int, size SizeFunc, synth func(segment string) ([]byte, error)) ([]byte, error) {
	var audio []byte
	for _, segment := range Segments(text, limit, size) {
		data, err := synth(segment)
		if err != nil {
			return nil, err
		}
		audio = append(audio, data...)
	}
	return audio, nil
}
