package language

import (
	"fmt"
	"strings"
)

// Language describes one supported target language
type Language struct {
	Code          string // Request code: "en", "hi", "fr", "es"
	SynthesisCode string // Code understood by the synthesis engine
	Locale        string // BCP-47 locale for cloud voices
	ESpeakVoice   string // espeak-ng voice name
	Name          string // Display name, also used in model prompts
}

// DefaultCode is used when a request does not name a language
const DefaultCode = "en"

var supported = []Language{
	{Code: "en", SynthesisCode: "en", Locale: "en-US", ESpeakVoice: "en-us", Name: "English"},
	{Code: "hi", SynthesisCode: "hi", Locale: "hi-IN", ESpeakVoice: "hi", Name: "Hindi"},
	{Code: "fr", SynthesisCode: "fr", Locale: "fr-FR", ESpeakVoice: "fr-fr", Name: "French"},
	{Code: "es", SynthesisCode: "es", Locale: "es-ES", ESpeakVoice: "es", Name: "Spanish"},
}

var byCode = func() map[string]Language {
	m := make(map[string]Language, len(supported))
	for _, l := range supported {
		m[l.Code] = l
	}
	return m
}()

// Lookup returns the language for a code
func Lookup(code string) (Language, bool) {
	l, ok := byCode[code]
	return l, ok
}

// MustLookup is like Lookup but panics on unknown codes.
// Only meant for constants in tests and defaults.
func MustLookup(code string) Language {
	l, ok := byCode[code]
	if !ok {
		panic(fmt.Sprintf("language: unknown code %q", code))
	}
	return l
}

// Codes returns the supported codes in their canonical order
func Codes() []string {
	codes := make([]string, len(supported))
	for i, l := range supported {
		codes[i] = l.Code
	}
	return codes
}

// All returns a copy of the language table
func All() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Resolve maps a requested code to a language. An empty code resolves to
// the default language.
func Resolve(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		code = DefaultCode
	}
	l, ok := byCode[code]
	if !ok {
		return Language{}, fmt.Errorf("language must be one of [%s]", strings.Join(Codes(), ", "))
	}
	return l, nil
}
