package pipeline

import (
	"fmt"
	"strings"

	"codeberg.org/snonux/readaloud/internal"
	"codeberg.org/snonux/readaloud/internal/extract"
	"codeberg.org/snonux/readaloud/internal/httputil"
	"codeberg.org/snonux/readaloud/internal/language"
)

// Type selects which processed text is spoken
type Type string

const (
	TypeFull    Type = "full"
	TypeSummary Type = "summary"
)

// Request describes one generation. When both URL and Text are set the
// URL wins.
type Request struct {
	URL      string `json:"url,omitempty"`
	Text     string `json:"text,omitempty"`
	Language string `json:"language,omitempty"`
	Type     Type   `json:"type,omitempty"`
}

// withDefaults fills in the default language and type
func (r Request) withDefaults() Request {
	r.URL = strings.TrimSpace(r.URL)
	if r.Language == "" {
		r.Language = language.DefaultCode
	}
	if r.Type == "" {
		r.Type = TypeFull
	}
	return r
}

// Validate checks the request after defaults are applied and resolves its
// language. Errors are of kind KindInvalidInput or KindContentTooShort.
func (r Request) Validate() (language.Language, error) {
	r = r.withDefaults()

	if r.URL == "" && strings.TrimSpace(r.Text) == "" {
		return language.Language{}, invalidInput("provide either 'url' or 'text'")
	}

	lang, err := language.Resolve(r.Language)
	if err != nil {
		return language.Language{}, &Error{Kind: KindInvalidInput, Message: err.Error(), Err: err}
	}

	if r.Type != TypeFull && r.Type != TypeSummary {
		return language.Language{}, invalidInput("type must be 'full' or 'summary'")
	}

	if r.URL != "" {
		if err := httputil.ValidateURL(r.URL); err != nil {
			return language.Language{}, &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("invalid url: %v", err), Err: err}
		}
		return lang, nil
	}

	if err := checkLength(r.Text); err != nil {
		return language.Language{}, err
	}
	return lang, nil
}

// checkLength rejects content below the extraction minimum. Surrounding
// whitespace does not count, the same rule the extractor applies.
func checkLength(text string) error {
	if internal.CharCount(strings.TrimSpace(text)) < extract.MinContentLength {
		return &Error{
			Kind:    KindContentTooShort,
			Message: fmt.Sprintf("content too short (min %d characters)", extract.MinContentLength),
		}
	}
	return nil
}
