package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/readaloud/internal"
	"codeberg.org/snonux/readaloud/internal/observability"
)

// MinContentLength is the minimum number of characters an extraction must
// yield to be accepted
const MinContentLength = 300

// ErrExtractionFailed is returned when no strategy produced usable text.
// The message deliberately does not name the strategies that were tried.
var ErrExtractionFailed = errors.New("unable to extract article: the article may be too short or the URL is inaccessible")

// Strategy is one independent way of deriving article text from a URL
type Strategy interface {
	// Name identifies the strategy in logs and metrics
	Name() string

	// Extract returns the article text found at url
	Extract(ctx context.Context, url string) (string, error)
}

// Extractor tries its strategies in order until one yields enough text
type Extractor struct {
	strategies []Strategy
	minLength  int
	logger     zerolog.Logger
}

// New creates an extractor over the given strategies, tried in order
func New(strategies ...Strategy) *Extractor {
	return &Extractor{
		strategies: strategies,
		minLength:  MinContentLength,
		logger:     observability.Component("extract"),
	}
}

// NewDefault creates an extractor with the article, boilerplate and
// readability strategies in fidelity order
func NewDefault() *Extractor {
	return New(
		NewArticleStrategy(nil),
		NewBoilerplateStrategy(nil),
		NewReadabilityStrategy(nil),
	)
}

// Strategies returns the names of the configured strategies in order
func (e *Extractor) Strategies() []string {
	names := make([]string, len(e.strategies))
	for i, s := range e.strategies {
		names[i] = s.Name()
	}
	return names
}

// Extract returns the first strategy result of at least MinContentLength
// characters. Results are never merged across strategies.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	e.logger.Info().Str("url", url).Msg("extracting article")

	for _, s := range e.strategies {
		start := time.Now()
		text, err := e.attempt(ctx, s, url)
		took := time.Since(start)

		switch {
		case err != nil:
			observability.RecordExtractionAttempt(s.Name(), "error")
			e.logger.Warn().Err(err).Str("strategy", s.Name()).Dur("took", took).Msg("extraction strategy failed")
			continue
		case text == "":
			observability.RecordExtractionAttempt(s.Name(), "empty")
			e.logger.Warn().Str("strategy", s.Name()).Dur("took", took).Msg("extraction strategy returned no text")
			continue
		case internal.CharCount(text) < e.minLength:
			observability.RecordExtractionAttempt(s.Name(), "short")
			e.logger.Warn().Str("strategy", s.Name()).Int("chars", internal.CharCount(text)).Msg("extraction strategy result too short")
			continue
		}

		observability.RecordExtractionAttempt(s.Name(), "ok")
		e.logger.Info().Str("strategy", s.Name()).Int("chars", internal.CharCount(text)).Dur("took", took).Msg("extraction successful")
		return text, nil
	}

	return "", ErrExtractionFailed
}

// attempt runs one strategy, turning a panic into an error so a misbehaving
// parser cannot abort the chain
func (e *Extractor) attempt(ctx context.Context, s Strategy, url string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()

	text, err = s.Extract(ctx, url)
	return strings.TrimSpace(text), err
}
