package textproc

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/readaloud/internal"
	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/llm"
	"codeberg.org/snonux/readaloud/internal/observability"
)

// SummaryFallbackLength is how many characters of a text stand in for a
// summary when the model did not write one
const SummaryFallbackLength = 500

// Level tells how far processing had to degrade
type Level int

const (
	// LevelStructured means the model returned cleaned text and a summary
	LevelStructured Level = iota
	// LevelTranslateOnly means only a plain translation could be obtained
	LevelTranslateOnly
	// LevelOriginal means the model failed and the input is returned as is
	LevelOriginal
)

// String returns the level name used in logs and metrics
func (l Level) String() string {
	switch l {
	case LevelStructured:
		return "structured"
	case LevelTranslateOnly:
		return "translate_only"
	case LevelOriginal:
		return "original"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// Result is the processed article text
type Result struct {
	Cleaned string
	Summary string
	Level   Level
}

// Processor runs the clean, summarize and translate step
type Processor struct {
	model  llm.Model
	logger zerolog.Logger
}

// NewProcessor creates a processor backed by model
func NewProcessor(model llm.Model) *Processor {
	return &Processor{
		model:  model,
		logger: observability.Component("textproc"),
	}
}

// Process returns cleaned and summarized text in the target language. It
// never fails; see the package documentation for the degradation order.
func (p *Processor) Process(ctx context.Context, text string, lang language.Language) Result {
	p.logger.Info().Str("language", lang.Name).Int("chars", internal.CharCount(text)).Msg("processing and translating text")

	result, err := p.process(ctx, text, lang)
	if err != nil {
		p.logger.Error().Err(err).Str("language", lang.Name).Msg("language model failed, using original text")
		result = Result{
			Cleaned: text,
			Summary: internal.Truncate(text, SummaryFallbackLength),
			Level:   LevelOriginal,
		}
	}

	observability.RecordTextLevel(result.Level.String())
	return result
}

// process runs the structured request and the translate-only follow-up.
// Any returned error means the model itself is unusable.
func (p *Processor) process(ctx context.Context, text string, lang language.Language) (result Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text processing panicked: %v", r)
		}
	}()

	reply, err := p.model.Complete(ctx, buildPrompt(text, lang.Name))
	if err != nil {
		return Result{}, err
	}

	cleaned, summary, parseErr := parseReply(reply)
	if parseErr == nil {
		p.logger.Info().Str("language", lang.Name).Msg("done processing and translating")
		return Result{Cleaned: cleaned, Summary: summary, Level: LevelStructured}, nil
	}

	p.logger.Warn().Err(parseErr).Str("raw_response", internal.Truncate(reply, SummaryFallbackLength)).Msg("failed to parse model response, retrying with translation only")

	translated, err := p.model.Complete(ctx, buildTranslatePrompt(text, lang.Name))
	if err != nil {
		return Result{}, err
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return Result{}, fmt.Errorf("empty translation from model")
	}

	return Result{
		Cleaned: translated,
		Summary: internal.Truncate(translated, SummaryFallbackLength),
		Level:   LevelTranslateOnly,
	}, nil
}
