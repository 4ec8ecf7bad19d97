package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/observability"
)

// Synthesizer converts text to a fully materialized MP3 buffer
type Synthesizer interface {
	// Synthesize blocks until the whole payload is available
	Synthesize(ctx context.Context, text string, lang language.Language) ([]byte, error)

	// Name returns the provider name
	Name() string
}

// Config holds configuration for audio providers
type Config struct {
	Provider string // Provider name: "openai", "google" or "espeak"
	Fallback string // Optional provider tried when the primary fails

	// OpenAI-specific settings
	OpenAIKey     string
	OpenAIBaseURL string  // Empty for the public API
	OpenAIModel   string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice   string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed   float64 // 0.25 to 4.0

	// Google Cloud settings; credentials come from GOOGLE_APPLICATION_CREDENTIALS
	GoogleSpeakingRate float64

	// espeak-ng settings
	ESpeakSpeed int // Words per minute
	ESpeakPitch int // 0 to 99

	// Circuit breaker settings; MaxFailures of 0 disables the breaker
	BreakerMaxFailures uint32
	BreakerTimeout     time.Duration
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:           "openai",
		OpenAIModel:        "gpt-4o-mini-tts",
		OpenAIVoice:        "alloy",
		OpenAISpeed:        1.0,
		GoogleSpeakingRate: 1.0,
		ESpeakSpeed:        160,
		ESpeakPitch:        50,
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	}
}

// NewProvider creates the configured provider, guarded by a circuit breaker
// and backed by the fallback provider when one is set
func NewProvider(config *Config) (Synthesizer, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	primary, err := newGuardedProvider(config.Provider, config)
	if err != nil {
		return nil, err
	}

	if config.Fallback == "" || config.Fallback == config.Provider {
		return primary, nil
	}

	fallback, err := newGuardedProvider(config.Fallback, config)
	if err != nil {
		return nil, fmt.Errorf("fallback provider: %w", err)
	}
	return NewFallbackSynthesizer(primary, fallback), nil
}

func newGuardedProvider(name string, config *Config) (Synthesizer, error) {
	s, err := newSingleProvider(name, config)
	if err != nil {
		return nil, err
	}
	if config.BreakerMaxFailures > 0 {
		s = NewBreakerSynthesizer(s, config.BreakerMaxFailures, config.BreakerTimeout)
	}
	return s, nil
}

func newSingleProvider(name string, config *Config) (Synthesizer, error) {
	switch name {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)
	case "google":
		return NewGoogleProvider(config), nil
	case "espeak":
		return NewESpeakProvider(config)
	default:
		return nil, fmt.Errorf("unknown audio provider: %s", name)
	}
}

// FallbackSynthesizer wraps a primary provider with a fallback option
type FallbackSynthesizer struct {
	primary  Synthesizer
	fallback Synthesizer
	logger   zerolog.Logger
}

// NewFallbackSynthesizer creates a provider that falls back to secondary if primary fails
func NewFallbackSynthesizer(primary, fallback Synthesizer) *FallbackSynthesizer {
	return &FallbackSynthesizer{
		primary:  primary,
		fallback: fallback,
		logger:   observability.Component("audio"),
	}
}

// Synthesize tries the primary provider first, falls back to the secondary on error
func (p *FallbackSynthesizer) Synthesize(ctx context.Context, text string, lang language.Language) ([]byte, error) {
	audio, err := p.primary.Synthesize(ctx, text, lang)
	if err == nil {
		return audio, nil
	}

	p.logger.Warn().Err(err).Str("primary", p.primary.Name()).Str("fallback", p.fallback.Name()).Msg("primary synthesizer failed, falling back")

	audio, fallbackErr := p.fallback.Synthesize(ctx, text, lang)
	if fallbackErr != nil {
		return nil, fmt.Errorf("both providers failed: primary=%v, fallback=%w", err, fallbackErr)
	}
	return audio, nil
}

// Name returns the provider name
func (p *FallbackSynthesizer) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}
