package audio

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/readaloud/internal/language"
	"codeberg.org/snonux/readaloud/internal/resilience"
)

// BreakerSynthesizer guards a provider with a circuit breaker so a dead
// engine fails fast instead of stalling every request
type BreakerSynthesizer struct {
	synth Synthesizer
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerSynthesizer wraps synth with a breaker named after the provider
func NewBreakerSynthesizer(synth Synthesizer, maxFailures uint32, timeout time.Duration) *BreakerSynthesizer {
	return &BreakerSynthesizer{
		synth: synth,
		cb:    resilience.NewBreaker("tts-"+synth.Name(), maxFailures, timeout),
	}
}

// Synthesize forwards to the wrapped provider through the breaker
func (b *BreakerSynthesizer) Synthesize(ctx context.Context, text string, lang language.Language) ([]byte, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.synth.Synthesize(ctx, text, lang)
	})
	if err != nil {
		return nil, err
	}
	return out.([]byte), nil
}

// Name returns the wrapped provider name
func (b *BreakerSynthesizer) Name() string {
	return b.synth.Name()
}
