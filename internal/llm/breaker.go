package llm

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/readaloud/internal/resilience"
)

// BreakerModel guards a model with a circuit breaker. While the breaker is
// open calls fail immediately with gobreaker.ErrOpenState.
type BreakerModel struct {
	model Model
	cb    *gobreaker.CircuitBreaker
}

// NewBreakerModel wraps model; the breaker opens after maxFailures
// consecutive failures and probes again after timeout
func NewBreakerModel(name string, model Model, maxFailures uint32, timeout time.Duration) *BreakerModel {
	return &BreakerModel{
		model: model,
		cb:    resilience.NewBreaker(name, maxFailures, timeout),
	}
}

// Complete forwards to the wrapped model through the breaker
func (m *BreakerModel) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := m.cb.Execute(func() (interface{}, error) {
		return m.model.Complete(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the current breaker state
func (m *BreakerModel) State() gobreaker.State {
	return m.cb.State()
}
