// Package resilience builds the circuit breakers that guard calls to the
// language model and the synthesis engines.
package resilience

import (
	"time"

	"github.com/sony/gobreaker"

	"codeberg.org/snonux/readaloud/internal/observability"
)

// NewBreaker returns a circuit breaker that opens after maxFailures
// consecutive failures and lets a single probe through after timeout.
// State changes are logged and published as metrics.
func NewBreaker(name string, maxFailures uint32, timeout time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(Settings(name, maxFailures, timeout))
}

// Settings returns the gobreaker settings used by NewBreaker
func Settings(name string, maxFailures uint32, timeout time.Duration) gobreaker.Settings {
	if maxFailures == 0 {
		maxFailures = 1
	}
	logger := observability.Component("breaker")
	observability.SetBreakerState(name, int(gobreaker.StateClosed))

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.SetBreakerState(name, int(to))
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	}
}
