package config

import (
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

var breakerTimeouts = map[string]time.Duration{
	"Resend-Email": 60 * time.Second,
}

// NewCircuitBreaker opens after three consecutive failures and probes again
// once the per-name timeout has elapsed.
func NewCircuitBreaker(name string, log *zap.Logger) *gobreaker.CircuitBreaker {
	timeout, ok := breakerTimeouts[name]
	if !ok {
		timeout = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}
