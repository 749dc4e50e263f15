package breaker

import (
	"context"
	"errors"
	"time"

	"github.com/mikey/inbox-labeler/internal/core"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Generator wraps a core.TextGenerator with a circuit breaker. While the
// breaker is open calls fail fast, and callers fall back to their defaults.
type Generator struct {
	next core.TextGenerator
	cb   *gobreaker.CircuitBreaker
}

// NewGenerator creates a breaker-guarded generator. The breaker trips after
// maxFailures consecutive failures and stays open for timeout.
func NewGenerator(next core.TextGenerator, maxFailures int, timeout time.Duration, logger *zap.Logger) *Generator {
	if maxFailures <= 0 {
		maxFailures = 5
	}
	settings := gobreaker.Settings{
		Name:        "text-generator",
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(maxFailures)
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation does not count against the model
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &Generator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Generate forwards to the wrapped generator through the breaker
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := g.cb.Execute(func() (interface{}, error) {
		return g.next.Generate(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State returns the breaker state name
func (g *Generator) State() string {
	return g.cb.State().String()
}

// Close closes the wrapped generator when it holds resources
func (g *Generator) Close() error {
	if c, ok := g.next.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
