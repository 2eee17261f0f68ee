package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("generator unavailable")

// Breaker stops calling a failing generator for a while. Open-state calls
// fail immediately with ErrUnavailable.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker
}

// NewBreaker wraps g in a circuit breaker.
func NewBreaker(g Generator, cfg Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        g.Name(),
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("generator breaker state changed",
				zap.String("generator", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// the caller's own cancellation says nothing about the generator
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Breaker{
		next: g,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Suggest implements Generator.
func (b *Breaker) Suggest(ctx context.Context, candidates []string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Suggest(ctx, candidates)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", err
	}
	return out.(string), nil
}

// Name implements Generator.
func (b *Breaker) Name() string {
	return b.next.Name()
}

// Open reports whether calls are currently being refused.
func (b *Breaker) Open() bool {
	return b.cb.State() == gobreaker.StateOpen
}

// State returns the breaker state name.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
