package importer

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"

	"github.com/scrypster/kindred/pkg/types"
)

// ErrCircuitOpen is returned when the breaker is open and rejects a fetch
// without contacting the remote source.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig holds the configuration for a fetch circuit breaker.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that trip the circuit.
	// Default: 3
	MaxFailures uint32

	// Timeout is how long the circuit stays open before allowing a trial fetch.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultBreakerConfig returns the default breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxFailures: 3,
		Timeout:     30 * time.Second,
	}
}

// Breaker guards a remote Source so a failing spreadsheet backend is not
// hammered on every reload.
type Breaker struct {
	source  Source
	breaker *gobreaker.CircuitBreaker
}

// NewBreaker wraps source with a circuit breaker named name.
func NewBreaker(name string, source Source, cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBreakerConfig().Timeout
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// Cancellation by the caller says nothing about the backend's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &Breaker{
		source:  source,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// Rows implements Source.
func (b *Breaker) Rows(ctx context.Context) ([]types.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := b.breaker.Execute(func() (interface{}, error) {
		return b.source.Rows(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	rows, _ := result.([]types.Row)
	return rows, nil
}

// State returns "closed", "open" or "half-open".
func (b *Breaker) State() string {
	switch b.breaker.State() {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
