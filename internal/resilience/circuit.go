// Package resilience provides retry and circuit breaker helpers for page
// fetching and rendering.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// CircuitState is the state of a CircuitBreaker.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned without calling fn while the circuit is open.
var ErrCircuitOpen = eris.New("circuit breaker is open")

// CircuitBreakerConfig controls a CircuitBreaker.
type CircuitBreakerConfig struct {
	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold int
	// ResetTimeout is how long the circuit stays open before a probe is allowed.
	ResetTimeout time.Duration
	// ShouldTrip decides which errors count as failures. Nil counts every error.
	ShouldTrip func(err error) bool
	// OnStateChange observes transitions. Called with the breaker lock held.
	OnStateChange func(from, to CircuitState)
}

// DefaultCircuitBreakerConfig opens after 5 failures and probes after 30s.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{FailureThreshold: 5, ResetTimeout: 30 * time.Second}
}

// CircuitBreaker short-circuits calls to a failing dependency. A single
// successful probe in half-open closes it again.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu          sync.Mutex
	state       CircuitState
	failures    int
	lastFailure time.Time

	nowFunc func() time.Time
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = def.ResetTimeout
	}
	return &CircuitBreaker{cfg: cfg, nowFunc: time.Now}
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := ExecuteVal(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// ExecuteVal is Execute for functions that return a value.
func ExecuteVal[T any](ctx context.Context, cb *CircuitBreaker, fn func(ctx context.Context) (T, error)) (T, error) {
	if err := cb.allow(); err != nil {
		var zero T
		return zero, err
	}
	val, err := fn(ctx)
	cb.record(err)
	return val, err
}

// State returns the current state, reporting half-open once the reset timeout has elapsed.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == CircuitOpen && cb.nowFunc().Sub(cb.lastFailure) >= cb.cfg.ResetTimeout {
		return CircuitHalfOpen
	}
	return cb.state
}

// Reset closes the circuit and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
	cb.transition(CircuitClosed)
}

func (cb *CircuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != CircuitOpen {
		return nil
	}
	if cb.nowFunc().Sub(cb.lastFailure) >= cb.cfg.ResetTimeout {
		cb.transition(CircuitHalfOpen)
		return nil
	}
	return ErrCircuitOpen
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	trips := err != nil
	if trips && cb.cfg.ShouldTrip != nil {
		trips = cb.cfg.ShouldTrip(err)
	}
	if !trips {
		cb.failures = 0
		cb.transition(CircuitClosed)
		return
	}

	cb.failures++
	cb.lastFailure = cb.nowFunc()
	if cb.state == CircuitHalfOpen || cb.failures >= cb.cfg.FailureThreshold {
		cb.transition(CircuitOpen)
	}
}

func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	if cb.cfg.OnStateChange != nil {
		cb.cfg.OnStateChange(from, to)
	}
}
