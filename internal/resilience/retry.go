package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls bounded retries with exponential backoff.
type RetryConfig struct {
	// MaxAttempts counts the first try. 1 disables retries.
	MaxAttempts int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// JitterFraction spreads each delay by ±fraction. 0 disables jitter.
	JitterFraction float64

	// ShouldRetry overrides IsTransient when set.
	ShouldRetry func(err error) bool

	// OnRetry runs before each backoff sleep.
	OnRetry func(attempt int, err error)
}

// FetchRetryConfig is the page-fetch policy: two attempts with a short pause.
func FetchRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    2,
		InitialBackoff: time.Second,
		MaxBackoff:     2 * time.Second,
		Multiplier:     2.0,
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, exhausts
// MaxAttempts, or ctx is done.
func Do(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) error) error {
	_, err := DoVal(ctx, cfg, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// DoVal is Do for functions that return a value.
func DoVal[T any](ctx context.Context, cfg RetryConfig, fn func(ctx context.Context) (T, error)) (T, error) {
	cfg = withDefaults(cfg)
	retryable := cfg.ShouldRetry
	if retryable == nil {
		retryable = IsTransient
	}

	var zero T
	var err error
	for attempt := range cfg.MaxAttempts {
		var val T
		val, err = fn(ctx)
		if err == nil {
			return val, nil
		}
		if ctx.Err() != nil || !retryable(err) || attempt == cfg.MaxAttempts-1 {
			return zero, err
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err)
		}

		timer := time.NewTimer(backoff(attempt, cfg))
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, err
		case <-timer.C:
		}
	}
	return zero, err
}

func withDefaults(cfg RetryConfig) RetryConfig {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 2
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 10 * time.Second
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = 2.0
	}
	if cfg.JitterFraction < 0 {
		cfg.JitterFraction = 0
	}
	return cfg
}

func backoff(attempt int, cfg RetryConfig) time.Duration {
	d := math.Min(float64(cfg.InitialBackoff)*math.Pow(cfg.Multiplier, float64(attempt)), float64(cfg.MaxBackoff))
	if cfg.JitterFraction > 0 {
		d += (rand.Float64()*2 - 1) * d * cfg.JitterFraction
	}
	return time.Duration(math.Max(d, 0))
}

// RetryLogger returns an OnRetry callback that logs at Warn.
func RetryLogger(operation, target string) func(int, error) {
	return func(attempt int, err error) {
		zap.L().Warn("retrying",
			zap.String("operation", operation),
			zap.String("target", target),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
}
