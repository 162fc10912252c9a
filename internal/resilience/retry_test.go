package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func TestDo_RetriesTransientThenSucceeds(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastRetry(2), func(context.Context) error {
		calls++
		if calls == 1 {
			return NewTransientError(errors.New("busy"), 503)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_StopsAtMaxAttempts(t *testing.T) {
	var calls int
	err := Do(context.Background(), fastRetry(2), func(context.Context) error {
		calls++
		return NewTransientError(errors.New("rate limited"), 429)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDo_PermanentErrorNotRetried(t *testing.T) {
	var calls int
	_ = Do(context.Background(), fastRetry(5), func(context.Context) error {
		calls++
		return errors.New("404")
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	_ = Do(ctx, RetryConfig{MaxAttempts: 5, InitialBackoff: time.Hour}, func(context.Context) error {
		calls++
		cancel()
		return NewTransientError(errors.New("busy"), 503)
	})
	if calls != 1 {
		t.Errorf("expected 1 call after cancel, got %d", calls)
	}
}

func TestDo_OnRetry(t *testing.T) {
	var attempts []int
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, _ error) { attempts = append(attempts, attempt) }
	_ = Do(context.Background(), cfg, func(context.Context) error {
		return NewTransientError(errors.New("busy"), 502)
	})
	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("unexpected retry attempts: %v", attempts)
	}
}

func TestDoVal_ReturnsValue(t *testing.T) {
	v, err := DoVal(context.Background(), fastRetry(2), func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || v != 42 {
		t.Errorf("got %d, %v", v, err)
	}
}

func TestFetchRetryConfig(t *testing.T) {
	cfg := FetchRetryConfig()
	if cfg.MaxAttempts != 2 {
		t.Errorf("expected 2 attempts, got %d", cfg.MaxAttempts)
	}
	if cfg.InitialBackoff != time.Second {
		t.Errorf("expected 1s backoff, got %s", cfg.InitialBackoff)
	}
}

func TestFromRetryConfig(t *testing.T) {
	cfg := FromRetryConfig(3, 10)
	if cfg.MaxAttempts != 3 || cfg.InitialBackoff != 10*time.Millisecond || cfg.MaxBackoff != 20*time.Millisecond {
		t.Errorf("unexpected config: %+v", cfg)
	}
	def := FromRetryConfig(0, 0)
	if def.MaxAttempts != 2 || def.InitialBackoff != time.Second {
		t.Errorf("defaults not kept: %+v", def)
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	cfg := withDefaults(RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: 300 * time.Millisecond, Multiplier: 2})
	if d := backoff(0, cfg); d != 100*time.Millisecond {
		t.Errorf("attempt 0: %s", d)
	}
	if d := backoff(1, cfg); d != 200*time.Millisecond {
		t.Errorf("attempt 1: %s", d)
	}
	if d := backoff(5, cfg); d != 300*time.Millisecond {
		t.Errorf("attempt 5 not capped: %s", d)
	}
}

func TestBackoff_Jitter(t *testing.T) {
	cfg := withDefaults(RetryConfig{InitialBackoff: 100 * time.Millisecond, JitterFraction: 0.5})
	for range 50 {
		d := backoff(0, cfg)
		if d < 50*time.Millisecond || d > 150*time.Millisecond {
			t.Fatalf("jittered delay out of range: %s", d)
		}
	}
}
