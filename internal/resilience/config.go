package resilience

import "time"

// FromRetryConfig builds a RetryConfig from configuration values, keeping
// FetchRetryConfig defaults for non-positive inputs.
func FromRetryConfig(maxAttempts, backoffMs int) RetryConfig {
	cfg := FetchRetryConfig()
	if maxAttempts > 0 {
		cfg.MaxAttempts = maxAttempts
	}
	if backoffMs > 0 {
		cfg.InitialBackoff = time.Duration(backoffMs) * time.Millisecond
		cfg.MaxBackoff = 2 * cfg.InitialBackoff
	}
	return cfg
}

// FromCircuitConfig builds a CircuitBreakerConfig from configuration values.
func FromCircuitConfig(failureThreshold, resetTimeoutSecs int) CircuitBreakerConfig {
	cfg := DefaultCircuitBreakerConfig()
	if failureThreshold > 0 {
		cfg.FailureThreshold = failureThreshold
	}
	if resetTimeoutSecs > 0 {
		cfg.ResetTimeout = time.Duration(resetTimeoutSecs) * time.Second
	}
	return cfg
}
