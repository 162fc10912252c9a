package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// TransientError marks a failure that is safe to retry (429, 5xx, timeouts).
type TransientError struct {
	Err        error
	StatusCode int
}

func (e *TransientError) Error() string { return e.Err.Error() }

func (e *TransientError) Unwrap() error { return e.Err }

// NewTransientError wraps err as transient. statusCode is 0 for network errors.
func NewTransientError(err error, statusCode int) *TransientError {
	return &TransientError{Err: err, StatusCode: statusCode}
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// CheckStatus returns nil for 2xx, a TransientError for retryable statuses
// and a plain StatusError otherwise.
func CheckStatus(url string, statusCode int) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	err := &StatusError{URL: url, StatusCode: statusCode}
	if IsTransientHTTPStatus(statusCode) {
		return NewTransientError(err, statusCode)
	}
	return err
}

var transientMessages = []string{
	"connection reset by peer",
	"broken pipe",
	"temporary failure in name resolution",
	"tls handshake timeout",
	"i/o timeout",
	"server closed idle connection",
	"unexpected eof",
}

// IsTransient reports whether err, or anything it wraps, is worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, p := range transientMessages {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus reports whether statusCode is a retryable server-side condition.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}
