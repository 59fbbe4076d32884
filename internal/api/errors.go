package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Numeric codes the API puts in {"errors":[{"code":N,"message":...}]}.
const (
	codeCouldNotAuthenticate = 32
	codePageNotFound         = 34
	codeRateLimitExceeded    = 88
	codeInvalidToken         = 89
	codeNotAuthorizedStatus  = 179
	codeDuplicateStatus      = 187
)

// APIError is a non-2xx response. Code is the API's own error code when
// the body carried one.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
	RequestID  string
	Path       string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("API error (status %d, code %d): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitWindow is the X-RateLimit-* header triple sent with every
// response. Zero fields mean the header was absent.
type RateLimitWindow struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

func parseRateLimitWindow(h http.Header) RateLimitWindow {
	var w RateLimitWindow
	if h == nil {
		return w
	}
	w.Limit, _ = strconv.Atoi(strings.TrimSpace(h.Get("X-RateLimit-Limit")))
	w.Remaining, _ = strconv.Atoi(strings.TrimSpace(h.Get("X-RateLimit-Remaining")))
	if epoch, err := strconv.ParseInt(strings.TrimSpace(h.Get("X-RateLimit-Reset")), 10, 64); err == nil && epoch > 0 {
		w.Reset = time.Unix(epoch, 0)
	}
	return w
}

// RateLimitError is a throttled request (HTTP 420 or 429) that was not
// retried: a write, retries used up, or a window resetting too far ahead.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Window     RateLimitWindow
}

func (e *RateLimitError) Error() string {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusTooManyRequests
	}
	return fmt.Sprintf("rate limited (HTTP %d), retry after %s", status, e.RetryAfter.Round(time.Second))
}

// CircuitBreakerError means recent server errors tripped the breaker and
// the request was not sent.
type CircuitBreakerError struct{}

func (e *CircuitBreakerError) Error() string {
	return "circuit breaker is open, too many recent failures"
}

func IsRateLimitError(err error) bool {
	var e *RateLimitError
	return errors.As(err, &e)
}

// IsAuthError reports a 401 or a credential error code.
func IsAuthError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusUnauthorized ||
		apiErr.Code == codeCouldNotAuthenticate || apiErr.Code == codeInvalidToken
}

func IsCircuitBreakerError(err error) bool {
	var e *CircuitBreakerError
	return errors.As(err, &e)
}

// IsNotFoundError reports a missing resource. IsListMember relies on it
// to turn a missing membership into false.
func IsNotFoundError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound ||
		apiErr.Code == codePageNotFound ||
		strings.Contains(strings.ToLower(apiErr.Message), "not found")
}
