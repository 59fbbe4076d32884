package api

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
)

// StatusEnhanceYourCalm is the v1 search and trends rate-limit status. The
// REST endpoints answer 429 for the same condition.
const StatusEnhanceYourCalm = 420

const (
	DefaultMaxRateLimitRetries     = 3
	DefaultMax5xxRetries           = 1
	DefaultRateLimitBaseDelay      = 1 * time.Second
	DefaultServerErrorRetryDelay   = 1 * time.Second
	DefaultMaxRateLimitWait        = 2 * time.Minute
	DefaultCircuitBreakerThreshold = 5
	DefaultCircuitBreakerResetTime = 30 * time.Second
)

// RetryConfig controls how the client reacts to rate limiting and server
// errors. Only idempotent requests are retried.
type RetryConfig struct {
	MaxRateLimitRetries int
	Max5xxRetries       int
	RateLimitBaseDelay  time.Duration
	// MaxRateLimitWait caps a single rate-limit sleep. Windows reset hourly,
	// so a reset further away than this is returned as a RateLimitError.
	MaxRateLimitWait        time.Duration
	ServerErrorRetryDelay   time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerResetTime time.Duration
}

// DefaultRetryConfig returns the built-in policy with TW_* environment
// overrides applied. Unparseable values are ignored.
//
//	TW_MAX_RATE_LIMIT_RETRIES      retries after 420/429 (3)
//	TW_MAX_5XX_RETRIES             retries after 5xx (1)
//	TW_RATE_LIMIT_DELAY            backoff base without rate-limit headers (1s)
//	TW_MAX_RATE_LIMIT_WAIT         longest single rate-limit sleep (2m)
//	TW_SERVER_ERROR_DELAY          pause before a 5xx retry (1s)
//	TW_CIRCUIT_BREAKER_THRESHOLD   consecutive 5xx before failing fast (5)
//	TW_CIRCUIT_BREAKER_RESET_TIME  how long to fail fast (30s)
func DefaultRetryConfig() RetryConfig {
	cfg := RetryConfig{
		MaxRateLimitRetries:     DefaultMaxRateLimitRetries,
		Max5xxRetries:           DefaultMax5xxRetries,
		RateLimitBaseDelay:      DefaultRateLimitBaseDelay,
		MaxRateLimitWait:        DefaultMaxRateLimitWait,
		ServerErrorRetryDelay:   DefaultServerErrorRetryDelay,
		CircuitBreakerThreshold: DefaultCircuitBreakerThreshold,
		CircuitBreakerResetTime: DefaultCircuitBreakerResetTime,
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg
}

func (c *RetryConfig) applyEnv(lookup func(string) (string, bool)) {
	ints := map[string]*int{
		"TW_MAX_RATE_LIMIT_RETRIES":    &c.MaxRateLimitRetries,
		"TW_MAX_5XX_RETRIES":           &c.Max5xxRetries,
		"TW_CIRCUIT_BREAKER_THRESHOLD": &c.CircuitBreakerThreshold,
	}
	for key, dst := range ints {
		if raw, ok := lookup(key); ok && strings.TrimSpace(raw) != "" {
			if n, err := cast.ToIntE(strings.TrimSpace(raw)); err == nil {
				*dst = n
			}
		}
	}

	durations := map[string]*time.Duration{
		"TW_RATE_LIMIT_DELAY":           &c.RateLimitBaseDelay,
		"TW_MAX_RATE_LIMIT_WAIT":        &c.MaxRateLimitWait,
		"TW_SERVER_ERROR_DELAY":         &c.ServerErrorRetryDelay,
		"TW_CIRCUIT_BREAKER_RESET_TIME": &c.CircuitBreakerResetTime,
	}
	for key, dst := range durations {
		if raw, ok := lookup(key); ok && strings.TrimSpace(raw) != "" {
			if d, err := time.ParseDuration(strings.TrimSpace(raw)); err == nil {
				*dst = d
			}
		}
	}
}

// isRateLimitStatus reports the two statuses the API uses for throttling.
func isRateLimitStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == StatusEnhanceYourCalm
}

// rateLimitWait picks the pause before retrying a throttled request:
// Retry-After first, then the X-RateLimit-Reset epoch, then exponential
// backoff from RateLimitBaseDelay.
func (c RetryConfig) rateLimitWait(h http.Header, retries int, now time.Time) time.Duration {
	if d, ok := retryAfterDuration(h, now); ok {
		return d
	}
	if w := parseRateLimitWindow(h); !w.Reset.IsZero() {
		if d := w.Reset.Sub(now); d > 0 {
			return d
		}
		return 0
	}
	return c.RateLimitBaseDelay * time.Duration(1<<retries)
}

// canWait reports whether d fits under MaxRateLimitWait. Zero means no cap.
func (c RetryConfig) canWait(d time.Duration) bool {
	return c.MaxRateLimitWait <= 0 || d <= c.MaxRateLimitWait
}

// retryAfterDuration parses Retry-After as seconds or an HTTP date.
func retryAfterDuration(h http.Header, now time.Time) (time.Duration, bool) {
	value := strings.TrimSpace(h.Get("Retry-After"))
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(max(secs, 0)) * time.Second, true
	}
	if t, err := http.ParseTime(value); err == nil {
		return max(t.Sub(now), 0), true
	}
	return 0, false
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// circuitBreaker fails requests fast after repeated server errors. Once
// the cooldown has passed it lets requests through half-open; the next
// outcome closes it or opens it for another cooldown.
type circuitBreaker struct {
	mu        sync.Mutex
	state     breakerState
	failures  int
	openedAt  time.Time
	threshold int
	cooldown  time.Duration
	now       func() time.Time
}

func (cb *circuitBreaker) clock() time.Time {
	if cb.now != nil {
		return cb.now()
	}
	return time.Now()
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == breakerOpen {
		cooldown := cb.cooldown
		if cooldown <= 0 {
			cooldown = DefaultCircuitBreakerResetTime
		}
		if cb.clock().Sub(cb.openedAt) >= cooldown {
			cb.state = breakerHalfOpen
		}
	}
	return cb.state != breakerOpen
}

func (cb *circuitBreaker) success() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = breakerClosed
	cb.failures = 0
}

// failure records a server error and reports whether it opened the breaker.
func (cb *circuitBreaker) failure() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	threshold := cb.threshold
	if threshold <= 0 {
		threshold = DefaultCircuitBreakerThreshold
	}
	trip := cb.state == breakerHalfOpen ||
		(cb.state == breakerClosed && cb.failures >= threshold)
	if trip {
		cb.state = breakerOpen
		cb.openedAt = cb.clock()
	}
	return trip
}

func (cb *circuitBreaker) reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = breakerClosed
	cb.failures = 0
	cb.openedAt = time.Time{}
}

func (cb *circuitBreaker) configure(threshold int, cooldown time.Duration) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.threshold = threshold
	cb.cooldown = cooldown
}
