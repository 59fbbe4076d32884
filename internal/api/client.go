package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/tweetkit/tw/internal/debug"
	"github.com/tweetkit/tw/internal/validation"
)

const (
	DefaultBaseURL = "https://api.twitter.com"
	DefaultTimeout = 30 * time.Second
)

// Credentials authenticate the client. A bearer token wins over basic auth.
type Credentials struct {
	Username    string
	Password    string
	BearerToken string
}

// Client executes requests against the REST API.
//
// The client includes a circuit breaker that tracks server failures across requests.
// Circuit breaker state persists for the lifetime of the client, which may affect
// unrelated requests if the client is reused across different logical sessions.
//
// Use ResetCircuitBreaker() to clear the circuit breaker state when reusing a client
// between test runs, logical sessions, or after recovering from a known transient failure.
type Client struct {
	BaseURL           string
	Credentials       Credentials
	HTTP              *http.Client
	UserAgent         string
	RetryConfig       RetryConfig     // retry and circuit breaker configuration
	skipURLValidation bool            // internal flag for testing only
	circuitBreaker    *circuitBreaker // circuit breaker for retry logic
	validatedBaseURL  bool
	validateMu        sync.Mutex
}

var _ Requester = (*Client)(nil)

var validateBaseURL = validation.ValidateBaseURL

// New creates a client for baseURL. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, creds Credentials) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	var rt http.RoundTripper = transport
	if creds.BearerToken != "" {
		rt = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: creds.BearerToken, TokenType: "Bearer"}),
			Base:   transport,
		}
	}

	// Allow localhost URLs when TW_TESTING=1 is set (for integration tests)
	skipValidation := os.Getenv("TW_TESTING") == "1"

	retryCfg := DefaultRetryConfig()
	return &Client{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		Credentials:       creds,
		RetryConfig:       retryCfg,
		skipURLValidation: skipValidation,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: rt,
		},
		circuitBreaker: &circuitBreaker{
			threshold: retryCfg.CircuitBreakerThreshold,
			cooldown:  retryCfg.CircuitBreakerResetTime,
		},
	}
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL string, creds Credentials) *Client {
	c := New(baseURL, creds)
	c.skipURLValidation = true
	return c
}

// ResetCircuitBreaker clears the circuit breaker state, resetting failure counts
// and closing the circuit.
func (c *Client) ResetCircuitBreaker() {
	if c.circuitBreaker != nil {
		c.circuitBreaker.reset()
	}
}

// SetRetryConfig updates the retry configuration and aligns circuit breaker settings.
func (c *Client) SetRetryConfig(cfg RetryConfig) {
	c.RetryConfig = cfg
	if c.circuitBreaker != nil {
		c.circuitBreaker.configure(cfg.CircuitBreakerThreshold, cfg.CircuitBreakerResetTime)
	}
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}

	if err := validateBaseURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	c.validatedBaseURL = true
	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, opts)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, opts)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, opts)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, path, opts)
}

// Do sends one request with retry and circuit breaker handling. On a non-2xx
// status it returns both the response and an *APIError.
func (c *Client) Do(ctx context.Context, method, path string, opts *RequestOptions) (*Response, error) {
	if opts == nil {
		opts = &RequestOptions{}
	}
	url := c.requestURL(path, opts.Query)
	body := opts.EncodedBody()

	resp, err := c.execute(ctx, method, url, body, opts)
	if err != nil {
		return resp, err
	}
	if !opts.RawJSON {
		doc, err := ParseDocument(resp.Body)
		if err != nil {
			return resp, err
		}
		resp.Doc = doc
	}
	return resp, nil
}

func (c *Client) requestURL(path string, query Params) string {
	if path != "" && path[0] != '/' {
		path = "/" + path
	}
	url := c.BaseURL + path
	if query.Len() > 0 {
		url += "?" + query.Encode()
	}
	return url
}

// execute performs HTTP requests with retry logic. The body is reused for
// every attempt.
func (c *Client) execute(ctx context.Context, method, url string, body []byte, opts *RequestOptions) (*Response, error) {
	if c.circuitBreaker != nil && !c.circuitBreaker.allow() {
		return nil, &CircuitBreakerError{}
	}

	// Validate BaseURL at request time to prevent DNS rebinding attacks
	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}

	isIdempotent := method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
	contentType := opts.ContentType()

	var retriesRateLimit, retries5xx int
	attempt := 0

	for {
		attempt++
		start := time.Now()
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		if c.Credentials.BearerToken == "" && c.Credentials.Username != "" {
			req.SetBasicAuth(c.Credentials.Username, c.Credentials.Password)
		}
		if c.UserAgent != "" {
			req.Header.Set("User-Agent", c.UserAgent)
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		req.Header.Set("Accept", "application/json")
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}

		httpResp, err := c.HTTP.Do(req)
		if err != nil {
			if debug.IsEnabled(ctx) {
				slog.Debug("request failed", "method", method, "url", url, "attempt", attempt, "error", err)
			}
			return nil, fmt.Errorf("request failed: %w", err)
		}

		respBody, err := io.ReadAll(httpResp.Body)
		_ = httpResp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if debug.IsEnabled(ctx) {
			slog.Debug("request complete", "method", method, "url", url, "status", httpResp.StatusCode, "attempt", attempt, "duration", time.Since(start))
		}
		resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: respBody}

		if isRateLimitStatus(httpResp.StatusCode) {
			wait := c.RetryConfig.rateLimitWait(httpResp.Header, retriesRateLimit, time.Now())
			if !isIdempotent || retriesRateLimit >= c.RetryConfig.MaxRateLimitRetries || !c.RetryConfig.canWait(wait) {
				return resp, &RateLimitError{
					StatusCode: httpResp.StatusCode,
					RetryAfter: wait,
					Window:     parseRateLimitWindow(httpResp.Header),
				}
			}
			slog.Info("rate limited, retrying", "status", httpResp.StatusCode, "delay", wait, "attempt", retriesRateLimit+1)
			if err := sleepWithContext(ctx, wait); err != nil {
				return nil, err
			}
			retriesRateLimit++
			continue
		}

		if httpResp.StatusCode >= 500 {
			if c.circuitBreaker != nil {
				c.circuitBreaker.failure()
			}
			if isIdempotent && retries5xx < c.RetryConfig.Max5xxRetries {
				slog.Info("server error, retrying", "status", httpResp.StatusCode)
				if err := sleepWithContext(ctx, c.RetryConfig.ServerErrorRetryDelay); err != nil {
					return nil, err
				}
				retries5xx++
				continue
			}
		}

		if httpResp.StatusCode >= 400 {
			return resp, &APIError{
				StatusCode: httpResp.StatusCode,
				Code:       resp.errorCode(),
				Message:    sanitizeErrorBody(respBody),
				RequestID:  requestIDFromHeader(httpResp.Header),
				Path:       strings.TrimPrefix(url, c.BaseURL),
			}
		}

		if c.circuitBreaker != nil {
			c.circuitBreaker.success()
		}
		return resp, nil
	}
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	return header.Get("X-Transaction")
}

// sanitizeErrorBody extracts the error indicator from an API response
// without echoing the rest of the body.
func sanitizeErrorBody(body []byte) string {
	doc, err := ParseDocument(body)
	if err != nil || doc.IsNull() {
		return "API request failed (response body redacted for security)"
	}
	msg := (&Response{Doc: doc}).ErrorMessage()
	if msg == "" {
		return "API request failed (response body redacted for security)"
	}
	return msg
}
