package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is the machine-readable class of a failure, printed in JSON
// error output and mapped to exit codes by the CLI.
type ErrorCode string

const (
	ErrBadRequest   ErrorCode = "bad_request"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrForbidden    ErrorCode = "forbidden"
	ErrNotFound     ErrorCode = "not_found"
	ErrDuplicate    ErrorCode = "duplicate"
	ErrValidation   ErrorCode = "validation_failed"
	ErrRateLimited  ErrorCode = "rate_limited"
	ErrServerError  ErrorCode = "server_error"
	ErrTimeout      ErrorCode = "timeout"
	ErrCircuitOpen  ErrorCode = "circuit_open"
	ErrUnknown      ErrorCode = "unknown"
)

var errorCodeInfo = map[ErrorCode]struct {
	retryable  bool
	suggestion string
}{
	ErrBadRequest:   {false, "Check the request parameters"},
	ErrUnauthorized: {false, "Run 'tw auth login' to store credentials"},
	ErrForbidden:    {false, "The account may not do this (protected user or suspended account)"},
	ErrNotFound:     {false, "Check the status, user or list identifier"},
	ErrDuplicate:    {false, "The same text was posted recently; change it and retry"},
	ErrValidation:   {false, "Check the input values"},
	ErrRateLimited:  {true, "Wait for the rate-limit window to reset (tw account rate-limit)"},
	ErrServerError:  {true, "The API is over capacity or failing; try again later"},
	ErrTimeout:      {true, "Check network connectivity and retry"},
	ErrCircuitOpen:  {true, "Too many recent failures; wait before retrying"},
}

// IsRetryable reports whether the same request may succeed later.
func (c ErrorCode) IsRetryable() bool {
	return errorCodeInfo[c].retryable
}

func (c ErrorCode) Suggestion() string {
	return errorCodeInfo[c].suggestion
}

// Classify maps any error from the client or the CLI to an ErrorCode. The
// API's numeric error code wins over the HTTP status when both are known.
func Classify(err error) ErrorCode {
	var (
		se     *StructuredError
		apiErr *APIError
		rlErr  *RateLimitError
		cbErr  *CircuitBreakerError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return se.Code
	case errors.As(err, &rlErr):
		return ErrRateLimited
	case errors.As(err, &cbErr):
		return ErrCircuitOpen
	case errors.As(err, &apiErr):
		return classifyAPIError(apiErr)
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return ErrUnknown
	}
}

func classifyAPIError(e *APIError) ErrorCode {
	switch e.Code {
	case codeRateLimitExceeded:
		return ErrRateLimited
	case codeCouldNotAuthenticate, codeInvalidToken:
		return ErrUnauthorized
	case codePageNotFound:
		return ErrNotFound
	case codeNotAuthorizedStatus:
		return ErrForbidden
	case codeDuplicateStatus:
		return ErrDuplicate
	}

	switch {
	case isRateLimitStatus(e.StatusCode):
		return ErrRateLimited
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode >= 500 && e.StatusCode < 600:
		return ErrServerError
	default:
		return ErrUnknown
	}
}

// StructuredError is the JSON form of an error printed in json and yaml
// output modes.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewValidationError reports a flag or argument outside its allowed set.
func NewValidationError(field, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Suggestion:    "Use one of: " + strings.Join(allowed, ", "),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

// StructuredErrorFromError describes err for JSON output. Errors that are
// already structured are returned as is.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}
	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	code := Classify(err)
	out := &StructuredError{
		Code:       code,
		Message:    err.Error(),
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}

	var apiErr *APIError
	var rlErr *RateLimitError
	switch {
	case errors.As(err, &rlErr):
		out.Context = map[string]any{"retry_after": rlErr.RetryAfter.String()}
		if rlErr.Window.Limit > 0 {
			out.Context["limit"] = rlErr.Window.Limit
			out.Context["remaining"] = rlErr.Window.Remaining
		}
		if !rlErr.Window.Reset.IsZero() {
			out.Context["reset"] = rlErr.Window.Reset.UTC().Format("2006-01-02T15:04:05Z")
		}
	case errors.As(err, &apiErr):
		out.Message = apiErr.Message
		out.Context = map[string]any{"status_code": apiErr.StatusCode}
		if apiErr.Code != 0 {
			out.Context["api_code"] = apiErr.Code
		}
		if apiErr.RequestID != "" {
			out.Context["request_id"] = apiErr.RequestID
		}
		if apiErr.Path != "" {
			out.Context["path"] = apiErr.Path
		}
	}
	return out
}
