package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
)

var (
	errorHeading      = color.New(color.FgRed, color.Bold).SprintFunc()
	suggestionHeading = color.New(color.FgYellow).SprintFunc()
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var apiErr *api.APIError
	var rateLimitErr *api.RateLimitError
	var circuitBreakerErr *api.CircuitBreakerError

	switch {
	case errors.As(err, &rateLimitErr):
		msg.WriteString(errorHeading("Rate limit exceeded.") + "\n\n")
		lines := []string{fmt.Sprintf("Wait %s and retry", rateLimitErr.RetryAfter.Round(time.Second))}
		if reset := rateLimitErr.Window.Reset; !reset.IsZero() {
			lines = append(lines, "The window resets at "+reset.Local().Format(time.Kitchen))
		}
		lines = append(lines, "Check remaining hits: tw account rate-limit")
		writeSuggestions(&msg, lines...)

	case errors.As(err, &circuitBreakerErr):
		msg.WriteString(errorHeading("Service temporarily unavailable (circuit breaker open).") + "\n\n")
		writeSuggestions(&msg,
			"The API has had multiple failures recently",
			"Wait 30 seconds and retry",
			"Check the API host with: tw ping",
		)

	case errors.Is(err, config.ErrNotConfigured):
		msg.WriteString(errorHeading("Not authenticated.") + "\n\n")
		writeSuggestions(&msg,
			"Run: tw auth login",
			"Or set TW_USERNAME and TW_PASSWORD (or TW_BEARER_TOKEN)",
		)

	case errors.As(err, &apiErr):
		fmt.Fprintf(&msg, "%s %s\n\n", errorHeading(fmt.Sprintf("API error (HTTP %d):", apiErr.StatusCode)), apiErr.Message)
		msg.WriteString(suggestionsForStatusCode(apiErr.StatusCode))
		if apiErr.RequestID != "" {
			fmt.Fprintf(&msg, "\nRequest ID: %s\n", apiErr.RequestID)
		}

	case strings.Contains(err.Error(), "connection refused"):
		msg.WriteString(errorHeading("Connection refused.") + "\n\n")
		writeSuggestions(&msg,
			"Check the base URL: tw auth status",
			"Check your network connection",
		)

	case strings.Contains(err.Error(), "no such host"):
		msg.WriteString(errorHeading("DNS resolution failed.") + "\n\n")
		writeSuggestions(&msg,
			"Check the base URL spelling",
			"Verify your DNS settings",
		)

	case strings.Contains(err.Error(), "certificate"):
		msg.WriteString(errorHeading("TLS certificate error.") + "\n\n")
		writeSuggestions(&msg,
			"Verify the server's certificate",
			"Ensure the base URL uses https:// correctly",
		)

	default:
		fmt.Fprintf(&msg, "%s %s\n", errorHeading("Error:"), err.Error())
	}

	return msg.String()
}

func writeSuggestions(b *strings.Builder, lines ...string) {
	b.WriteString(suggestionHeading("Suggestions:") + "\n")
	for _, line := range lines {
		fmt.Fprintf(b, "  - %s\n", line)
	}
}

func suggestionsForStatusCode(code int) string {
	var b strings.Builder
	switch code {
	case 400:
		writeSuggestions(&b, "Check your request parameters", "Use --debug to see the full request")
	case 401:
		writeSuggestions(&b, "Your credentials may be invalid", "Run: tw auth login")
	case 403:
		writeSuggestions(&b, "You don't have permission for this action", "Protected accounts only share with approved followers")
	case 404:
		writeSuggestions(&b, "The resource doesn't exist", "Check the ID or screen name", "The resource may have been deleted")
	case 420, 429:
		writeSuggestions(&b, "Too many requests", "Check remaining hits: tw account rate-limit")
	case 500, 502, 503, 504:
		writeSuggestions(&b, "Server error, not caused by your request", "Wait and retry")
	default:
		writeSuggestions(&b, "Use --debug for more details")
	}
	return b.String()
}
