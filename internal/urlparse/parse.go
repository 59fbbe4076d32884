// Package urlparse extracts resource references from web URLs pasted on the
// command line, such as https://twitter.com/jack/status/20.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Resource kinds recognised in a web URL.
const (
	KindUser   = "user"
	KindStatus = "status"
	KindList   = "list"
)

// ParsedURL is a resource reference extracted from a web URL.
type ParsedURL struct {
	Kind       string
	ScreenName string
	StatusID   int64  // set for KindStatus
	ListSlug   string // set for KindList
}

var webHosts = map[string]bool{
	"twitter.com":        true,
	"www.twitter.com":    true,
	"mobile.twitter.com": true,
	"x.com":              true,
	"www.x.com":          true,
}

var (
	statusPattern = regexp.MustCompile(`^/([A-Za-z0-9_]{1,15})/status(?:es)?/(\d+)/?$`)
	listPattern   = regexp.MustCompile(`^/([A-Za-z0-9_]{1,15})/lists/([A-Za-z0-9_-]+)/?$`)
	userPattern   = regexp.MustCompile(`^/([A-Za-z0-9_]{1,15})/?$`)
)

// IsWebURL reports whether s looks like a URL rather than a bare identifier.
func IsWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Parse extracts the user, status or list a web URL points at. The legacy
// "#!/" fragment form is accepted.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}
	if !webHosts[strings.ToLower(parsed.Hostname())] {
		return nil, fmt.Errorf("unsupported host %q", parsed.Hostname())
	}

	path := parsed.Path
	if strings.HasPrefix(parsed.Fragment, "!/") {
		path = parsed.Fragment[1:]
	}

	if m := statusPattern.FindStringSubmatch(path); m != nil {
		id, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid status ID: %w", err)
		}
		return &ParsedURL{Kind: KindStatus, ScreenName: m[1], StatusID: id}, nil
	}
	if m := listPattern.FindStringSubmatch(path); m != nil {
		return &ParsedURL{Kind: KindList, ScreenName: m[1], ListSlug: m[2]}, nil
	}
	if m := userPattern.FindStringSubmatch(path); m != nil {
		return &ParsedURL{Kind: KindUser, ScreenName: m[1]}, nil
	}
	return nil, fmt.Errorf("unrecognised URL path %q: expected /{user}, /{user}/status/{id} or /{user}/lists/{slug}", path)
}
