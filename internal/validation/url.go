// Package validation checks user-supplied API endpoints and command input
// before anything is sent over the wire.
//
// ValidateBaseURL rejects base URLs that would point the client at private
// networks or cloud metadata services. Private ranges can be allowed with
// TW_ALLOW_PRIVATE (any strconv.ParseBool value) or SetAllowPrivate(true);
// metadata endpoints stay blocked either way.
package validation

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

var allowPrivate atomic.Bool

var privateNetworks = mustParseCIDRs(
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"169.254.0.0/16",
	"192.0.0.0/24",
	"192.0.2.0/24",
	"198.18.0.0/15",
	"198.51.100.0/24",
	"203.0.113.0/24",
	"240.0.0.0/4",
	"fc00::/7",
	"fe80::/10",
	"ff00::/8",
	"::1/128",
	"::/128",
	"100::/64",
	"2001:db8::/32",
)

var (
	localhostNames = []string{"localhost", "127.0.0.1", "::1", "0.0.0.0", "::"}
	metadataHosts  = []string{"169.254.169.254", "metadata.google.internal", "metadata", "instance-data", "fd00:ec2::254"}
)

// lookupIP is replaced in tests.
var lookupIP = func(ctx context.Context, host string) ([]net.IP, error) {
	return net.DefaultResolver.LookupIP(ctx, "ip", host)
}

func init() {
	v, _ := strconv.ParseBool(strings.TrimSpace(os.Getenv("TW_ALLOW_PRIVATE")))
	allowPrivate.Store(v)
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	out := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		out = append(out, n)
	}
	return out
}

// SetAllowPrivate enables or disables private and localhost base URLs.
func SetAllowPrivate(enabled bool) {
	allowPrivate.Store(enabled)
}

// AllowPrivateEnabled reports whether private and localhost URLs are allowed.
func AllowPrivateEnabled() bool {
	return allowPrivate.Load()
}

// ValidateBaseURL checks that rawURL is an absolute http(s) URL without a
// query or fragment whose host is not a metadata endpoint and, unless
// private addresses are allowed, not loopback or private.
func ValidateBaseURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: only http and https are allowed, got %q", u.Scheme)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("base URL must not carry a query or fragment")
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("URL must contain a hostname")
	}
	if isCloudMetadata(host) {
		return fmt.Errorf("cloud metadata endpoints are not allowed")
	}
	if isLocalhost(host) && !allowPrivate.Load() {
		return fmt.Errorf("localhost URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil {
		return checkIP(ip)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ips, err := lookupIP(ctx, host)
	if err != nil {
		// Unresolvable hosts fail later, at request time.
		return nil
	}
	for _, ip := range ips {
		if err := checkIP(ip); err != nil {
			return fmt.Errorf("domain %q resolves to forbidden IP %s: %w", host, ip, err)
		}
	}
	return nil
}

func isLocalhost(host string) bool {
	return lo.Contains(localhostNames, host) || strings.HasSuffix(host, ".localhost")
}

func isCloudMetadata(host string) bool {
	return lo.Contains(metadataHosts, host) || strings.HasSuffix(host, ".metadata.google.internal")
}

func checkIP(ip net.IP) error {
	switch {
	case ip.Equal(net.ParseIP("169.254.169.254")):
		return fmt.Errorf("cloud metadata IP address is not allowed")
	case ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast():
		return fmt.Errorf("link-local IP addresses are not allowed")
	case allowPrivate.Load():
		return nil
	case ip.IsUnspecified():
		return fmt.Errorf("unspecified IP addresses are not allowed")
	case ip.IsLoopback():
		return fmt.Errorf("loopback IP addresses are not allowed")
	case isPrivateIP(ip):
		return fmt.Errorf("private IP addresses are not allowed")
	}
	return nil
}

func isPrivateIP(ip net.IP) bool {
	return lo.SomeBy(privateNetworks, func(n *net.IPNet) bool { return n.Contains(ip) })
}
