// Package update checks GitHub releases for a newer tw build.
package update

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/mod/semver"
)

const (
	DefaultReleasesURL = "https://api.github.com/repos/tweetkit/tw/releases/latest"
	CheckTimeout       = 5 * time.Second

	// DisableEnv turns the check off when set to any non-empty value.
	DisableEnv = "TW_NO_UPDATE_CHECK"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Release struct {
	TagName    string `json:"tag_name"`
	HTMLURL    string `json:"html_url"`
	Prerelease bool   `json:"prerelease"`
}

type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	UpdateURL       string
	UpdateAvailable bool
}

// Checker queries a releases endpoint. The zero value uses
// DefaultReleasesURL and http.DefaultClient.
type Checker struct {
	URL    string
	Client *http.Client
}

// Check returns nil whenever the answer is unknown: development builds,
// the check disabled through DisableEnv, network failures, or a
// non-200 reply. It never blocks for longer than CheckTimeout.
func (c Checker) Check(ctx context.Context, currentVersion string) *CheckResult {
	if currentVersion == "dev" || currentVersion == "" || os.Getenv(DisableEnv) != "" {
		return nil
	}
	release, err := c.latest(ctx)
	if err != nil || release.Prerelease {
		return nil
	}

	current := normalizeVersion(currentVersion)
	latest := normalizeVersion(release.TagName)
	result := &CheckResult{
		CurrentVersion: currentVersion,
		LatestVersion:  strings.TrimPrefix(release.TagName, "v"),
		UpdateURL:      release.HTMLURL,
	}
	if semver.IsValid(current) && semver.IsValid(latest) {
		result.UpdateAvailable = semver.Compare(latest, current) > 0
	}
	return result
}

func (c Checker) latest(ctx context.Context) (*Release, error) {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()

	url := c.URL
	if url == "" {
		url = DefaultReleasesURL
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases endpoint returned %d", resp.StatusCode)
	}

	var release Release
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return &release, nil
}

// CheckForUpdate runs the default Checker.
func CheckForUpdate(ctx context.Context, currentVersion string) *CheckResult {
	return Checker{}.Check(ctx, currentVersion)
}

func normalizeVersion(v string) string {
	if !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
