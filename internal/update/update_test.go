package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func releaseServer(t *testing.T, status int, body string) Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.v3+json", r.Header.Get("Accept"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return Checker{URL: srv.URL, Client: srv.Client()}
}

func TestNormalizeVersion(t *testing.T) {
	assert.Equal(t, "v1.0.0", normalizeVersion("1.0.0"))
	assert.Equal(t, "v1.0.0", normalizeVersion("v1.0.0"))
	assert.Equal(t, "v", normalizeVersion(""))
}

func TestCheck_NewerRelease(t *testing.T) {
	t.Setenv(DisableEnv, "")
	c := releaseServer(t, http.StatusOK, `{"tag_name":"v1.3.0","html_url":"https://github.com/tweetkit/tw/releases/tag/v1.3.0"}`)

	result := c.Check(context.Background(), "1.2.0")
	require.NotNil(t, result)
	assert.True(t, result.UpdateAvailable)
	assert.Equal(t, "1.3.0", result.LatestVersion)
	assert.Equal(t, "1.2.0", result.CurrentVersion)
	assert.Contains(t, result.UpdateURL, "v1.3.0")
}

func TestCheck_SameOrOlderRelease(t *testing.T) {
	t.Setenv(DisableEnv, "")
	for _, current := range []string{"1.3.0", "v1.4.0"} {
		c := releaseServer(t, http.StatusOK, `{"tag_name":"v1.3.0"}`)
		result := c.Check(context.Background(), current)
		require.NotNil(t, result, current)
		assert.False(t, result.UpdateAvailable, current)
	}
}

func TestCheck_InvalidVersionsNeverReportUpdate(t *testing.T) {
	t.Setenv(DisableEnv, "")
	c := releaseServer(t, http.StatusOK, `{"tag_name":"nightly"}`)
	result := c.Check(context.Background(), "1.0.0")
	require.NotNil(t, result)
	assert.False(t, result.UpdateAvailable)
}

func TestCheck_ReturnsNil(t *testing.T) {
	t.Run("dev build", func(t *testing.T) {
		assert.Nil(t, Checker{URL: "http://127.0.0.1:0"}.Check(context.Background(), "dev"))
	})
	t.Run("disabled", func(t *testing.T) {
		t.Setenv(DisableEnv, "1")
		c := releaseServer(t, http.StatusOK, `{"tag_name":"v9.0.0"}`)
		assert.Nil(t, c.Check(context.Background(), "1.0.0"))
	})
	t.Run("non-200", func(t *testing.T) {
		t.Setenv(DisableEnv, "")
		c := releaseServer(t, http.StatusForbidden, `{"message":"rate limited"}`)
		assert.Nil(t, c.Check(context.Background(), "1.0.0"))
	})
	t.Run("bad json", func(t *testing.T) {
		t.Setenv(DisableEnv, "")
		c := releaseServer(t, http.StatusOK, `{`)
		assert.Nil(t, c.Check(context.Background(), "1.0.0"))
	})
	t.Run("prerelease", func(t *testing.T) {
		t.Setenv(DisableEnv, "")
		c := releaseServer(t, http.StatusOK, `{"tag_name":"v2.0.0-rc.1","prerelease":true}`)
		assert.Nil(t, c.Check(context.Background(), "1.0.0"))
	})
}

func TestCheck_HonorsContextCancellation(t *testing.T) {
	t.Setenv(DisableEnv, "")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	assert.Nil(t, Checker{URL: srv.URL}.Check(ctx, "1.0.0"))
	assert.Less(t, time.Since(start), time.Second)
}
