package cmd

import (
	"context"
	"strings"
	"testing"
)

const homeTimelineBody = `[
	{"id": 22, "text": "second post", "created_at": "Wed Aug 27 13:08:45 +0000 2008", "user": {"id": 12, "screen_name": "jack"}},
	{"id": 21, "text": "first post", "created_at": "Wed Aug 27 13:07:45 +0000 2008", "user": {"id": 13, "screen_name": "biz"}}
]`

func TestTimelineHomeText(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/statuses/home_timeline.json", recordRequest(&log, jsonResponse(200, homeTimelineBody)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"timeline", "home", "--count", "2", "--since", "20"}); err != nil {
			t.Fatalf("timeline home failed: %v", err)
		}
	})

	for _, want := range []string{"second post", "first post", "@jack", "@biz", "22"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	req := log.last(t)
	if got := req.Query.Get("count"); got != "2" {
		t.Errorf("count = %q, want 2", got)
	}
	if got := req.Query.Get("since_id"); got != "20" {
		t.Errorf("since_id = %q, want 20", got)
	}
	if _, ok := req.Query["page"]; ok {
		t.Error("page should not be sent when unset")
	}
	user, pass, ok := basicAuth(req)
	if !ok || user != "jack" || pass != "secret" {
		t.Errorf("basic auth = %q/%q (%v), want jack/secret", user, pass, ok)
	}
}

func TestTimelineEmpty(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/mentions.json", jsonResponse(200, `[]`))
	setupTestEnvWithHandler(t, handler)

	stderr := captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"tl", "mentions"}); err != nil {
			t.Fatalf("timeline mentions failed: %v", err)
		}
	})
	if !strings.Contains(stderr, "No statuses found") {
		t.Errorf("expected empty message on stderr, got %q", stderr)
	}
}

func TestTimelineUserFromURL(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/statuses/user_timeline.json", recordRequest(&log, jsonResponse(200, `[]`)))
	setupTestEnvWithHandler(t, handler)

	_ = captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"timeline", "user", "https://twitter.com/biz"}); err != nil {
			t.Fatalf("timeline user failed: %v", err)
		}
	})

	req := log.last(t)
	if got := req.Query.Get("screen_name"); got != "biz" {
		t.Errorf("screen_name = %q, want biz", got)
	}
}

func TestTimelineUserNumericID(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/statuses/user_timeline.json", recordRequest(&log, jsonResponse(200, `[]`)))
	setupTestEnvWithHandler(t, handler)

	_ = captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"timeline", "user", "12", "--page", "3"}); err != nil {
			t.Fatalf("timeline user failed: %v", err)
		}
	})

	req := log.last(t)
	if got := req.Query.Get("user_id"); got != "12" {
		t.Errorf("user_id = %q, want 12", got)
	}
	if got := req.Query.Get("page"); got != "3" {
		t.Errorf("page = %q, want 3", got)
	}
}

func TestTimelineJSONOutputIsDocument(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/home_timeline.json", jsonResponse(200, homeTimelineBody))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"timeline", "home", "-o", "json"}); err != nil {
			t.Fatalf("timeline home failed: %v", err)
		}
	})

	var statuses []map[string]any
	decodeJSON(t, output, &statuses)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if statuses[0]["text"] != "second post" {
		t.Errorf("first status text = %v", statuses[0]["text"])
	}
}

func TestTimelineJQ(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/home_timeline.json", jsonResponse(200, homeTimelineBody))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"timeline", "home", "--jq", "[.[].user.screen_name]", "--compact-json"}); err != nil {
			t.Fatalf("timeline home failed: %v", err)
		}
	})

	if strings.TrimSpace(output) != `["jack","biz"]` {
		t.Errorf("jq output = %q", output)
	}
}

func TestTimelineRepliesIsHidden(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/replies.json", jsonResponse(200, `[]`))
	setupTestEnvWithHandler(t, handler)

	help := captureStdout(t, func() {
		_ = Execute(context.Background(), []string{"timeline", "--help"})
	})
	if strings.Contains(help, "replies") {
		t.Error("replies should not be listed in help")
	}

	_ = captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"timeline", "replies"}); err != nil {
			t.Fatalf("timeline replies failed: %v", err)
		}
	})
}
