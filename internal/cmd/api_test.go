package cmd

import (
	"context"
	"strings"
	"testing"
)

func TestAPIGetSendsFieldsAsQuery(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/users/show.json", recordRequest(&log, jsonResponse(200, `{"id": 12, "screen_name": "jack"}`)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"api", "1/users/show.json", "-f", "screen_name=jack", "-f", "include_entities=true"}); err != nil {
			t.Fatalf("api GET failed: %v", err)
		}
	})

	req := log.last(t)
	if req.Query.Get("screen_name") != "jack" || req.Query.Get("include_entities") != "true" {
		t.Errorf("query = %v", req.Query)
	}
	var got map[string]any
	decodeJSON(t, output, &got)
	if got["screen_name"] != "jack" {
		t.Errorf("output = %v", got)
	}
}

func TestAPIPostSendsFormBody(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/statuses/update.json", recordRequest(&log, jsonResponse(200, `{"id": 30}`)))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"api", "/1/statuses/update.json", "-X", "post", "-f", "status=hello world"}); err != nil {
			t.Fatalf("api POST failed: %v", err)
		}
	})

	req := log.last(t)
	if req.Form.Get("status") != "hello world" {
		t.Errorf("form = %v", req.Form)
	}
	if len(req.Query) != 0 {
		t.Errorf("POST fields should not be in the query: %v", req.Query)
	}
}

func TestAPIInvalidMethod(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"api", "/1/help/test.json", "-X", "PATCH"})
	})
	if err == nil {
		t.Fatal("expected error for PATCH")
	}
	if got := ExitCode(err); got != exitUsage {
		t.Errorf("exit code = %d, want %d", got, exitUsage)
	}
}

func TestAPIInvalidField(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"api", "/1/help/test.json", "-f", "novalue"})
	})
	if err == nil || !strings.Contains(err.Error(), "expected key=value") {
		t.Fatalf("expected field error, got %v", err)
	}
}

func TestAPIFieldsFile(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/account/update_profile.json", recordRequest(&log, jsonResponse(200, `{"id": 12}`)))
	setupTestEnvWithHandler(t, handler)
	path := writeTempFile(t, "profile.env", []byte("name=Jack\nlocation=\"San Francisco\"\n"))

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{"api", "/1/account/update_profile.json", "-X", "POST", "--input", path, "-f", "url=http://example.com"})
		if err != nil {
			t.Fatalf("api with fields file failed: %v", err)
		}
	})

	req := log.last(t)
	if req.Form.Get("location") != "San Francisco" || req.Form.Get("name") != "Jack" {
		t.Errorf("form = %v", req.Form)
	}
	// File fields come first in key order, then -f fields.
	if !strings.HasPrefix(string(req.Body), "location=") || !strings.HasSuffix(string(req.Body), "url=http%3A%2F%2Fexample.com") {
		t.Errorf("body = %s", req.Body)
	}
}

func TestAPIIncludeHeaders(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/help/test.json", jsonResponse(200, `"ok"`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"api", "/1/help/test.json", "--include"}); err != nil {
			t.Fatalf("api --include failed: %v", err)
		}
	})
	if !strings.HasPrefix(output, "HTTP 200\n") {
		t.Errorf("missing status line: %q", output)
	}
	if !strings.Contains(output, "Content-Type: application/json") {
		t.Errorf("missing headers: %q", output)
	}
	if !strings.Contains(output, `"ok"`) {
		t.Errorf("missing body: %q", output)
	}
}

func TestAPISilent(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("DELETE", "/1/jack/lists/team.json", recordRequest(&log, jsonResponse(200, `{"id": 7}`)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"api", "/1/jack/lists/team.json", "-X", "DELETE", "-s"}); err != nil {
			t.Fatalf("api DELETE failed: %v", err)
		}
	})
	if output != "" {
		t.Errorf("silent output = %q", output)
	}
	if log.count() != 1 {
		t.Errorf("expected one request, got %d", log.count())
	}
}
