package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func statusBody(id int, text string) string {
	return fmt.Sprintf(`{"id": %d, "text": %q, "user": {"id": 12, "screen_name": "jack"}}`, id, text)
}

func TestStatusShowSingle(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/show/20.json", jsonResponse(200, statusBody(20, "just setting up my twttr")))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"status", "show", "20"}); err != nil {
			t.Fatalf("status show failed: %v", err)
		}
	})
	if !strings.Contains(output, "just setting up my twttr") || !strings.Contains(output, "@jack") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestStatusShowFromURL(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/show/20.json", jsonResponse(200, statusBody(20, "from a link")))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"status", "show", "https://twitter.com/jack/status/20"}); err != nil {
			t.Fatalf("status show failed: %v", err)
		}
	})
	if !strings.Contains(output, "from a link") {
		t.Errorf("unexpected output:\n%s", output)
	}
}

func TestStatusShowManyKeepsOrder(t *testing.T) {
	// Later IDs answer first; the output must still follow argument order.
	var inFlight, peak int32
	slow := func(id int, delay time.Duration) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			n := atomic.AddInt32(&inFlight, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(delay)
			atomic.AddInt32(&inFlight, -1)
			jsonResponse(200, statusBody(id, fmt.Sprintf("status %d", id)))(w, r)
		}
	}
	handler := newRouteHandler().
		On("GET", "/1/statuses/show/1.json", slow(1, 60*time.Millisecond)).
		On("GET", "/1/statuses/show/2.json", slow(2, 30*time.Millisecond)).
		On("GET", "/1/statuses/show/3.json", slow(3, 0))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"status", "show", "1", "2", "3", "-o", "json", "--compact-json"}); err != nil {
			t.Fatalf("status show failed: %v", err)
		}
	})

	var statuses []map[string]any
	decodeJSON(t, output, &statuses)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 statuses, got %d", len(statuses))
	}
	for i, st := range statuses {
		if want := fmt.Sprintf("status %d", i+1); st["text"] != want {
			t.Errorf("statuses[%d].text = %v, want %q", i, st["text"], want)
		}
	}
	if peak > maxConcurrentFetches {
		t.Errorf("peak concurrency %d exceeds %d", peak, maxConcurrentFetches)
	}
}

func TestStatusShowManyFailsOnAnyError(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/statuses/show/1.json", jsonResponse(200, statusBody(1, "ok")))
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		_ = captureStdout(t, func() {
			err = Execute(context.Background(), []string{"status", "show", "1", "404"})
		})
	})
	if err == nil {
		t.Fatal("expected an error when one status is missing")
	}
	if !strings.Contains(err.Error(), "status 404") {
		t.Errorf("error should name the failing status: %v", err)
	}
	if got := ExitCode(err); got != exitNotFound {
		t.Errorf("exit code = %d, want %d", got, exitNotFound)
	}
}

func TestStatusUpdateSendsForm(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/statuses/update.json", recordRequest(&log, jsonResponse(200, statusBody(30, "@jack agreed"))))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{
			"status", "update", "@jack", "agreed",
			"--in-reply-to", "https://twitter.com/jack/status/20",
			"--lat", "37.78", "--long", "-122.39",
		})
		if err != nil {
			t.Fatalf("status update failed: %v", err)
		}
	})

	req := log.last(t)
	if got := req.Form.Get("status"); got != "@jack agreed" {
		t.Errorf("status = %q", got)
	}
	if got := req.Form.Get("in_reply_to_status_id"); got != "20" {
		t.Errorf("in_reply_to_status_id = %q, want 20", got)
	}
	if req.Form.Get("lat") != "37.78" || req.Form.Get("long") != "-122.39" {
		t.Errorf("lat/long = %q/%q", req.Form.Get("lat"), req.Form.Get("long"))
	}
	if !strings.HasPrefix(string(req.Body), "status=") {
		t.Errorf("status should be the first form field: %s", req.Body)
	}
}

func TestStatusUpdateRequiresBothCoordinates(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"status", "update", "hi", "--lat", "1"})
	})
	if err == nil || !strings.Contains(err.Error(), "--lat and --long") {
		t.Fatalf("expected coordinate error, got %v", err)
	}
}

func TestStatusDestroyAndRetweet(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/statuses/destroy/20.json", recordRequest(&log, jsonResponse(200, statusBody(20, "bye")))).
		On("POST", "/1/statuses/retweet/21.json", recordRequest(&log, jsonResponse(200, statusBody(99, "RT"))))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"status", "rm", "20"}); err != nil {
			t.Fatalf("status destroy failed: %v", err)
		}
		if err := Execute(context.Background(), []string{"status", "rt", "#21"}); err != nil {
			t.Fatalf("status retweet failed: %v", err)
		}
	})
	if !strings.Contains(output, "Deleted status 20") {
		t.Errorf("missing destroy confirmation:\n%s", output)
	}
	if log.count() != 2 {
		t.Errorf("expected 2 requests, got %d", log.count())
	}
}

func TestStatusRetweetersIDsOnly(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/statuses/20/retweeted_by/ids.json", recordRequest(&log, jsonResponse(200, `[12, 13]`)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"status", "retweeters", "20", "--ids"}); err != nil {
			t.Fatalf("status retweeters failed: %v", err)
		}
	})
	if output != "12\n13\n" {
		t.Errorf("output = %q", output)
	}
	if _, ok := log.last(t).Query["ids_only"]; ok {
		t.Error("ids_only must not be sent to the API")
	}
}

func TestStatusInvalidID(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"status", "show", "0"})
	})
	if err == nil {
		t.Fatal("expected error for ID 0")
	}
	if got := ExitCode(err); got != exitUsage {
		t.Errorf("exit code = %d, want %d", got, exitUsage)
	}
}
