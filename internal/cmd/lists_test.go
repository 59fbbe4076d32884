package cmd

import (
	"context"
	"strings"
	"testing"
)

const teamListBody = `{"id": 7, "name": "Team", "full_name": "@jack/team", "slug": "team", "mode": "private", "member_count": 3, "subscriber_count": 1}`

func TestListShowDefaultsOwnerToAccount(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/jack/lists/team.json", jsonResponse(200, teamListBody))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "show", "team"}); err != nil {
			t.Fatalf("list show failed: %v", err)
		}
	})
	if !strings.Contains(output, "@jack/team") || !strings.Contains(output, "private") {
		t.Errorf("output = %q", output)
	}
}

func TestListShowOwnerFlagAndURL(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/biz/lists/staff.json", recordRequest(&log, jsonResponse(200, teamListBody)))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "get", "staff", "--owner", "@biz"}); err != nil {
			t.Fatalf("list show --owner failed: %v", err)
		}
		if err := Execute(context.Background(), []string{"list", "show", "https://twitter.com/biz/lists/staff"}); err != nil {
			t.Fatalf("list show from URL failed: %v", err)
		}
	})
	if log.count() != 2 {
		t.Errorf("expected 2 requests, got %d", log.count())
	}
}

func TestListShowRejectsNonListURL(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"list", "show", "https://twitter.com/jack/status/20"})
	})
	if err == nil || !strings.Contains(err.Error(), "not a list URL") {
		t.Fatalf("expected list URL error, got %v", err)
	}
}

func TestListCreate(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/jack/lists.json", recordRequest(&log, jsonResponse(200, teamListBody)))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		err := Execute(context.Background(), []string{"list", "create", "Team", "--mode", "Private", "--desc", "work"})
		if err != nil {
			t.Fatalf("list create failed: %v", err)
		}
	})
	req := log.last(t)
	if string(req.Body) != "user=jack&name=Team&mode=private&description=work" {
		t.Errorf("body = %q", req.Body)
	}
}

func TestListCreateInvalidMode(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/jack/lists.json", recordRequest(&log, jsonResponse(200, teamListBody)))
	setupTestEnvWithHandler(t, handler)

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"list", "create", "Team", "--mode", "secret"})
	})
	if err == nil {
		t.Fatal("expected an error for an invalid mode")
	}
	if got := ExitCode(err); got != exitUsage {
		t.Errorf("exit code = %d, want %d", got, exitUsage)
	}
	if log.count() != 0 {
		t.Error("no request should be sent")
	}
}

func TestListUpdateAndDelete(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("PUT", "/1/jack/lists/team.json", recordRequest(&log, jsonResponse(200, teamListBody))).
		On("DELETE", "/1/jack/lists/team.json", recordRequest(&log, jsonResponse(200, teamListBody)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "update", "team", "--name", "Crew"}); err != nil {
			t.Fatalf("list update failed: %v", err)
		}
		if got := log.last(t).Form.Get("name"); got != "Crew" {
			t.Errorf("name = %q", got)
		}
		if err := Execute(context.Background(), []string{"list", "rm", "team"}); err != nil {
			t.Fatalf("list delete failed: %v", err)
		}
	})
	if log.last(t).Method != "DELETE" {
		t.Errorf("method = %s, want DELETE", log.last(t).Method)
	}
	if !strings.Contains(output, "Deleted list jack/team") {
		t.Errorf("output = %q", output)
	}
}

func TestListUpdateRequiresAField(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"list", "update", "team"})
	})
	if err == nil || !strings.Contains(err.Error(), "is required") {
		t.Fatalf("expected required-field error, got %v", err)
	}
}

func TestListMembersCursor(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/jack/team/members.json", recordRequest(&log, jsonResponse(200, `{"users": [{"id": 13, "screen_name": "biz"}], "next_cursor": 0, "previous_cursor": 0}`)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "members", "team", "--cursor", "-1"}); err != nil {
			t.Fatalf("list members failed: %v", err)
		}
	})
	if got := log.last(t).Query.Get("cursor"); got != "-1" {
		t.Errorf("cursor = %q", got)
	}
	if !strings.Contains(output, "biz") {
		t.Errorf("output = %q", output)
	}
}

func TestListAddAndRemoveMember(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/jack/team/members.json", recordRequest(&log, jsonResponse(200, teamListBody))).
		On("DELETE", "/1/jack/team/members.json", recordRequest(&log, jsonResponse(200, teamListBody)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "add-member", "team", "13"}); err != nil {
			t.Fatalf("add-member failed: %v", err)
		}
		if got := log.last(t).Form.Get("id"); got != "13" {
			t.Errorf("id = %q, want 13", got)
		}
		if err := Execute(context.Background(), []string{"list", "remove-member", "team", "13"}); err != nil {
			t.Fatalf("remove-member failed: %v", err)
		}
	})
	if got := log.last(t).Query.Get("id"); got != "13" {
		t.Errorf("delete id = %q, want 13", got)
	}
	if !strings.Contains(output, "Added 13 to jack/team") || !strings.Contains(output, "Removed 13 from jack/team") {
		t.Errorf("output = %q", output)
	}
}

func TestListIsMember(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/jack/team/members/13.json", jsonResponse(200, `{"id": 13, "screen_name": "biz"}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "is-member", "team", "13"}); err != nil {
			t.Fatalf("is-member failed: %v", err)
		}
		if err := Execute(context.Background(), []string{"list", "is-member", "team", "14"}); err != nil {
			t.Fatalf("is-member (absent) failed: %v", err)
		}
	})
	if !strings.Contains(output, "13 is a member of jack/team") {
		t.Errorf("missing positive answer: %q", output)
	}
	if !strings.Contains(output, "14 is not a member of jack/team") {
		t.Errorf("missing negative answer: %q", output)
	}
}

func TestListIsMemberJSON(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/jack/team/members/13.json", jsonResponse(200, `{"id": 13}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "is-member", "team", "13", "-o", "json"}); err != nil {
			t.Fatalf("is-member failed: %v", err)
		}
	})
	var got map[string]any
	decodeJSON(t, output, &got)
	if got["member"] != true || got["slug"] != "team" || got["owner"] != "jack" {
		t.Errorf("got %v", got)
	}
}

func TestListMatchResolvesSlug(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("GET", "/1/jack/lists.json", jsonResponse(200, `{"lists": [
			{"id": 7, "name": "Work Team", "slug": "team"},
			{"id": 8, "name": "Family", "slug": "family"}
		], "next_cursor": 0}`)).
		On("GET", "/1/jack/lists/team/statuses.json", recordRequest(&log, jsonResponse(200, `[]`)))
	setupTestEnvWithHandler(t, handler)

	_ = captureStderr(t, func() {
		if err := Execute(context.Background(), []string{"list", "timeline", "work", "--match", "--per-page", "5"}); err != nil {
			t.Fatalf("list timeline --match failed: %v", err)
		}
	})
	if got := log.last(t).Query.Get("per_page"); got != "5" {
		t.Errorf("per_page = %q", got)
	}
}

func TestListsForOwner(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/biz/lists.json", jsonResponse(200, `{"lists": [{"id": 9, "name": "Staff", "full_name": "@biz/staff", "slug": "staff", "mode": "public"}], "next_cursor": 0}`))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"lists", "biz"}); err != nil {
			t.Fatalf("lists failed: %v", err)
		}
	})
	if !strings.Contains(output, "staff") {
		t.Errorf("output = %q", output)
	}
}

func TestListSubscribe(t *testing.T) {
	var log requestLog
	handler := newRouteHandler().
		On("POST", "/1/biz/staff/subscribers.json", recordRequest(&log, jsonResponse(200, teamListBody)))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "follow", "staff", "--owner", "biz"}); err != nil {
			t.Fatalf("list subscribe failed: %v", err)
		}
	})
	if log.count() != 1 {
		t.Errorf("expected one request, got %d", log.count())
	}
	if !strings.Contains(output, "Subscribed to biz/staff") {
		t.Errorf("output = %q", output)
	}
}

func TestListMatchUsesCache(t *testing.T) {
	var lists requestLog
	handler := newRouteHandler().
		On("GET", "/1/jack/lists.json", recordRequest(&lists, jsonResponse(200, `{"lists": [{"id": 7, "name": "Work Team", "slug": "team"}], "next_cursor": 0}`))).
		On("GET", "/1/jack/lists/team.json", jsonResponse(200, teamListBody)).
		On("PUT", "/1/jack/lists/team.json", jsonResponse(200, teamListBody))
	setupTestEnvWithHandler(t, handler)

	_ = captureStdout(t, func() {
		for i := 0; i < 2; i++ {
			if err := Execute(context.Background(), []string{"list", "show", "work", "--match"}); err != nil {
				t.Fatalf("list show --match failed: %v", err)
			}
		}
	})
	if lists.count() != 1 {
		t.Errorf("owner lists fetched %d times, want 1", lists.count())
	}

	// Changing a list drops the cached lookup.
	_ = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "update", "team", "--mode", "public"}); err != nil {
			t.Fatalf("list update failed: %v", err)
		}
		if err := Execute(context.Background(), []string{"list", "show", "work", "--match"}); err != nil {
			t.Fatalf("list show --match failed: %v", err)
		}
	})
	if lists.count() != 2 {
		t.Errorf("owner lists fetched %d times after update, want 2", lists.count())
	}

	output := captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"cache", "clear"}); err != nil {
			t.Fatalf("cache clear failed: %v", err)
		}
	})
	if !strings.Contains(output, "Cache cleared.") {
		t.Errorf("output = %q", output)
	}
	_ = captureStdout(t, func() {
		if err := Execute(context.Background(), []string{"list", "show", "work", "--match"}); err != nil {
			t.Fatalf("list show --match failed: %v", err)
		}
	})
	if lists.count() != 3 {
		t.Errorf("owner lists fetched %d times after clear, want 3", lists.count())
	}
}

func TestListMatchCacheDisabled(t *testing.T) {
	var lists requestLog
	handler := newRouteHandler().
		On("GET", "/1/jack/lists.json", recordRequest(&lists, jsonResponse(200, `{"lists": [{"id": 7, "name": "Work Team", "slug": "team"}], "next_cursor": 0}`))).
		On("GET", "/1/jack/lists/team.json", jsonResponse(200, teamListBody))
	setupTestEnvWithHandler(t, handler)
	t.Setenv("TW_NO_CACHE", "1")

	_ = captureStdout(t, func() {
		for i := 0; i < 2; i++ {
			if err := Execute(context.Background(), []string{"list", "show", "work", "--match"}); err != nil {
				t.Fatalf("list show --match failed: %v", err)
			}
		}
	})
	if lists.count() != 2 {
		t.Errorf("owner lists fetched %d times, want 2", lists.count())
	}
}
