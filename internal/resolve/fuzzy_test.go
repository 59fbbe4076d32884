package resolve_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tweetkit/tw/internal/resolve"
)

var lists = []resolve.Named{
	{Key: "presidents", Name: "US Presidents"},
	{Key: "team", Name: "Twitter Team"},
	{Key: "design", Name: "Design Inspiration"},
}

func TestFuzzyMatch_ExactName(t *testing.T) {
	key, err := resolve.FuzzyMatch("us presidents", lists)
	if err != nil {
		t.Fatal(err)
	}
	if key != "presidents" {
		t.Fatalf("expected presidents, got %q", key)
	}
}

func TestFuzzyMatch_ExactKey(t *testing.T) {
	key, err := resolve.FuzzyMatch("TEAM", lists)
	if err != nil {
		t.Fatal(err)
	}
	if key != "team" {
		t.Fatalf("expected team, got %q", key)
	}
}

func TestFuzzyMatch_Partial(t *testing.T) {
	key, err := resolve.FuzzyMatch("inspir", lists)
	if err != nil {
		t.Fatal(err)
	}
	if key != "design" {
		t.Fatalf("expected design, got %q", key)
	}
}

func TestFuzzyMatch_NoMatch(t *testing.T) {
	if _, err := resolve.FuzzyMatch("zzzz", lists); err == nil {
		t.Fatal("expected error")
	}
}

func TestFuzzyMatch_EmptyInputs(t *testing.T) {
	if _, err := resolve.FuzzyMatch("  ", lists); !errors.Is(err, resolve.ErrEmptyQuery) {
		t.Fatalf("expected ErrEmptyQuery, got %v", err)
	}
	if _, err := resolve.FuzzyMatch("team", nil); !errors.Is(err, resolve.ErrEmptyItems) {
		t.Fatalf("expected ErrEmptyItems, got %v", err)
	}
}

func TestFuzzyMatch_Ambiguous(t *testing.T) {
	items := []resolve.Named{
		{Key: "news-a", Name: "News"},
		{Key: "news-b", Name: "News"},
	}
	_, err := resolve.FuzzyMatch("nws", items)
	var amb *resolve.AmbiguousError
	if !errors.As(err, &amb) {
		t.Fatalf("expected AmbiguousError, got %v", err)
	}
	if len(amb.Matches) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(amb.Matches))
	}
	msg := amb.Error()
	if !strings.Contains(msg, `ambiguous match for "nws"`) || !strings.Contains(msg, "news-a: News") {
		t.Fatalf("unexpected message: %q", msg)
	}
}

func TestSuggest(t *testing.T) {
	commands := []string{"timeline", "status", "followers", "friendship", "favorites"}

	got := resolve.Suggest("timelin", commands, 3)
	if len(got) == 0 || got[0] != "timeline" {
		t.Fatalf("expected timeline first, got %v", got)
	}
	if got := resolve.Suggest("", commands, 3); got != nil {
		t.Fatalf("expected nil for empty query, got %v", got)
	}
	if got := resolve.Suggest("f", commands, 2); len(got) != 2 {
		t.Fatalf("expected limit to apply, got %v", got)
	}
}
