// Package resolve turns loosely typed names into exact keys: list names into
// slugs, and mistyped command names into suggestions.
package resolve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// Named is a resource with a stable key (a list slug) and a display name.
type Named struct {
	Key  string
	Name string
}

// Match is a fuzzy match result with score.
type Match struct {
	Key   string
	Name  string
	Score int
}

var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrEmptyItems = errors.New("no items to match against")
)

// AmbiguousError indicates the top candidates matched equally well.
type AmbiguousError struct {
	Query   string
	Matches []Match
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "ambiguous match for %q", e.Query)
	if len(e.Matches) > 0 {
		b.WriteString(", candidates:")
		for _, m := range e.Matches {
			_, _ = fmt.Fprintf(&b, "\n  %s: %s", m.Key, m.Name)
		}
	}
	return b.String()
}

// namedSource matches against both the key and the name.
type namedSource []Named

func (s namedSource) String(i int) string {
	return strings.ToLower(s[i].Key + " " + s[i].Name)
}
func (s namedSource) Len() int { return len(s) }

// FuzzyMatch returns the key of the item best matching query. An exact
// case-insensitive key or name wins outright; otherwise a tie between the
// two best fuzzy results is an *AmbiguousError.
func FuzzyMatch(query string, items []Named) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", ErrEmptyQuery
	}
	if len(items) == 0 {
		return "", ErrEmptyItems
	}

	if item, ok := lo.Find(items, func(n Named) bool {
		return strings.EqualFold(n.Key, query) || strings.EqualFold(n.Name, query)
	}); ok {
		return item.Key, nil
	}

	results := fuzzy.FindFrom(strings.ToLower(query), namedSource(items))
	if len(results) == 0 {
		return "", fmt.Errorf("no match found for %q", query)
	}
	if len(results) > 1 && results[0].Score == results[1].Score {
		return "", &AmbiguousError{
			Query:   query,
			Matches: buildMatches(items, results, 5),
		}
	}
	return items[results[0].Index].Key, nil
}

// Suggest returns up to limit candidates resembling query, best first.
func Suggest(query string, candidates []string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}
	results := fuzzy.Find(query, lo.Map(candidates, func(c string, _ int) string {
		return strings.ToLower(c)
	}))
	if len(results) > limit {
		results = results[:limit]
	}
	return lo.Map(results, func(m fuzzy.Match, _ int) string {
		return candidates[m.Index]
	})
}

func buildMatches(items []Named, results fuzzy.Matches, limit int) []Match {
	if len(results) > limit {
		results = results[:limit]
	}
	return lo.Map(results, func(r fuzzy.Match, _ int) Match {
		return Match{Key: items[r.Index].Key, Name: items[r.Index].Name, Score: r.Score}
	})
}
