package api

import (
	"context"
	"strings"

	"github.com/samber/lo"
)

func (b *Base) User(ctx context.Context, id Identifier, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("users", "show", id), q)
}

// Users looks up several users at once. Numeric IDs are joined into
// user_id and screen names into screen_name, each in input order; a
// parameter with no entries is left out.
func (b *Base) Users(ctx context.Context, ids ...Identifier) (*Response, error) {
	numeric, named := lo.FilterReject(ids, func(id Identifier, _ int) bool {
		return id.IsNumeric()
	})
	var q Params
	if len(numeric) > 0 {
		q.Set("user_id", joinIdentifiers(numeric))
	}
	if len(named) > 0 {
		q.Set("screen_name", joinIdentifiers(named))
	}
	return b.get(ctx, resourcePath("users", "lookup"), q)
}

// UserSearch searches users. query is sent first, then the rest of q
// (page, per_page).
func (b *Base) UserSearch(ctx context.Context, query string, q Params) (*Response, error) {
	params := NewParams("q", query)
	params.Merge(q)
	return b.get(ctx, resourcePath("users", "search"), params)
}

func joinIdentifiers(ids []Identifier) string {
	return strings.Join(lo.Map(ids, func(id Identifier, _ int) string {
		return id.String()
	}), ",")
}
