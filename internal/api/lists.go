package api

import "context"

// ListCreate creates a list owned by owner. The body starts with user=owner,
// followed by opts (name, mode, description).
func (b *Base) ListCreate(ctx context.Context, owner string, opts Params) (*Response, error) {
	body := NewParams("user", owner)
	body.Merge(opts)
	return b.post(ctx, resourcePath(owner, "lists"), body)
}

// ListUpdate changes a list's name, mode or description.
func (b *Base) ListUpdate(ctx context.Context, owner, slug string, opts Params) (*Response, error) {
	return b.req.Put(ctx, resourcePath(owner, "lists", slug), bodyOptions(opts))
}

func (b *Base) ListDelete(ctx context.Context, owner, slug string) (*Response, error) {
	return b.req.Delete(ctx, resourcePath(owner, "lists", slug), queryOptions(Params{}))
}

// Lists returns the lists owned by owner, or the authenticated user's lists
// when owner is empty. cursor is sent only when non-empty.
func (b *Base) Lists(ctx context.Context, owner, cursor string) (*Response, error) {
	path := resourcePath("lists")
	if owner != "" {
		path = resourcePath(owner, "lists")
	}
	return b.get(ctx, path, withCursor(Params{}, cursor))
}

func (b *Base) List(ctx context.Context, owner, slug string) (*Response, error) {
	return b.get(ctx, resourcePath(owner, "lists", slug), Params{})
}

// ListTimeline returns statuses from the list's members. Options: per_page, page.
func (b *Base) ListTimeline(ctx context.Context, owner, slug string, q Params) (*Response, error) {
	return b.get(ctx, resourcePath(owner, "lists", slug, "statuses"), q)
}

// Memberships returns the lists owner has been added to.
func (b *Base) Memberships(ctx context.Context, owner string, q Params) (*Response, error) {
	return b.get(ctx, resourcePath(owner, "lists", "memberships"), q)
}

// ListMembers returns a list's members. cursor is sent only when non-empty.
func (b *Base) ListMembers(ctx context.Context, owner, slug, cursor string) (*Response, error) {
	return b.get(ctx, resourcePath(owner, slug, "members"), withCursor(Params{}, cursor))
}

func (b *Base) ListAddMember(ctx context.Context, owner, slug string, id Identifier) (*Response, error) {
	return b.post(ctx, resourcePath(owner, slug, "members"), NewParams("id", id))
}

func (b *Base) ListRemoveMember(ctx context.Context, owner, slug string, id Identifier) (*Response, error) {
	return b.req.Delete(ctx, resourcePath(owner, slug, "members"), queryOptions(NewParams("id", id)))
}

// IsListMember reports whether id belongs to the list. A not-found error
// from the Requester means false; other errors are returned.
func (b *Base) IsListMember(ctx context.Context, owner, slug string, id Identifier) (bool, error) {
	return existsFromResult(b.get(ctx, resourcePath(owner, slug, "members", id), Params{}))
}

func (b *Base) ListSubscribers(ctx context.Context, owner, slug string) (*Response, error) {
	return b.get(ctx, resourcePath(owner, slug, "subscribers"), Params{})
}

func (b *Base) ListSubscribe(ctx context.Context, owner, slug string) (*Response, error) {
	return b.post(ctx, resourcePath(owner, slug, "subscribers"), Params{})
}

func (b *Base) ListUnsubscribe(ctx context.Context, owner, slug string) (*Response, error) {
	return b.req.Delete(ctx, resourcePath(owner, slug, "subscribers"), queryOptions(Params{}))
}

// ListSubscriptions returns the lists owner follows.
func (b *Base) ListSubscriptions(ctx context.Context, owner string) (*Response, error) {
	return b.get(ctx, resourcePath(owner, "lists", "subscriptions"), Params{})
}
