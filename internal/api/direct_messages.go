package api

import "context"

// DirectMessages returns messages sent to the authenticated user.
// Options: since, since_id, page.
func (b *Base) DirectMessages(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("direct_messages"), q)
}

// DirectMessagesSent returns messages sent by the authenticated user.
func (b *Base) DirectMessagesSent(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("direct_messages", "sent"), q)
}

func (b *Base) DirectMessageCreate(ctx context.Context, user Identifier, text string) (*Response, error) {
	return b.post(ctx, resourcePath("direct_messages", "new"), NewParams("user", user, "text", text))
}

func (b *Base) DirectMessageDestroy(ctx context.Context, id int64) (*Response, error) {
	return b.post(ctx, resourcePath("direct_messages", "destroy", id), Params{})
}
