package api

import "context"

func (b *Base) Block(ctx context.Context, id Identifier) (*Response, error) {
	return b.post(ctx, resourcePath("blocks", "create", id), Params{})
}

func (b *Base) Unblock(ctx context.Context, id Identifier) (*Response, error) {
	return b.post(ctx, resourcePath("blocks", "destroy", id), Params{})
}

// BlockedIDs returns the IDs of blocked users. The body is left undecoded;
// use Response.Body or Response.Decode.
func (b *Base) BlockedIDs(ctx context.Context) (*Response, error) {
	return b.req.Get(ctx, resourcePath("blocks", "blocking", "ids"), &RequestOptions{RawJSON: true})
}

// Blocking returns the blocked users. Options: page.
func (b *Base) Blocking(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("blocks", "blocking"), q)
}

// ReportSpam reports a user and blocks them. Set one or more of id,
// screen_name and user_id.
func (b *Base) ReportSpam(ctx context.Context, body Params) (*Response, error) {
	return b.post(ctx, resourcePath("report_spam"), body)
}

// Help calls the API's test endpoint.
func (b *Base) Help(ctx context.Context) (*Response, error) {
	return b.get(ctx, resourcePath("help", "test"), Params{})
}
