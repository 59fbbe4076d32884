package api

import (
	"context"

	"github.com/spf13/cast"
)

// HomeTimeline returns the authenticated user's home timeline.
// Options: since_id, max_id, count, page.
func (b *Base) HomeTimeline(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "home_timeline"), q)
}

// FriendsTimeline returns statuses from the user and the users they follow.
// Options: since_id, max_id, count, page, since.
func (b *Base) FriendsTimeline(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "friends_timeline"), q)
}

// UserTimeline returns one user's statuses.
// Options: id, user_id, screen_name, since_id, max_id, page, since, count.
func (b *Base) UserTimeline(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "user_timeline"), q)
}

func (b *Base) Status(ctx context.Context, id int64) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "show", id), Params{})
}

// Retweets returns up to count retweets of a status.
func (b *Base) Retweets(ctx context.Context, id int64, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "retweets", id), q)
}

// Update posts a status. The status text is sent first, followed by q
// (for example in_reply_to_status_id).
func (b *Base) Update(ctx context.Context, status string, q Params) (*Response, error) {
	body := NewParams("status", status)
	body.Merge(q)
	return b.post(ctx, resourcePath("statuses", "update"), body)
}

// Replies is the old name of Mentions.
//
// Deprecated: use Mentions.
func (b *Base) Replies(ctx context.Context, q Params) (*Response, error) {
	b.logger.WarnContext(ctx, "DEPRECATED: replies is deprecated; use mentions instead")
	return b.get(ctx, resourcePath("statuses", "replies"), q)
}

// Mentions returns statuses mentioning the authenticated user.
func (b *Base) Mentions(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "mentions"), q)
}

func (b *Base) RetweetedByMe(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "retweeted_by_me"), q)
}

func (b *Base) RetweetedToMe(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "retweeted_to_me"), q)
}

func (b *Base) RetweetsOfMe(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "retweets_of_me"), q)
}

// RetweetersOf returns the users who retweeted a status. A truthy ids_only
// entry in q is removed and selects the /ids variant; the rest of q is the
// query. The caller's q is not modified.
func (b *Base) RetweetersOf(ctx context.Context, id int64, q Params) (*Response, error) {
	q = q.Clone()
	v, _ := q.Del("ids_only")
	if cast.ToBool(v) {
		return b.get(ctx, resourcePath("statuses", id, "retweeted_by", "ids"), q)
	}
	return b.get(ctx, resourcePath("statuses", id, "retweeted_by"), q)
}

func (b *Base) StatusDestroy(ctx context.Context, id int64) (*Response, error) {
	return b.post(ctx, resourcePath("statuses", "destroy", id), Params{})
}

func (b *Base) Retweet(ctx context.Context, id int64) (*Response, error) {
	return b.post(ctx, resourcePath("statuses", "retweet", id), Params{})
}

// Friends returns the users someone follows, with their latest status.
// Options: id, user_id, screen_name, page.
func (b *Base) Friends(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "friends"), q)
}

// Followers returns someone's followers, with their latest status.
// Options: id, user_id, screen_name, page.
func (b *Base) Followers(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("statuses", "followers"), q)
}
