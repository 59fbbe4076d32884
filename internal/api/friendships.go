package api

import "context"

// FriendshipCreate follows a user. follow=true also enables device
// notifications; the parameter is omitted otherwise.
func (b *Base) FriendshipCreate(ctx context.Context, id Identifier, follow bool) (*Response, error) {
	var body Params
	if follow {
		body.Set("follow", true)
	}
	return b.post(ctx, resourcePath("friendships", "create", id), body)
}

func (b *Base) FriendshipDestroy(ctx context.Context, id Identifier) (*Response, error) {
	return b.post(ctx, resourcePath("friendships", "destroy", id), Params{})
}

// FriendshipExists reports, through the response body, whether a follows b.
func (b *Base) FriendshipExists(ctx context.Context, a, bID Identifier) (*Response, error) {
	return b.get(ctx, resourcePath("friendships", "exists"), NewParams("user_a", a, "user_b", bID))
}

// FriendshipShow describes the relationship between two users.
// Options: source_id, source_screen_name, target_id, target_screen_name.
func (b *Base) FriendshipShow(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("friendships", "show"), q)
}

// FriendIDs returns the IDs of the users someone follows.
// Options: id, user_id, screen_name, cursor.
func (b *Base) FriendIDs(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("friends", "ids"), q)
}

// FollowerIDs returns the IDs of someone's followers.
// Options: id, user_id, screen_name, cursor.
func (b *Base) FollowerIDs(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("followers", "ids"), q)
}
