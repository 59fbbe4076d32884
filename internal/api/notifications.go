package api

import "context"

// EnableNotifications turns on device notifications for a followed user.
func (b *Base) EnableNotifications(ctx context.Context, id Identifier) (*Response, error) {
	return b.post(ctx, resourcePath("notifications", "follow", id), Params{})
}

// DisableNotifications turns them off again.
func (b *Base) DisableNotifications(ctx context.Context, id Identifier) (*Response, error) {
	return b.post(ctx, resourcePath("notifications", "leave", id), Params{})
}
