package api

import "context"

// Favorites returns favorited statuses. Options: id, page.
func (b *Base) Favorites(ctx context.Context, q Params) (*Response, error) {
	return b.get(ctx, resourcePath("favorites"), q)
}

func (b *Base) FavoriteCreate(ctx context.Context, id int64) (*Response, error) {
	return b.post(ctx, resourcePath("favorites", "create", id), Params{})
}

func (b *Base) FavoriteDestroy(ctx context.Context, id int64) (*Response, error) {
	return b.post(ctx, resourcePath("favorites", "destroy", id), Params{})
}
