package api

import (
	"context"

	"github.com/tweetkit/tw/internal/formdata"
)

// Delivery devices accepted by UpdateDeliveryDevice.
const (
	DeviceSMS  = "sms"
	DeviceIM   = "im"
	DeviceNone = "none"
)

func (b *Base) VerifyCredentials(ctx context.Context) (*Response, error) {
	return b.get(ctx, resourcePath("account", "verify_credentials"), Params{})
}

// UpdateDeliveryDevice selects where notifications go: sms, im or none.
func (b *Base) UpdateDeliveryDevice(ctx context.Context, device string) (*Response, error) {
	return b.post(ctx, resourcePath("account", "update_delivery_device"), NewParams("device", device))
}

// UpdateProfileColors sets one or more of profile_background_color,
// profile_text_color, profile_link_color, profile_sidebar_fill_color and
// profile_sidebar_border_color.
func (b *Base) UpdateProfileColors(ctx context.Context, colors Params) (*Response, error) {
	return b.post(ctx, resourcePath("account", "update_profile_colors"), colors)
}

// UpdateProfileImage uploads file as the profile image.
func (b *Base) UpdateProfileImage(ctx context.Context, file formdata.File) (*Response, error) {
	return b.upload(ctx, resourcePath("account", "update_profile_image"), []formdata.Part{
		{Name: "image", Value: file},
	})
}

// UpdateProfileBackground uploads file as the profile background. A tile
// part is added only when tile is true.
func (b *Base) UpdateProfileBackground(ctx context.Context, file formdata.File, tile bool) (*Response, error) {
	parts := []formdata.Part{{Name: "image", Value: file}}
	if tile {
		parts = append(parts, formdata.Part{Name: "tile", Value: true})
	}
	return b.upload(ctx, resourcePath("account", "update_profile_background_image"), parts)
}

func (b *Base) RateLimitStatus(ctx context.Context) (*Response, error) {
	return b.get(ctx, resourcePath("account", "rate_limit_status"), Params{})
}

// UpdateProfile sets one or more of name, email, url, location and description.
func (b *Base) UpdateProfile(ctx context.Context, body Params) (*Response, error) {
	return b.post(ctx, resourcePath("account", "update_profile"), body)
}
