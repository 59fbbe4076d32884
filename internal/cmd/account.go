package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
	"github.com/tweetkit/tw/internal/formdata"
	"github.com/tweetkit/tw/internal/outfmt"
	"github.com/tweetkit/tw/internal/validation"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"me"},
		Short:   "Manage the authenticated account",
	}
	cmd.AddCommand(newAccountVerifyCmd())
	cmd.AddCommand(newAccountRateLimitCmd())
	cmd.AddCommand(newAccountProfileCmd())
	cmd.AddCommand(newAccountImageCmd())
	cmd.AddCommand(newAccountBackgroundCmd())
	cmd.AddCommand(newAccountColorsCmd())
	cmd.AddCommand(newAccountDeviceCmd())
	return cmd
}

func newAccountVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "verify",
		Aliases: []string{"whoami"},
		Short:   "Check the credentials and show the account they belong to",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.VerifyCredentials(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUser)
		}),
	}
}

func newAccountRateLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rate-limit",
		Aliases: []string{"limits"},
		Short:   "Show the remaining request allowance",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.RateLimitStatus(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, func(f *outfmt.Formatter, resp *api.Response) error {
				var rl api.RateLimit
				if err := resp.Decode(&rl); err != nil {
					return err
				}
				return f.Properties(
					[2]string{"Remaining", strconv.Itoa(rl.RemainingHits)},
					[2]string{"Hourly limit", strconv.Itoa(rl.HourlyLimit)},
					[2]string{"Resets at", rl.ResetTime},
				)
			})
		}),
	}
}

func newAccountProfileCmd() *cobra.Command {
	var name, email, url, location, description string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update profile fields",
		Example: strings.TrimSpace(`
  tw account profile --name "Jack" --location "San Francisco"
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var body api.Params
			for _, field := range []struct{ flag, key, value string }{
				{"name", "name", name},
				{"email", "email", email},
				{"url", "url", url},
				{"location", "location", location},
				{"description", "description", description},
			} {
				if flagOrAliasChanged(cmd, field.flag) {
					body.Set(field.key, field.value)
				}
			}
			if body.Len() == 0 {
				return fmt.Errorf("at least one profile field flag is required")
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.UpdateProfile(cmd.Context(), body)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUser)
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Full name (max 20 characters)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&url, "url", "", "Home page URL")
	cmd.Flags().StringVar(&location, "location", "", "Location (max 30 characters)")
	cmd.Flags().StringVar(&description, "description", "", "Bio (max 160 characters)")
	flagAlias(cmd.Flags(), "description", "bio")
	return cmd
}

// loadUploadFile validates path as a profile image and reads it. The
// multipart part is named after the file's base name.
func loadUploadFile(path string) (formdata.File, error) {
	path = config.ExpandPath(strings.TrimSpace(path))
	if err := validation.ValidateUploadFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return formdata.NewFile(filepath.Base(path), data), nil
}

func newAccountImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <file>",
		Short: "Upload a new profile image (JPEG, PNG or GIF)",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			file, err := loadUploadFile(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.UpdateProfileImage(cmd.Context(), file)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Profile image updated"))
		}),
	}
}

func newAccountBackgroundCmd() *cobra.Command {
	var tile bool
	cmd := &cobra.Command{
		Use:   "background <file>",
		Short: "Upload a new profile background image",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			file, err := loadUploadFile(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.UpdateProfileBackground(cmd.Context(), file, tile)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Profile background updated"))
		}),
	}
	cmd.Flags().BoolVar(&tile, "tile", false, "Tile the background image")
	return cmd
}

func newAccountColorsCmd() *cobra.Command {
	var background, text, link, sidebarFill, sidebarBorder string
	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Update profile colors",
		Example: strings.TrimSpace(`
  tw account colors --background 000 --link 1da1f2
`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var colors api.Params
			for _, c := range []struct{ flag, key, value string }{
				{"background", "profile_background_color", background},
				{"text", "profile_text_color", text},
				{"link", "profile_link_color", link},
				{"sidebar-fill", "profile_sidebar_fill_color", sidebarFill},
				{"sidebar-border", "profile_sidebar_border_color", sidebarBorder},
			} {
				if !flagOrAliasChanged(cmd, c.flag) {
					continue
				}
				if err := validation.ValidateHexColor("--"+c.flag, c.value); err != nil {
					return err
				}
				colors.Set(c.key, strings.TrimPrefix(c.value, "#"))
			}
			if colors.Len() == 0 {
				return fmt.Errorf("at least one color flag is required")
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.UpdateProfileColors(cmd.Context(), colors)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Profile colors updated"))
		}),
	}
	cmd.Flags().StringVar(&background, "background", "", "Background color (hex)")
	cmd.Flags().StringVar(&text, "text", "", "Text color (hex)")
	cmd.Flags().StringVar(&link, "link", "", "Link color (hex)")
	cmd.Flags().StringVar(&sidebarFill, "sidebar-fill", "", "Sidebar fill color (hex)")
	cmd.Flags().StringVar(&sidebarBorder, "sidebar-border", "", "Sidebar border color (hex)")
	return cmd
}

var deliveryDevices = []string{api.DeviceSMS, api.DeviceIM, api.DeviceNone}

func newAccountDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "device <sms|im|none>",
		Short:     "Choose where notifications are delivered",
		Args:      cobra.ExactArgs(1),
		ValidArgs: deliveryDevices,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			device := strings.ToLower(strings.TrimSpace(args[0]))
			if !lo.Contains(deliveryDevices, device) {
				return api.NewValidationError("device", args[0], deliveryDevices)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.UpdateDeliveryDevice(cmd.Context(), device)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Delivery device set to %s", device))
		}),
	}
}
