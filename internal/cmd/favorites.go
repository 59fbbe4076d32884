package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
)

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "favs"},
		Short:   "List, add and remove favorites",
	}
	cmd.AddCommand(newFavoritesListCmd())
	cmd.AddCommand(newFavoriteToggleCmd("add", []string{"create"}, "Favorite a status", (*api.Base).FavoriteCreate, "Favorited %d"))
	cmd.AddCommand(newFavoriteToggleCmd("remove", []string{"destroy", "rm"}, "Remove a status from favorites", (*api.Base).FavoriteDestroy, "Unfavorited %d"))
	return cmd
}

func newFavoritesListCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "list [user]",
		Aliases: []string{"ls"},
		Short:   "Favorites of a user (default: you)",
		Args:    cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var q api.Params
			if len(args) == 1 {
				id, err := parseUserArg(args[0])
				if err != nil {
					return err
				}
				q.Set("id", id)
			}
			if page > 0 {
				q.Set("page", page)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Favorites(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatuses)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	return cmd
}

type statusIDFunc func(b *api.Base, ctx context.Context, id int64) (*api.Response, error)

func newFavoriteToggleCmd(use string, aliases []string, short string, call statusIDFunc, done string) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <status>",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseStatusArg(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := call(s.Base, cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone(done, id))
		}),
	}
}

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Turn device notifications for a followed user on or off",
	}
	cmd.AddCommand(newUserActionCmd("enable", []string{"on"}, "Turn notifications on for a user", (*api.Base).EnableNotifications, "Notifications enabled for %s"))
	cmd.AddCommand(newUserActionCmd("disable", []string{"off"}, "Turn notifications off for a user", (*api.Base).DisableNotifications, "Notifications disabled for %s"))
	return cmd
}

type userFunc func(b *api.Base, ctx context.Context, id api.Identifier) (*api.Response, error)

// newUserActionCmd builds a command that applies call to one user and
// prints done (formatted with the user) on success.
func newUserActionCmd(use string, aliases []string, short string, call userFunc, done string) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <user>",
		Aliases: aliases,
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseUserArg(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := call(s.Base, cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone(done, id))
		}),
	}
}
