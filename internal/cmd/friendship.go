package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/outfmt"
)

func newFriendshipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "friendship",
		Aliases: []string{"follow"},
		Short:   "Follow, unfollow and inspect relationships",
	}
	cmd.AddCommand(newFriendshipCreateCmd())
	cmd.AddCommand(newFriendshipDestroyCmd())
	cmd.AddCommand(newFriendshipExistsCmd())
	cmd.AddCommand(newFriendshipShowCmd())
	return cmd
}

func newFriendshipCreateCmd() *cobra.Command {
	var notify bool
	cmd := &cobra.Command{
		Use:     "create <user>",
		Aliases: []string{"add"},
		Short:   "Follow a user",
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
			resp, err := s.FriendshipCreate(cmd.Context(), id, notify)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Now following %s", id))
		}),
	}
	cmd.Flags().BoolVar(&notify, "notify", false, "Also enable device notifications for this user")
	flagAlias(cmd.Flags(), "notify", "follow")
	return cmd
}

func newFriendshipDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "destroy <user>",
		Aliases: []string{"remove", "unfollow"},
		Short:   "Unfollow a user",
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
			resp, err := s.FriendshipDestroy(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("No longer following %s", id))
		}),
	}
}

func newFriendshipExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <user-a> <user-b>",
		Short: "Check whether user-a follows user-b",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids, err := parseUserArgs(args)
			if err != nil {
				return err
			}
			if len(ids) != 2 {
				return fmt.Errorf("exactly two users are required")
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.FriendshipExists(cmd.Context(), ids[0], ids[1])
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, func(f *outfmt.Formatter, resp *api.Response) error {
				if strings.EqualFold(strings.TrimSpace(string(resp.Body)), "true") {
					f.Message("%s follows %s", ids[0], ids[1])
				} else {
					f.Message("%s does not follow %s", ids[0], ids[1])
				}
				return nil
			})
		}),
	}
}

func newFriendshipShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <target> [source]",
		Short: "Describe the relationship between two users (source defaults to you)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var q api.Params
			if len(args) == 2 {
				source, err := parseUserArg(args[1])
				if err != nil {
					return err
				}
				if source.IsNumeric() {
					q.Set("source_id", source)
				} else {
					q.Set("source_screen_name", source)
				}
			}
			target, err := parseUserArg(args[0])
			if err != nil {
				return err
			}
			if target.IsNumeric() {
				q.Set("target_id", target)
			} else {
				q.Set("target_screen_name", target)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.FriendshipShow(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderRelationship)
		}),
	}
}

func renderRelationship(f *outfmt.Formatter, resp *api.Response) error {
	var rel api.Relationship
	if err := resp.Decode(&rel); err != nil {
		return err
	}
	src, dst := rel.Relationship.Source, rel.Relationship.Target
	f.StartTable("", "@"+src.ScreenName, "@"+dst.ScreenName)
	f.Row("following", strconv.FormatBool(src.Following), strconv.FormatBool(dst.Following))
	f.Row("followed by", strconv.FormatBool(src.FollowedBy), strconv.FormatBool(dst.FollowedBy))
	f.Row("notifications", strconv.FormatBool(src.NotificationsEnabled), "")
	f.Row("blocking", strconv.FormatBool(src.Blocking), "")
	return f.EndTable()
}

func newFriendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friends",
		Short: "Users someone follows",
	}
	cmd.AddCommand(newGraphListCmd("Users someone follows, with their latest status", (*api.Base).Friends))
	cmd.AddCommand(newGraphIDsCmd("IDs of the users someone follows", (*api.Base).FriendIDs))
	return cmd
}

func newFollowersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "followers",
		Short: "Users following someone",
	}
	cmd.AddCommand(newGraphListCmd("Someone's followers, with their latest status", (*api.Base).Followers))
	cmd.AddCommand(newGraphIDsCmd("IDs of someone's followers", (*api.Base).FollowerIDs))
	return cmd
}

func newGraphListCmd(short string, fetch queryFunc) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "list [user]",
		Aliases: []string{"ls"},
		Short:   short,
		Args:    cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var q api.Params
			if len(args) == 1 {
				id, err := parseUserArg(args[0])
				if err != nil {
					return err
				}
				userQuery(&q, id)
			}
			if page > 0 {
				q.Set("page", page)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := fetch(s.Base, cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUserList)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	return cmd
}

func newGraphIDsCmd(short string, fetch queryFunc) *cobra.Command {
	var cursor string
	cmd := &cobra.Command{
		Use:   "ids [user]",
		Short: short,
		Long:  short + ". Pass --cursor -1 to page through large sets; the next cursor is printed to stderr.",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var q api.Params
			if len(args) == 1 {
				id, err := parseUserArg(args[0])
				if err != nil {
					return err
				}
				userQuery(&q, id)
			}
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := fetch(s.Base, cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderIDs)
		}),
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "Page cursor (-1 for the first page)")
	return cmd
}
