package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
)

// queryFunc is an endpoint method taking only a query, as a method expression.
type queryFunc func(b *api.Base, ctx context.Context, q api.Params) (*api.Response, error)

func newTimelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"tl"},
		Short:   "Read timelines",
		Long: strings.TrimSpace(`
Read the home, friends, user and mention timelines.

All timelines accept --count, --page, --since-id and --max-id.
`),
	}

	cmd.AddCommand(newTimelineSubCmd("home", "Statuses from you and the users you follow", (*api.Base).HomeTimeline))
	cmd.AddCommand(newTimelineSubCmd("friends", "Friends timeline (including retweets)", (*api.Base).FriendsTimeline))
	cmd.AddCommand(newTimelineSubCmd("mentions", "Statuses mentioning you", (*api.Base).Mentions))
	cmd.AddCommand(newTimelineSubCmd("retweeted-by-me", "Retweets you posted", (*api.Base).RetweetedByMe))
	cmd.AddCommand(newTimelineSubCmd("retweeted-to-me", "Retweets posted by users you follow", (*api.Base).RetweetedToMe))
	cmd.AddCommand(newTimelineSubCmd("retweets-of-me", "Your statuses others retweeted", (*api.Base).RetweetsOfMe))

	replies := newTimelineSubCmd("replies", "Deprecated name of mentions", (*api.Base).Replies)
	replies.Hidden = true
	cmd.AddCommand(replies)

	cmd.AddCommand(newUserTimelineCmd())
	return cmd
}

func newTimelineSubCmd(name, short string, fetch queryFunc) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			var q api.Params
			page.apply(&q)
			resp, err := fetch(s.Base, cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatuses)
		}),
	}
	page.register(cmd)
	return cmd
}

func newUserTimelineCmd() *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "user [user]",
		Short: "Statuses posted by one user (default: you)",
		Example: strings.TrimSpace(`
  tw timeline user jack --count 20
  tw timeline user https://twitter.com/jack
`),
		Args: cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			var q api.Params
			if len(args) == 1 {
				id, err := parseUserArg(args[0])
				if err != nil {
					return err
				}
				userQuery(&q, id)
			}
			page.apply(&q)
			resp, err := s.UserTimeline(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatuses)
		}),
	}
	page.register(cmd)
	return cmd
}
