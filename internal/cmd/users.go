package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "user",
		Aliases: []string{"users", "u"},
		Short:   "Look up and search users",
	}
	cmd.AddCommand(newUserShowCmd())
	cmd.AddCommand(newUserLookupCmd())
	cmd.AddCommand(newUserSearchCmd())
	return cmd
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <user>",
		Short: "Show a user by ID, screen name or profile URL",
		Example: strings.TrimSpace(`
  tw user show jack
  tw user show 12
  tw user show https://twitter.com/jack
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseUserArg(args[0])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.User(cmd.Context(), id, api.Params{})
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUser)
		}),
	}
}

func newUserLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <user>...",
		Short: "Look up several users in one request",
		Long:  "Look up several users at once. IDs and screen names may be mixed and comma separated.",
		Example: strings.TrimSpace(`
  tw user lookup jack biz 12
  tw user lookup jack,biz
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids, err := parseUserArgs(args)
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Users(cmd.Context(), ids...)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUserList)
		}),
	}
}

func newUserSearchCmd() *cobra.Command {
	var (
		page    int
		perPage int
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search users",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var q api.Params
			if page > 0 {
				q.Set("page", page)
			}
			if perPage > 0 {
				q.Set("per_page", perPage)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.UserSearch(cmd.Context(), strings.Join(args, " "), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUserList)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Results per page (max 20)")
	return cmd
}
