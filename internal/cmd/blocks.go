package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/outfmt"
)

func newBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "block",
		Aliases: []string{"blocks"},
		Short:   "Block and unblock users",
	}
	cmd.AddCommand(newUserActionCmd("add", []string{"create"}, "Block a user", (*api.Base).Block, "Blocked %s"))
	cmd.AddCommand(newUserActionCmd("remove", []string{"destroy", "rm"}, "Unblock a user", (*api.Base).Unblock, "Unblocked %s"))
	cmd.AddCommand(newBlockListCmd())
	cmd.AddCommand(newBlockIDsCmd())
	return cmd
}

func newBlockListCmd() *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Users you block",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var q api.Params
			if page > 0 {
				q.Set("page", page)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Blocking(cmd.Context(), q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUserList)
		}),
	}
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	return cmd
}

func newBlockIDsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "IDs of the users you block",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.BlockedIDs(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderIDs)
		}),
	}
}

func newSpamCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "spam <user>",
		Short: "Report a user as a spammer and block them",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseUserArg(args[0])
			if err != nil {
				return err
			}
			var body api.Params
			userQuery(&body, id)
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.ReportSpam(cmd.Context(), body)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Reported %s as spam", id))
		}),
	}
}

func newHelpTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ping",
		Aliases: []string{"help-test"},
		Short:   "Check that the API is reachable",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Help(cmd.Context())
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, func(f *outfmt.Formatter, resp *api.Response) error {
				f.Message("ok (%s)", string(resp.Body))
				return nil
			})
		}),
	}
}
