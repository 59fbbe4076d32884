package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/validation"
)

func newDMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dm",
		Aliases: []string{"direct-messages", "messages"},
		Short:   "Read, send and delete direct messages",
	}
	cmd.AddCommand(newDMListCmd())
	cmd.AddCommand(newDMSendCmd())
	cmd.AddCommand(newDMDestroyCmd())
	return cmd
}

func newDMListCmd() *cobra.Command {
	var (
		page pageFlags
		sent bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List received (or, with --sent, sent) direct messages",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			var q api.Params
			page.apply(&q)
			var resp *api.Response
			if sent {
				resp, err = s.DirectMessagesSent(cmd.Context(), q)
			} else {
				resp, err = s.DirectMessages(cmd.Context(), q)
			}
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDirectMessages)
		}),
	}
	page.register(cmd)
	cmd.Flags().BoolVar(&sent, "sent", false, "List messages you sent")
	return cmd
}

func newDMSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <user> <text>",
		Short: "Send a direct message",
		Example: strings.TrimSpace(`
  tw dm send jack "see you at 5"
`),
		Args: cobra.MinimumNArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			user, err := parseUserArg(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("message text is required")
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.DirectMessageCreate(cmd.Context(), user, text)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDirectMessage)
		}),
	}
}

func newDMDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "destroy <id>",
		Aliases: []string{"delete", "rm"},
		Short:   "Delete a direct message",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := validation.ParseID(args[0], "message ID")
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.DirectMessageDestroy(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Deleted direct message %d", id))
		}),
	}
}
