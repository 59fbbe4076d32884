package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/dryrun"
)

// maxConcurrentFetches bounds parallel requests when several IDs are given.
const maxConcurrentFetches = 4

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"st", "tweet"},
		Short:   "Show, post and delete statuses",
	}

	cmd.AddCommand(newStatusShowCmd())
	cmd.AddCommand(newStatusUpdateCmd())
	cmd.AddCommand(newStatusDestroyCmd())
	cmd.AddCommand(newStatusRetweetCmd())
	cmd.AddCommand(newStatusRetweetsCmd())
	cmd.AddCommand(newStatusRetweetersCmd())
	return cmd
}

func newStatusShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|url>...",
		Short: "Show one or more statuses",
		Example: strings.TrimSpace(`
  tw status show 20
  tw status show https://twitter.com/jack/status/20 21 22
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, len(args))
			for i, a := range args {
				id, err := parseStatusArg(a)
				if err != nil {
					return err
				}
				ids[i] = id
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if len(ids) == 1 {
				resp, err := s.Status(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				return printResponse(cmd, resp, renderStatus)
			}

			responses, err := fetchStatuses(cmd.Context(), s.Base, ids)
			if err != nil {
				return err
			}
			if dryrun.IsEnabled(cmd.Context()) {
				return nil
			}
			f := newFormatter(cmd)
			if f.Structured() {
				docs := make([]any, len(responses))
				for i, r := range responses {
					docs[i] = r.Document().Value()
				}
				return f.Output(docs)
			}
			f.StartTable("ID", "USER", "CREATED", "TEXT")
			for _, r := range responses {
				var st api.Status
				if err := r.Decode(&st); err != nil {
					return err
				}
				f.Row(st.ID.String(), statusAuthor(&st), formatCreatedAt(st.CreatedAtTime()), truncate(st.Text, maxTextWidth))
			}
			return f.EndTable()
		}),
	}
}

// fetchStatuses fetches ids concurrently and returns the responses in input
// order. The first failure cancels the rest. Dry-run previews are written
// one at a time so they do not interleave.
func fetchStatuses(ctx context.Context, b *api.Base, ids []int64) ([]*api.Response, error) {
	limit := int64(maxConcurrentFetches)
	if dryrun.IsEnabled(ctx) {
		limit = 1
	}
	sem := semaphore.NewWeighted(limit)
	g, gctx := errgroup.WithContext(ctx)
	out := make([]*api.Response, len(ids))
	for i, id := range ids {
		i, id := i, id
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			resp, err := b.Status(gctx, id)
			if err != nil {
				return fmt.Errorf("status %d: %w", id, err)
			}
			out[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func newStatusUpdateCmd() *cobra.Command {
	var (
		replyTo string
		lat     string
		long    string
	)
	cmd := &cobra.Command{
		Use:     "update <text>",
		Aliases: []string{"post"},
		Short:   "Post a status",
		Example: strings.TrimSpace(`
  tw status update "hello world"
  tw status update "@jack agreed" --reply-to 20
`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("status text is required")
			}
			var q api.Params
			if replyTo != "" {
				id, err := parseStatusArg(replyTo)
				if err != nil {
					return err
				}
				q.Set("in_reply_to_status_id", id)
			}
			if lat != "" || long != "" {
				if lat == "" || long == "" {
					return fmt.Errorf("--lat and --long must be used together")
				}
				q.Set("lat", lat)
				q.Set("long", long)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Update(cmd.Context(), text, q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatus)
		}),
	}
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Status ID or URL this status replies to")
	cmd.Flags().StringVar(&lat, "lat", "", "Latitude of the status location")
	cmd.Flags().StringVar(&long, "long", "", "Longitude of the status location")
	flagAlias(cmd.Flags(), "reply-to", "in-reply-to")
	return cmd
}

func newStatusDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "destroy <id|url>",
		Aliases: []string{"delete", "rm"},
		Short:   "Delete one of your statuses",
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
			resp, err := s.StatusDestroy(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone("Deleted status %d", id))
		}),
	}
}

func newStatusRetweetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "retweet <id|url>",
		Aliases: []string{"rt"},
		Short:   "Retweet a status",
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
			resp, err := s.Retweet(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatus)
		}),
	}
}

func newStatusRetweetsCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "retweets <id|url>",
		Short: "List retweets of a status",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseStatusArg(args[0])
			if err != nil {
				return err
			}
			var q api.Params
			if count > 0 {
				q.Set("count", count)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Retweets(cmd.Context(), id, q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatuses)
		}),
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of retweets to return (max 100)")
	return cmd
}

func newStatusRetweetersCmd() *cobra.Command {
	var (
		idsOnly bool
		count   int
		page    int
	)
	cmd := &cobra.Command{
		Use:   "retweeters <id|url>",
		Short: "List the users who retweeted a status",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseStatusArg(args[0])
			if err != nil {
				return err
			}
			var q api.Params
			if idsOnly {
				q.Set("ids_only", true)
			}
			if count > 0 {
				q.Set("count", count)
			}
			if page > 0 {
				q.Set("page", page)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.RetweetersOf(cmd.Context(), id, q)
			if err != nil {
				return err
			}
			if idsOnly {
				return printResponse(cmd, resp, renderIDs)
			}
			return printResponse(cmd, resp, renderUserList)
		}),
	}
	cmd.Flags().BoolVar(&idsOnly, "ids-only", false, "Return user IDs instead of full users")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "Number of users to return")
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	flagAlias(cmd.Flags(), "ids-only", "ids")
	return cmd
}
