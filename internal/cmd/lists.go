package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/cache"
	"github.com/tweetkit/tw/internal/dryrun"
	"github.com/tweetkit/tw/internal/outfmt"
	"github.com/tweetkit/tw/internal/resolve"
	"github.com/tweetkit/tw/internal/urlparse"
)

var listModes = []string{"public", "private"}

// listTarget holds the flags shared by commands addressing a list:
// the owner (default: the authenticated user) and fuzzy slug matching.
type listTarget struct {
	owner string
	match bool
}

func (t *listTarget) registerOwner(cmd *cobra.Command) {
	cmd.Flags().StringVar(&t.owner, "owner", "", "Screen name of the list owner (default: you)")
	flagAlias(cmd.Flags(), "owner", "user")
}

func (t *listTarget) register(cmd *cobra.Command) {
	t.registerOwner(cmd)
	cmd.Flags().BoolVar(&t.match, "match", false, "Treat the list argument as a fuzzy name and match it against the owner's lists")
}

// ownerOf returns the owner flag, falling back to the account's screen name.
func (t *listTarget) ownerOf(s *session) (string, error) {
	if owner := strings.TrimPrefix(strings.TrimSpace(t.owner), "@"); owner != "" {
		return owner, nil
	}
	if s.account.Username != "" {
		return s.account.Username, nil
	}
	return "", fmt.Errorf("--owner is required when the account has no username (bearer token login)")
}

// resolve turns a list argument into owner and slug. A list URL carries
// both; otherwise the argument is a slug, or with --match a fuzzy name.
func (t *listTarget) resolve(ctx context.Context, s *session, arg string) (string, string, error) {
	arg = strings.TrimSpace(arg)
	if urlparse.IsWebURL(arg) {
		parsed, err := urlparse.Parse(arg)
		if err != nil {
			return "", "", err
		}
		if parsed.Kind != urlparse.KindList {
			return "", "", fmt.Errorf("%s is not a list URL", arg)
		}
		return parsed.ScreenName, parsed.ListSlug, nil
	}
	owner, err := t.ownerOf(s)
	if err != nil {
		return "", "", err
	}
	if arg == "" {
		return "", "", fmt.Errorf("list slug is required")
	}
	if !t.match || dryrun.IsEnabled(ctx) {
		return owner, arg, nil
	}
	slug, err := matchListSlug(ctx, s, owner, arg)
	if err != nil {
		return "", "", err
	}
	return owner, slug, nil
}

// ownerListsCache is the on-disk cache of owner's lists used by --match.
// It is nil when no cache directory is available.
func ownerListsCache(s *session, owner string) *cache.Store {
	dir, err := cache.DefaultDir()
	if err != nil {
		return nil
	}
	baseURL := s.account.BaseURL
	if baseURL == "" {
		baseURL = api.DefaultBaseURL
	}
	return cache.NewStore(dir, "lists-"+strings.ToLower(owner), baseURL, s.account.Username)
}

func matchListSlug(ctx context.Context, s *session, owner, query string) (string, error) {
	store := ownerListsCache(s, owner)
	var lists []api.List
	if !store.Get(&lists) {
		resp, err := s.Lists(ctx, owner, "")
		if err != nil {
			return "", err
		}
		var page api.ListCursor
		if err := resp.Decode(&page); err != nil {
			return "", err
		}
		lists = page.Lists
		store.Put(lists)
	}
	items := make([]resolve.Named, 0, len(lists))
	for _, l := range lists {
		items = append(items, resolve.Named{Key: l.Slug, Name: l.Name})
	}
	slug, err := resolve.FuzzyMatch(query, items)
	if err != nil {
		return "", fmt.Errorf("cannot resolve list %q owned by %s: %w", query, owner, err)
	}
	return slug, nil
}

func newListsCmd() *cobra.Command {
	var cursor string
	cmd := &cobra.Command{
		Use:   "lists [owner]",
		Short: "Lists owned by a user (default: you)",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var owner string
			if len(args) == 1 {
				id, err := parseUserArg(args[0])
				if err != nil {
					return err
				}
				owner = id.String()
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			resp, err := s.Lists(cmd.Context(), owner, cursor)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderListCursor)
		}),
	}
	cmd.Flags().StringVar(&cursor, "cursor", "", "Page cursor (-1 for the first page)")
	return cmd
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage a single list, its members and subscribers",
		Long: strings.TrimSpace(`
Manage lists. A list is named by its slug and belongs to --owner, which
defaults to the authenticated user. A list URL such as
https://twitter.com/jack/lists/team may be passed instead of a slug.
`),
	}
	cmd.AddCommand(newListCreateCmd())
	cmd.AddCommand(newListUpdateCmd())
	cmd.AddCommand(newListSlugCmd("delete <list>", []string{"rm"}, "Delete a list", func(ctx context.Context, s *session, owner, slug string) (*api.Response, error) {
		resp, err := s.ListDelete(ctx, owner, slug)
		if err == nil {
			ownerListsCache(s, owner).Clear()
		}
		return resp, err
	}, func(owner, slug string) func(*outfmt.Formatter, *api.Response) error {
		return renderDone("Deleted list %s/%s", owner, slug)
	}))
	cmd.AddCommand(newListSlugCmd("show <list>", []string{"get"}, "Show a list", func(ctx context.Context, s *session, owner, slug string) (*api.Response, error) {
		return s.List(ctx, owner, slug)
	}, nil))
	cmd.AddCommand(newListTimelineCmd())
	cmd.AddCommand(newListMembersCmd())
	cmd.AddCommand(newListMemberCmd("add-member", "Add a user to a list", (*api.Base).ListAddMember, "Added %s to %s/%s"))
	cmd.AddCommand(newListMemberCmd("remove-member", "Remove a user from a list", (*api.Base).ListRemoveMember, "Removed %s from %s/%s"))
	cmd.AddCommand(newListIsMemberCmd())
	cmd.AddCommand(newListSlugCmd("subscribers <list>", nil, "Users subscribed to a list", func(ctx context.Context, s *session, owner, slug string) (*api.Response, error) {
		return s.ListSubscribers(ctx, owner, slug)
	}, func(string, string) func(*outfmt.Formatter, *api.Response) error {
		return renderUserCursor
	}))
	cmd.AddCommand(newListSlugCmd("subscribe <list>", []string{"follow"}, "Subscribe to a list", func(ctx context.Context, s *session, owner, slug string) (*api.Response, error) {
		return s.ListSubscribe(ctx, owner, slug)
	}, func(owner, slug string) func(*outfmt.Formatter, *api.Response) error {
		return renderDone("Subscribed to %s/%s", owner, slug)
	}))
	cmd.AddCommand(newListSlugCmd("unsubscribe <list>", []string{"unfollow"}, "Unsubscribe from a list", func(ctx context.Context, s *session, owner, slug string) (*api.Response, error) {
		return s.ListUnsubscribe(ctx, owner, slug)
	}, func(owner, slug string) func(*outfmt.Formatter, *api.Response) error {
		return renderDone("Unsubscribed from %s/%s", owner, slug)
	}))
	cmd.AddCommand(newListSubscriptionsCmd())
	cmd.AddCommand(newListMembershipsCmd())
	return cmd
}

type listCall func(ctx context.Context, s *session, owner, slug string) (*api.Response, error)

// newListSlugCmd builds a command taking just a list. A nil view prints the
// list itself.
func newListSlugCmd(use string, aliases []string, short string, call listCall, view func(owner, slug string) func(*outfmt.Formatter, *api.Response) error) *cobra.Command {
	var target listTarget
	cmd := &cobra.Command{
		Use:     use,
		Aliases: aliases,
		Short:   short,
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, slug, err := target.resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			resp, err := call(cmd.Context(), s, owner, slug)
			if err != nil {
				return err
			}
			render := renderList
			if view != nil {
				render = view(owner, slug)
			}
			return printResponse(cmd, resp, render)
		}),
	}
	target.register(cmd)
	return cmd
}

// listOptions collects name, mode and description for create and update.
type listOptions struct {
	name        string
	mode        string
	description string
}

func (o *listOptions) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&o.name, "name", "", "New list name")
	}
	cmd.Flags().StringVar(&o.mode, "mode", "", "Visibility: public or private")
	cmd.Flags().StringVar(&o.description, "description", "", "List description")
	flagAlias(cmd.Flags(), "description", "desc")
}

func (o *listOptions) params(cmd *cobra.Command) (api.Params, error) {
	var p api.Params
	if flagOrAliasChanged(cmd, "name") {
		p.Set("name", o.name)
	}
	if flagOrAliasChanged(cmd, "mode") {
		mode := strings.ToLower(strings.TrimSpace(o.mode))
		if !lo.Contains(listModes, mode) {
			return api.Params{}, api.NewValidationError("mode", o.mode, listModes)
		}
		p.Set("mode", mode)
	}
	if flagOrAliasChanged(cmd, "description") {
		p.Set("description", o.description)
	}
	return p, nil
}

func newListCreateCmd() *cobra.Command {
	var (
		target listTarget
		opts   listOptions
	)
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Example: strings.TrimSpace(`
  tw list create "Team" --mode private --description "People I work with"
`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("list name is required")
			}
			params, err := opts.params(cmd)
			if err != nil {
				return err
			}
			body := api.NewParams("name", name)
			body.Merge(params)
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, err := target.ownerOf(s)
			if err != nil {
				return err
			}
			resp, err := s.ListCreate(cmd.Context(), owner, body)
			if err != nil {
				return err
			}
			ownerListsCache(s, owner).Clear()
			return printResponse(cmd, resp, renderList)
		}),
	}
	target.registerOwner(cmd)
	opts.register(cmd, false)
	return cmd
}

func newListUpdateCmd() *cobra.Command {
	var (
		target listTarget
		opts   listOptions
	)
	cmd := &cobra.Command{
		Use:   "update <list>",
		Short: "Rename a list or change its mode or description",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			params, err := opts.params(cmd)
			if err != nil {
				return err
			}
			if params.Len() == 0 {
				return fmt.Errorf("at least one of --name, --mode or --description is required")
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, slug, err := target.resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			resp, err := s.ListUpdate(cmd.Context(), owner, slug, params)
			if err != nil {
				return err
			}
			ownerListsCache(s, owner).Clear()
			return printResponse(cmd, resp, renderList)
		}),
	}
	target.register(cmd)
	opts.register(cmd, true)
	return cmd
}

func newListTimelineCmd() *cobra.Command {
	var (
		target  listTarget
		page    int
		perPage int
	)
	cmd := &cobra.Command{
		Use:     "timeline <list>",
		Aliases: []string{"statuses"},
		Short:   "Statuses from a list's members",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, slug, err := target.resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			var q api.Params
			if page > 0 {
				q.Set("page", page)
			}
			if perPage > 0 {
				q.Set("per_page", perPage)
			}
			resp, err := s.ListTimeline(cmd.Context(), owner, slug, q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderStatuses)
		}),
	}
	target.register(cmd)
	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "Statuses per page")
	return cmd
}

func newListMembersCmd() *cobra.Command {
	var (
		target listTarget
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "members <list>",
		Short: "Members of a list",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, slug, err := target.resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			resp, err := s.ListMembers(cmd.Context(), owner, slug, cursor)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderUserCursor)
		}),
	}
	target.register(cmd)
	cmd.Flags().StringVar(&cursor, "cursor", "", "Page cursor (-1 for the first page)")
	return cmd
}

type listMemberFunc func(b *api.Base, ctx context.Context, owner, slug string, id api.Identifier) (*api.Response, error)

func newListMemberCmd(use, short string, call listMemberFunc, done string) *cobra.Command {
	var target listTarget
	cmd := &cobra.Command{
		Use:   use + " <list> <user>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			user, err := parseUserArg(args[1])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, slug, err := target.resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			resp, err := call(s.Base, cmd.Context(), owner, slug, user)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderDone(done, user, owner, slug))
		}),
	}
	target.register(cmd)
	return cmd
}

func newListIsMemberCmd() *cobra.Command {
	var target listTarget
	cmd := &cobra.Command{
		Use:   "is-member <list> <user>",
		Short: "Check whether a user belongs to a list",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			user, err := parseUserArg(args[1])
			if err != nil {
				return err
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, slug, err := target.resolve(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			member, err := s.IsListMember(cmd.Context(), owner, slug, user)
			if err != nil {
				return err
			}
			if dryrun.IsEnabled(cmd.Context()) {
				return nil
			}
			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{
					"owner":  owner,
					"slug":   slug,
					"user":   user.String(),
					"member": member,
				})
			}
			if member {
				f.Message("%s is a member of %s/%s", user, owner, slug)
			} else {
				f.Message("%s is not a member of %s/%s", user, owner, slug)
			}
			return nil
		}),
	}
	target.register(cmd)
	return cmd
}

func newListSubscriptionsCmd() *cobra.Command {
	var target listTarget
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Lists the owner subscribes to",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, err := target.ownerOf(s)
			if err != nil {
				return err
			}
			resp, err := s.ListSubscriptions(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderListCursor)
		}),
	}
	target.registerOwner(cmd)
	return cmd
}

func newListMembershipsCmd() *cobra.Command {
	var (
		target listTarget
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "memberships",
		Short: "Lists the owner has been added to",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, err := target.ownerOf(s)
			if err != nil {
				return err
			}
			var q api.Params
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			resp, err := s.Memberships(cmd.Context(), owner, q)
			if err != nil {
				return err
			}
			return printResponse(cmd, resp, renderListCursor)
		}),
	}
	target.registerOwner(cmd)
	cmd.Flags().StringVar(&cursor, "cursor", "", "Page cursor (-1 for the first page)")
	return cmd
}
