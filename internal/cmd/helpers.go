package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/dryrun"
	"github.com/tweetkit/tw/internal/outfmt"
	"github.com/tweetkit/tw/internal/urlparse"
	"github.com/tweetkit/tw/internal/validation"
)

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command function with enhanced error handling
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil {
			return nil
		}
		if outfmt.ModeFromContext(cmd.Context()) != outfmt.Text {
			if structured := api.StructuredErrorFromError(err); structured != nil {
				_ = outfmt.WriteJSON(cmd.ErrOrStderr(), structured, outfmt.IsCompact(cmd.Context()))
			}
		} else {
			_, _ = fmt.Fprint(cmd.ErrOrStderr(), HandleError(err))
		}
		// Return a handled error so tests can still inspect the original message.
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

// aliasBridgeValue wraps a pflag.Value so that Set() on the alias also
// marks the canonical flag as Changed.
type aliasBridgeValue struct {
	pflag.Value
	canonical *pflag.Flag
}

func (v *aliasBridgeValue) Set(s string) error {
	if err := v.Value.Set(s); err != nil {
		return err
	}
	v.canonical.Changed = true
	return nil
}

// aliasBridgeSliceValue extends aliasBridgeValue to also forward the
// pflag.SliceValue interface when the underlying Value supports it.
type aliasBridgeSliceValue struct {
	aliasBridgeValue
	slice pflag.SliceValue
}

func (v *aliasBridgeSliceValue) Append(s string) error     { return v.slice.Append(s) }
func (v *aliasBridgeSliceValue) Replace(ss []string) error { return v.slice.Replace(ss) }
func (v *aliasBridgeSliceValue) GetSlice() []string        { return v.slice.GetSlice() }

// flagAlias registers a hidden alias for an existing flag.
// Both flags share the same underlying Value, so setting either one sets both.
func flagAlias(fs *pflag.FlagSet, name, alias string) {
	f := fs.Lookup(name)
	if f == nil {
		panic(fmt.Sprintf("flagAlias: flag %q not found", name))
	}
	a := *f // shallow copy, shares the Value
	a.Name = alias
	a.Shorthand = ""
	a.Usage = ""
	a.Hidden = true
	bridge := &aliasBridgeValue{Value: f.Value, canonical: f}
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		a.Value = &aliasBridgeSliceValue{aliasBridgeValue: *bridge, slice: sv}
	} else {
		a.Value = bridge
	}
	newAnn := map[string][]string{"alias-of": {name}}
	for k, v := range f.Annotations {
		if k == cobra.BashCompOneRequiredFlag {
			continue
		}
		newAnn[k] = v
	}
	a.Annotations = newAnn
	fs.AddFlag(&a)
}

// flagOrAliasChanged returns true if the named flag or any of its
// hidden aliases was explicitly set by the user.
func flagOrAliasChanged(cmd *cobra.Command, name string) bool {
	if cmd.Flags().Changed(name) || cmd.InheritedFlags().Changed(name) {
		return true
	}
	aliasChanged := func(fs *pflag.FlagSet) bool {
		found := false
		fs.VisitAll(func(f *pflag.Flag) {
			if found {
				return
			}
			if ann, ok := f.Annotations["alias-of"]; ok && len(ann) > 0 && ann[0] == name && fs.Changed(f.Name) {
				found = true
			}
		})
		return found
	}
	return aliasChanged(cmd.Flags()) || aliasChanged(cmd.InheritedFlags())
}

// colorEnabled returns true if color output should be used
func colorEnabled() bool {
	switch flags.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}

func newFormatter(cmd *cobra.Command) *outfmt.Formatter {
	return outfmt.NewFormatter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// printResponse writes resp in the requested format. render draws the text
// view and is skipped in structured modes. Nothing is printed in dry-run
// mode; the preview already went out.
func printResponse(cmd *cobra.Command, resp *api.Response, render func(f *outfmt.Formatter, resp *api.Response) error) error {
	if dryrun.IsEnabled(cmd.Context()) {
		return nil
	}
	f := newFormatter(cmd)
	if f.Structured() || render == nil {
		return f.Output(resp.Document().Value())
	}
	return render(f, resp)
}

// parseUserArg accepts a user ID, a screen name (with or without @) or a
// profile URL.
func parseUserArg(s string) (api.Identifier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return api.Identifier{}, fmt.Errorf("user is required")
	}
	if urlparse.IsWebURL(s) {
		parsed, err := urlparse.Parse(s)
		if err != nil {
			return api.Identifier{}, err
		}
		return api.ScreenName(parsed.ScreenName), nil
	}
	return api.ParseIdentifier(s), nil
}

func parseUserArgs(args []string) ([]api.Identifier, error) {
	ids := make([]api.Identifier, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseUserArg(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one user is required")
	}
	return ids, nil
}

// parseStatusArg accepts a status ID or a status URL.
func parseStatusArg(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if urlparse.IsWebURL(s) {
		parsed, err := urlparse.Parse(s)
		if err != nil {
			return 0, err
		}
		if parsed.Kind != urlparse.KindStatus {
			return 0, fmt.Errorf("%s is not a status URL", s)
		}
		return parsed.StatusID, nil
	}
	return validation.ParseID(s, "status ID")
}

// userQuery adds the id selector used by timeline and social graph calls.
func userQuery(q *api.Params, id api.Identifier) {
	if id.IsNumeric() {
		q.Set("user_id", id)
		return
	}
	q.Set("screen_name", id)
}

// pageFlags are the paging options shared by timeline style commands.
type pageFlags struct {
	count   int
	page    int
	sinceID int64
	maxID   int64
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&p.count, "count", "n", 0, "Number of results to request")
	cmd.Flags().IntVar(&p.page, "page", 0, "Page number")
	cmd.Flags().Int64Var(&p.sinceID, "since-id", 0, "Only results newer than this ID")
	cmd.Flags().Int64Var(&p.maxID, "max-id", 0, "Only results at or older than this ID")
	flagAlias(cmd.Flags(), "since-id", "since")
}

func (p *pageFlags) apply(q *api.Params) {
	if p.sinceID > 0 {
		q.Set("since_id", p.sinceID)
	}
	if p.maxID > 0 {
		q.Set("max_id", p.maxID)
	}
	if p.count > 0 {
		q.Set("count", p.count)
	}
	if p.page > 0 {
		q.Set("page", p.page)
	}
}

func maskToken(token string) string {
	if len(token) < 8 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", len(token)-8) + token[len(token)-4:]
}
