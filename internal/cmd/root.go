package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
	"github.com/tweetkit/tw/internal/debug"
	"github.com/tweetkit/tw/internal/dryrun"
	"github.com/tweetkit/tw/internal/outfmt"
	"github.com/tweetkit/tw/internal/validation"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output       string
	Color        string
	Debug        bool
	DryRun       bool
	AllowPrivate bool
	Query        string
	JQ           string
	Compact      bool
	Timeout      time.Duration
	UserAgent    string
	Profile      string
	BaseURL      string
	ConfigPath   string

	MaxRateLimitRetries     int
	Max5xxRetries           int
	RateLimitDelay          time.Duration
	ServerErrorDelay        time.Duration
	CircuitBreakerThreshold int
	CircuitBreakerResetTime time.Duration

	MaxRateLimitRetriesSet     bool
	Max5xxRetriesSet           bool
	RateLimitDelaySet          bool
	ServerErrorDelaySet        bool
	CircuitBreakerThresholdSet bool
	CircuitBreakerResetTimeSet bool
}

// flags holds the global command flags. This is package-level mutable state
// that MUST be reset at the start of every Execute() call. Tests depend on
// this reset to get clean state.
var flags = defaultFlags()

// settings is the config file and TW_* environment view loaded by the
// root command before any subcommand runs.
var settings *config.Settings

func defaultFlags() rootFlags {
	return rootFlags{
		Output:  "text",
		Color:   "auto",
		Timeout: api.DefaultTimeout,
	}
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = defaultFlags()
	settings = nil

	root := &cobra.Command{
		Use:                "tw",
		Short:              "Command line client for the v1 REST API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // did-you-mean comes from enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupRun(cmd)
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|yaml (env TW_OUTPUT)")
	pf.StringVar(&flags.Color, "color", flags.Color, "Color output: auto|always|never")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print the requests that would be sent without sending them")
	pf.BoolVar(&flags.AllowPrivate, "allow-private", false, "Allow private/localhost base URLs (unsafe)")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter the response document")
	pf.StringVar(&flags.JQ, "jq", "", "Alias for --query")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.DurationVar(&flags.Timeout, "timeout", flags.Timeout, "HTTP request timeout (e.g., 30s, 2m)")
	pf.StringVar(&flags.UserAgent, "user-agent", "", "User-Agent header sent with every request")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env TW_PROFILE)")
	pf.StringVar(&flags.BaseURL, "base-url", "", "API base URL (env TW_BASE_URL)")
	pf.StringVar(&flags.ConfigPath, "config", "", "Settings file (default "+config.DefaultConfigPath()+")")
	pf.IntVar(&flags.MaxRateLimitRetries, "max-rate-limit-retries", 0, "Max retries for 420/429 responses (overrides env)")
	pf.IntVar(&flags.Max5xxRetries, "max-5xx-retries", 0, "Max retries for 5xx responses (overrides env)")
	pf.DurationVar(&flags.RateLimitDelay, "rate-limit-delay", 0, "Backoff base for rate-limit retries without headers (e.g., 1s; overrides env)")
	pf.DurationVar(&flags.ServerErrorDelay, "server-error-delay", 0, "Delay between 5xx retries (e.g., 1s; overrides env)")
	pf.IntVar(&flags.CircuitBreakerThreshold, "circuit-breaker-threshold", 0, "Failures before circuit opens (overrides env)")
	pf.DurationVar(&flags.CircuitBreakerResetTime, "circuit-breaker-reset-time", 0, "Circuit breaker reset time (e.g., 30s; overrides env)")

	// Short aliases for persistent flags
	flagAlias(pf, "output", "out")
	flagAlias(pf, "dry-run", "dr")
	flagAlias(pf, "debug", "dbg")
	flagAlias(pf, "query", "qr")
	flagAlias(pf, "compact-json", "cj")
	flagAlias(pf, "color", "clr")
	flagAlias(pf, "timeout", "to")
	flagAlias(pf, "allow-private", "ap")
	flagAlias(pf, "profile", "pf")
	flagAlias(pf, "max-rate-limit-retries", "max-rl")
	flagAlias(pf, "max-5xx-retries", "m5x")
	flagAlias(pf, "rate-limit-delay", "rld")
	flagAlias(pf, "server-error-delay", "sedly")
	flagAlias(pf, "circuit-breaker-threshold", "cbt")
	flagAlias(pf, "circuit-breaker-reset-time", "cbr")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newTimelineCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newDMCmd())
	root.AddCommand(newFriendshipCmd())
	root.AddCommand(newFriendsCmd())
	root.AddCommand(newFollowersCmd())
	root.AddCommand(newAccountCmd())
	root.AddCommand(newFavoritesCmd())
	root.AddCommand(newNotificationsCmd())
	root.AddCommand(newBlockCmd())
	root.AddCommand(newSpamCmd())
	root.AddCommand(newListsCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newHelpTestCmd())
	root.AddCommand(newAPICmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			enhanced := enhanceUnknownError(err, root, targetCmd)
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanced)
		}
		return err
	}
	return nil
}

// setupRun loads settings and puts the output, debug and dry-run choices on
// the command context. Flags win over the settings file.
func setupRun(cmd *cobra.Command) error {
	loaded, err := config.LoadSettings(flags.ConfigPath)
	if err != nil {
		return err
	}
	settings = loaded

	if !flagOrAliasChanged(cmd, "output") && settings.Output != "" {
		flags.Output = settings.Output
	}
	if !flagOrAliasChanged(cmd, "timeout") && settings.Timeout > 0 {
		flags.Timeout = settings.Timeout
	}
	if flags.UserAgent == "" {
		flags.UserAgent = settings.UserAgent
	}
	if settings.NoColor && !flagOrAliasChanged(cmd, "color") {
		flags.Color = "never"
	}
	switch flags.Color {
	case "auto", "always", "never":
	default:
		return api.NewValidationError("color", flags.Color, []string{"auto", "always", "never"})
	}
	color.NoColor = !colorEnabled()

	ctx := cmd.Context()

	mode, err := outfmt.Parse(flags.Output)
	if err != nil {
		return err
	}
	ctx = outfmt.WithMode(ctx, mode)
	ctx = outfmt.WithCompact(ctx, flags.Compact)
	if q := getJQQuery(); q != "" {
		ctx = outfmt.WithQuery(ctx, q)
	}

	validation.SetAllowPrivate(flags.AllowPrivate)
	if flags.AllowPrivate {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Warning: allowing private/localhost URLs (use only with trusted targets).")
	}

	debug.SetupLogger(flags.Debug)
	ctx = debug.WithDebug(ctx, flags.Debug)
	ctx = dryrun.WithDryRun(ctx, flags.DryRun)

	if err := readRetryFlags(cmd); err != nil {
		return err
	}

	cmd.SetContext(ctx)
	return nil
}

func readRetryFlags(cmd *cobra.Command) error {
	flags.MaxRateLimitRetriesSet = flagOrAliasChanged(cmd, "max-rate-limit-retries")
	flags.Max5xxRetriesSet = flagOrAliasChanged(cmd, "max-5xx-retries")
	flags.RateLimitDelaySet = flagOrAliasChanged(cmd, "rate-limit-delay")
	flags.ServerErrorDelaySet = flagOrAliasChanged(cmd, "server-error-delay")
	flags.CircuitBreakerThresholdSet = flagOrAliasChanged(cmd, "circuit-breaker-threshold")
	flags.CircuitBreakerResetTimeSet = flagOrAliasChanged(cmd, "circuit-breaker-reset-time")

	if flags.MaxRateLimitRetriesSet && flags.MaxRateLimitRetries < 0 {
		return fmt.Errorf("--max-rate-limit-retries must be >= 0")
	}
	if flags.Max5xxRetriesSet && flags.Max5xxRetries < 0 {
		return fmt.Errorf("--max-5xx-retries must be >= 0")
	}
	if flags.RateLimitDelaySet && flags.RateLimitDelay < 0 {
		return fmt.Errorf("--rate-limit-delay must be >= 0")
	}
	if flags.ServerErrorDelaySet && flags.ServerErrorDelay < 0 {
		return fmt.Errorf("--server-error-delay must be >= 0")
	}
	if flags.CircuitBreakerThresholdSet && flags.CircuitBreakerThreshold < 0 {
		return fmt.Errorf("--circuit-breaker-threshold must be >= 0")
	}
	if flags.CircuitBreakerResetTimeSet && flags.CircuitBreakerResetTime < 0 {
		return fmt.Errorf("--circuit-breaker-reset-time must be >= 0")
	}
	return nil
}

// getJQQuery returns the jq query from --jq or --query.
// --jq takes precedence over --query.
func getJQQuery() string {
	if flags.JQ != "" {
		return flags.JQ
	}
	return flags.Query
}
