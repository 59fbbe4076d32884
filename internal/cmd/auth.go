package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
	"github.com/tweetkit/tw/internal/validation"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		Aliases: []string{"au"},
		Short:   "Manage stored credentials",
		Long:    "Store, inspect and switch between credential profiles kept in your OS keychain.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthListCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

// readPassword prompts on the terminal; tests replace it.
var readPassword = func(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	_, _ = fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func newAuthLoginCmd() *cobra.Command {
	var (
		username    string
		password    string
		bearerToken string
		envFile     string
		verify      bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save credentials to a profile",
		Long: strings.TrimSpace(`
Save credentials securely to your OS keychain.

Use either a username and password (HTTP basic auth) or a bearer token.
The password is prompted for when it is not given and stdin is a terminal.

The profile is chosen with --profile (default "default") and becomes the
current profile. --base-url stores a custom API host with the profile.
`),
		Example: strings.TrimSpace(`
  # Basic auth, prompting for the password
  tw auth login --username jack

  # Bearer token under a named profile
  tw auth login --bearer-token AAAA... --profile app

  # Load TW_USERNAME/TW_PASSWORD/TW_BEARER_TOKEN/TW_BASE_URL from a .env file
  tw auth login --env-file .env --verify
`),
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			baseURL := flags.BaseURL

			if envFile != "" {
				envVars, err := loadAuthEnvFile(envFile)
				if err != nil {
					return err
				}
				applyAuthEnvFileRuntimeVars(envVars)
				if username == "" {
					username = strings.TrimSpace(envVars["TW_USERNAME"])
				}
				if password == "" {
					password = envVars["TW_PASSWORD"]
				}
				if bearerToken == "" {
					bearerToken = strings.TrimSpace(envVars["TW_BEARER_TOKEN"])
				}
				if baseURL == "" {
					baseURL = strings.TrimSpace(envVars["TW_BASE_URL"])
				}
				if profile == "" {
					profile = strings.TrimSpace(envVars["TW_PROFILE"])
				}
			}

			if username == "" && bearerToken == "" {
				return fmt.Errorf("--username or --bearer-token is required")
			}
			if username != "" && bearerToken != "" {
				return fmt.Errorf("--username and --bearer-token cannot be used together")
			}
			if username != "" && password == "" {
				p, err := readPassword(fmt.Sprintf("Password for %s: ", username))
				if err != nil {
					return err
				}
				password = p
			}
			if username != "" && password == "" {
				return fmt.Errorf("password must not be empty")
			}

			baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
			if baseURL != "" {
				if err := validation.ValidateBaseURL(baseURL); err != nil {
					return fmt.Errorf("invalid base URL: %w", err)
				}
			}
			if profile == "" {
				profile = "default"
			}

			account := config.Account{
				BaseURL:     baseURL,
				Username:    strings.TrimPrefix(username, "@"),
				Password:    password,
				BearerToken: bearerToken,
			}

			var who string
			if verify {
				user, err := verifyAccount(cmd, account)
				if err != nil {
					return err
				}
				who = user.ScreenName
			}

			if err := config.SaveProfile(profile, account); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			f := newFormatter(cmd)
			if f.Structured() {
				payload := map[string]any{"saved": true, "profile": profile}
				if who != "" {
					payload["screen_name"] = who
				}
				return f.Output(payload)
			}
			f.Message("Credentials saved to profile %q.", profile)
			if baseURL != "" {
				f.Message("  Base URL: %s", baseURL)
			}
			if who != "" {
				f.Message("  Verified as @%s", who)
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Screen name for basic auth")
	cmd.Flags().StringVar(&password, "password", "", "Password for basic auth (prompted when omitted)")
	cmd.Flags().StringVar(&bearerToken, "bearer-token", "", "Bearer token (instead of username and password)")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load TW_* values from a .env file")
	cmd.Flags().BoolVar(&verify, "verify", false, "Check the credentials with account/verify_credentials before saving")
	flagAlias(cmd.Flags(), "bearer-token", "token")
	flagAlias(cmd.Flags(), "env-file", "env")

	return cmd
}

// verifyAccount checks account against the API without touching the keyring.
func verifyAccount(cmd *cobra.Command, account config.Account) (*api.User, error) {
	baseURL := account.BaseURL
	if baseURL == "" && settings != nil {
		baseURL = settings.BaseURL
	}
	client := api.New(baseURL, api.Credentials{
		Username:    account.Username,
		Password:    account.Password,
		BearerToken: account.BearerToken,
	})
	if flags.Timeout > 0 {
		client.HTTP.Timeout = flags.Timeout
	}
	client.UserAgent = "tw/" + version
	resp, err := api.NewBase(client).VerifyCredentials(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("credential check failed: %w", err)
	}
	var user api.User
	if err := resp.Decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func loadAuthEnvFile(path string) (map[string]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("--env-file requires a file path")
	}
	envVars, err := godotenv.Read(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read --env-file %q: %w", path, err)
	}
	return envVars, nil
}

// applyAuthEnvFileRuntimeVars copies keyring settings from --env-file
// into the process environment when they are not already exported.
func applyAuthEnvFileRuntimeVars(envVars map[string]string) {
	for _, key := range []string{"TW_KEYRING_BACKEND", "TW_KEYRING_PASSWORD", "TW_CREDENTIALS_DIR"} {
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if value := strings.TrimSpace(envVars[key]); value != "" {
			_ = os.Setenv(key, value)
		}
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active credentials",
		Long:  "Display the credentials in use (secrets are masked).",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			usingEnv := os.Getenv("TW_USERNAME") != "" || os.Getenv("TW_BEARER_TOKEN") != ""
			f := newFormatter(cmd)

			account, err := config.ResolveAccount(settings, config.Overrides{Profile: flags.Profile, BaseURL: flags.BaseURL})
			if err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					if f.Structured() {
						return f.Output(map[string]any{"authenticated": false})
					}
					f.Message("Not authenticated.")
					f.Message("Run 'tw auth login' to configure credentials.")
					return nil
				}
				return fmt.Errorf("failed to load credentials: %w", err)
			}

			source := "keychain"
			var profile string
			if usingEnv {
				source = "env"
			} else if flags.Profile != "" {
				profile = flags.Profile
			} else if current, err := config.CurrentProfile(); err == nil {
				profile = current
			}
			baseURL := account.BaseURL
			if baseURL == "" {
				baseURL = api.DefaultBaseURL
			}

			method := "basic"
			secret := maskToken(account.Password)
			if account.BearerToken != "" {
				method = "bearer"
				secret = maskToken(account.BearerToken)
			}

			if f.Structured() {
				payload := map[string]any{
					"authenticated": true,
					"method":        method,
					"base_url":      baseURL,
					"secret":        secret,
					"source":        source,
				}
				if account.Username != "" {
					payload["username"] = account.Username
				}
				if profile != "" {
					payload["profile"] = profile
				}
				return f.Output(payload)
			}

			pairs := [][2]string{{"Method", method}, {"Base URL", baseURL}}
			if account.Username != "" {
				pairs = append(pairs, [2]string{"Username", account.Username})
			}
			pairs = append(pairs, [2]string{"Secret", secret}, [2]string{"Source", source})
			if profile != "" {
				pairs = append(pairs, [2]string{"Profile", profile})
			}
			return f.Properties(pairs...)
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove a profile from the keychain",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profile := flags.Profile
			if profile == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				profile = current
			}
			if err := config.DeleteProfile(profile); err != nil {
				return fmt.Errorf("failed to remove credentials: %w", err)
			}
			newFormatter(cmd).Message("Removed profile %q.", profile)
			return nil
		}),
	}
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "profiles"},
		Short:   "List stored profiles",
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}
			f := newFormatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{"profiles": profiles, "current": current})
			}
			if len(profiles) == 0 {
				f.Empty("No profiles stored. Run 'tw auth login' first.")
				return nil
			}
			f.StartTable("PROFILE", "CURRENT")
			for _, p := range profiles {
				mark := ""
				if p == current {
					mark = "*"
				}
				f.Row(p, mark)
			}
			return f.EndTable()
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Switch the current profile",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			profile := strings.TrimSpace(args[0])
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			found := false
			for _, p := range profiles {
				if p == profile {
					found = true
					break
				}
			}
			if !found {
				msg := fmt.Sprintf("profile %q not found", profile)
				if s := suggest(profile, profiles); s != "" {
					msg += fmt.Sprintf("; did you mean %q?", s)
				}
				return errors.New(msg)
			}
			if err := config.SetCurrentProfile(profile); err != nil {
				return err
			}
			newFormatter(cmd).Message("Switched to profile %q.", profile)
			return nil
		}),
	}
}
