package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tweetkit/tw/internal/api"
	"github.com/tweetkit/tw/internal/config"
	"github.com/tweetkit/tw/internal/dryrun"
)

type clientFactory struct {
	settings *config.Settings
}

func newClientFactory() *clientFactory {
	return &clientFactory{settings: settings}
}

// client resolves the account and returns a configured Client along with
// the account it authenticates as.
func (f *clientFactory) client() (*api.Client, config.Account, error) {
	account, err := config.ResolveAccount(f.settings, config.Overrides{
		Profile: flags.Profile,
		BaseURL: flags.BaseURL,
	})
	if err != nil {
		return nil, config.Account{}, err
	}
	client := api.New(account.BaseURL, api.Credentials{
		Username:    account.Username,
		Password:    account.Password,
		BearerToken: account.BearerToken,
	})
	if flags.Timeout > 0 {
		client.HTTP.Timeout = flags.Timeout
	}
	client.UserAgent = flags.UserAgent
	if client.UserAgent == "" {
		client.UserAgent = "tw/" + version
	}
	f.applyRetry(client)
	return client, account, nil
}

// applyRetry layers settings file values and then flags over the env
// derived retry configuration.
func (f *clientFactory) applyRetry(client *api.Client) {
	cfg := client.RetryConfig
	if f.settings != nil {
		f.settings.ApplyRetry(&cfg)
	}
	if flags.MaxRateLimitRetriesSet {
		cfg.MaxRateLimitRetries = flags.MaxRateLimitRetries
	}
	if flags.Max5xxRetriesSet {
		cfg.Max5xxRetries = flags.Max5xxRetries
	}
	if flags.RateLimitDelaySet {
		cfg.RateLimitBaseDelay = flags.RateLimitDelay
	}
	if flags.ServerErrorDelaySet {
		cfg.ServerErrorRetryDelay = flags.ServerErrorDelay
	}
	if flags.CircuitBreakerThresholdSet {
		cfg.CircuitBreakerThreshold = flags.CircuitBreakerThreshold
	}
	if flags.CircuitBreakerResetTimeSet {
		cfg.CircuitBreakerResetTime = flags.CircuitBreakerResetTime
	}
	client.SetRetryConfig(cfg)
}

// session is what a command talks to: the endpoint layer plus the
// account behind it. In dry-run mode requests go to a Recorder and the
// account is whatever could be resolved, possibly empty.
type session struct {
	*api.Base
	account config.Account
}

func newSession(cmd *cobra.Command) (*session, error) {
	logger := slog.Default()
	if dryrun.IsEnabled(cmd.Context()) {
		account, _ := config.ResolveAccount(settings, config.Overrides{Profile: flags.Profile, BaseURL: flags.BaseURL})
		return &session{
			Base:    api.NewBase(dryrun.NewRecorder(cmd.OutOrStdout()), api.WithLogger(logger)),
			account: account,
		}, nil
	}
	client, account, err := newClientFactory().client()
	if err != nil {
		return nil, err
	}
	return &session{Base: api.NewBase(client, api.WithLogger(logger)), account: account}, nil
}
