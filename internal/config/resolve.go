package config

import (
	"fmt"
	"strings"
)

// Overrides are the connection values given on the command line.
type Overrides struct {
	Profile string
	BaseURL string
}

// ResolveAccount loads the account for o.Profile (or the current profile) and
// settles its base URL. In increasing precedence the base URL comes from the
// account, the settings file, TW_BASE_URL and o.BaseURL.
func ResolveAccount(settings *Settings, o Overrides) (Account, error) {
	var (
		account Account
		err     error
	)
	if o.Profile != "" {
		if env, ok, envErr := accountFromEnv(); ok || envErr != nil {
			account, err = env, envErr
		} else {
			account, err = LoadProfile(o.Profile)
		}
	} else {
		account, err = LoadAccount()
	}
	if err != nil {
		return Account{}, err
	}

	if account.BaseURL == "" && settings != nil {
		account.BaseURL = settings.BaseURL
	}
	if env := envValue(envBaseURL); env != "" {
		account.BaseURL = strings.TrimSuffix(env, "/")
	}
	if o.BaseURL != "" {
		account.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	}
	if !account.HasCredentials() {
		return Account{}, fmt.Errorf("profile has no usable credentials (need username and password, or a bearer token): %w", ErrNotConfigured)
	}
	return account, nil
}
