package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tweetkit/tw/internal/api"
)

// withMockKeyring routes every keyring open to ring for the duration of a test.
func withMockKeyring(t *testing.T, ring keyring.Keyring) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	}))
}

func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	t.Cleanup(SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, err
	}))
}

// clearEnv unsets the credential variables so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{envBaseURL, envUsername, envPassword, envBearerToken, envProfile} {
		t.Setenv(key, "")
	}
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, accountKey, profileKey(""))
	assert.Equal(t, accountKey, profileKey("default"))
	assert.Equal(t, "profile:work", profileKey("work"))
}

func TestNormalizeProfiles(t *testing.T) {
	got := normalizeProfiles([]string{" work ", "", "default", "work", "  ", "bot"})
	assert.Equal(t, []string{"work", "default", "bot"}, got)
}

func TestSaveAndLoadProfile(t *testing.T) {
	clearEnv(t)
	ring := keyring.NewArrayKeyring(nil)
	withMockKeyring(t, ring)

	acct := Account{Username: "jack", Password: "secret"}
	require.NoError(t, SaveProfile("work", acct))

	got, err := LoadProfile("work")
	require.NoError(t, err)
	assert.Equal(t, acct, got)

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", current)

	loaded, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, acct, loaded)

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, profiles)
}

func TestLoadProfile_NotConfigured(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	_, err := LoadProfile("missing")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestLoadProfile_InvalidJSON(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: accountKey, Data: []byte("{")}}))
	_, err := LoadProfile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal profile")
}

func TestKeyringOpenError(t *testing.T) {
	boom := errors.New("keyring locked")
	withFailingKeyring(t, boom)

	_, err := LoadProfile("default")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, SaveProfile("default", Account{}), boom)
	assert.ErrorIs(t, DeleteProfile("default"), boom)
	_, err = ListProfiles()
	assert.ErrorIs(t, err, boom)
	_, err = CurrentProfile()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, SetCurrentProfile("x"), boom)
}

func TestDeleteProfile_SwitchesCurrent(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))

	require.NoError(t, SaveProfile("home", Account{BearerToken: "a"}))
	require.NoError(t, SaveProfile("work", Account{BearerToken: "b"}))
	require.NoError(t, DeleteProfile("work"))

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "home", current)

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"home"}, profiles)

	_, err = LoadProfile("work")
	assert.ErrorIs(t, err, ErrNotConfigured)

	require.NoError(t, DeleteProfile("home"))
	current, err = CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, defaultProfile, current)
}

func TestListProfiles_LegacyDefault(t *testing.T) {
	withMockKeyring(t, keyring.NewArrayKeyring([]keyring.Item{{Key: accountKey, Data: []byte(`{}`)}}))
	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"default"}, profiles)
}

func TestLoadAccount_FromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Account
		wantErr bool
	}{
		{
			name: "bearer token",
			env:  map[string]string{envBearerToken: "tok", envBaseURL: "https://api.example.com/"},
			want: Account{BearerToken: "tok", BaseURL: "https://api.example.com"},
		},
		{
			name: "basic auth",
			env:  map[string]string{envUsername: "jack", envPassword: "secret"},
			want: Account{Username: "jack", Password: "secret"},
		},
		{
			name:    "username without password",
			env:     map[string]string{envUsername: "jack"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			withFailingKeyring(t, errors.New("keyring must not be opened"))
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := LoadAccount()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadAccount_ProfileFromEnv(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	require.NoError(t, SaveProfile("bot", Account{BearerToken: "bot-token"}))
	require.NoError(t, SaveProfile("me", Account{Username: "me", Password: "pw"}))

	t.Setenv(envProfile, "bot")
	got, err := LoadAccount()
	require.NoError(t, err)
	assert.Equal(t, "bot-token", got.BearerToken)
}

func TestResolveAccount(t *testing.T) {
	clearEnv(t)
	withMockKeyring(t, keyring.NewArrayKeyring(nil))
	require.NoError(t, SaveProfile("work", Account{Username: "jack", Password: "pw"}))
	require.NoError(t, SaveProfile("empty", Account{}))

	settings := &Settings{BaseURL: "https://settings.example.com"}

	got, err := ResolveAccount(settings, Overrides{Profile: "work"})
	require.NoError(t, err)
	assert.Equal(t, "https://settings.example.com", got.BaseURL)

	t.Setenv(envBaseURL, "https://env.example.com/")
	got, err = ResolveAccount(settings, Overrides{Profile: "work"})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", got.BaseURL)

	got, err = ResolveAccount(settings, Overrides{Profile: "work", BaseURL: "https://flag.example.com/"})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", got.BaseURL)

	_, err = ResolveAccount(nil, Overrides{Profile: "empty"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestKeyringBackendMode(t *testing.T) {
	for value, want := range map[string]string{
		"":       keyringBackendAuto,
		"auto":   keyringBackendAuto,
		"FILE":   keyringBackendFile,
		"system": keyringBackendSystem,
		"native": keyringBackendSystem,
		"bogus":  keyringBackendAuto,
	} {
		t.Setenv(envKeyringBackend, value)
		assert.Equal(t, want, keyringBackendMode(), "backend %q", value)
	}
}

func TestShouldForceFileBackend(t *testing.T) {
	assert.True(t, shouldForceFileBackend("darwin", keyringBackendFile, ""))
	assert.True(t, shouldForceFileBackend("linux", keyringBackendAuto, ""))
	assert.False(t, shouldForceFileBackend("linux", keyringBackendAuto, "unix:path=/run/bus"))
	assert.False(t, shouldForceFileBackend("linux", keyringBackendSystem, ""))
	assert.False(t, shouldForceFileBackend("darwin", keyringBackendAuto, ""))
}

func TestKeyringConfig_FileBackend(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envKeyringBackend, "file")
	t.Setenv(envCredentialsDir, dir)

	cfg := keyringConfig()
	assert.Equal(t, serviceName, cfg.ServiceName)
	assert.Equal(t, []keyring.BackendType{keyring.FileBackend}, cfg.AllowedBackends)
	assert.Equal(t, filepath.Join(dir, "keyring"), cfg.FileDir)
	assert.NotNil(t, cfg.FilePasswordFunc)
}

func TestKeyringConfig_System(t *testing.T) {
	t.Setenv(envKeyringBackend, "system")
	cfg := keyringConfig()
	assert.Empty(t, cfg.FileDir)
	assert.Nil(t, cfg.AllowedBackends)
}

func TestKeyringFileDir_DefaultsToUserConfigDir(t *testing.T) {
	t.Setenv(envCredentialsDir, "")
	original := userConfigDir
	userConfigDir = func() (string, error) { return "/cfg", nil }
	t.Cleanup(func() { userConfigDir = original })

	assert.Equal(t, filepath.Join("/cfg", "tw", "keyring"), keyringFileDir())
}

func TestKeyringFilePassword(t *testing.T) {
	t.Setenv(envKeyringPassword, "hunter2")
	pw, err := keyringFilePassword("prompt")
	require.NoError(t, err)
	assert.Equal(t, "hunter2", pw)

	t.Setenv(envKeyringPassword, "")
	original := stdinHasTTY
	stdinHasTTY = func() bool { return false }
	t.Cleanup(func() { stdinHasTTY = original })
	_, err = keyringFilePassword("prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), envKeyringPassword)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("TW_TEST_DIR", "/srv/tw")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, filepath.Join(home, "creds"), ExpandPath("~/creds"))
	assert.Equal(t, "/srv/tw/keyring", ExpandPath("${TW_TEST_DIR}/keyring"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}

func TestLoadSettings_Defaults(t *testing.T) {
	original := userConfigDir
	dir := t.TempDir()
	userConfigDir = func() (string, error) { return dir, nil }
	t.Cleanup(func() { userConfigDir = original })

	s, err := LoadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "text", s.Output)
	assert.Equal(t, api.DefaultTimeout, s.Timeout)
	assert.Equal(t, "tw", s.UserAgent)
	assert.Empty(t, s.ConfigFileUsed())
}

func TestLoadSettings_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`output: json
timeout: 5s
base_url: https://api.example.com/
retry:
  max_5xx_retries: 0
  rate_limit_delay: 250ms
`), 0o600))
	t.Setenv("TW_USER_AGENT", "tw-test")

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "json", s.Output)
	assert.Equal(t, 5*time.Second, s.Timeout)
	assert.Equal(t, "tw-test", s.UserAgent)
	assert.Equal(t, "https://api.example.com", s.BaseURL)
	assert.Equal(t, path, s.ConfigFileUsed())

	cfg := api.RetryConfig{MaxRateLimitRetries: 3, Max5xxRetries: 1, RateLimitBaseDelay: time.Second}
	s.ApplyRetry(&cfg)
	assert.Equal(t, 3, cfg.MaxRateLimitRetries)
	assert.Equal(t, 0, cfg.Max5xxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RateLimitBaseDelay)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
