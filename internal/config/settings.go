package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tweetkit/tw/internal/api"
)

const (
	envPrefix      = "TW"
	configName     = "config"
	configType     = "yaml"
	defaultOutput  = "text"
	defaultAgent   = "tw"
	retryKeyPrefix = "retry."
)

// Settings are the non-secret preferences read from config.yaml and TW_*
// environment variables. Flags override them in the command layer.
type Settings struct {
	Output    string        `mapstructure:"output"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
	BaseURL   string        `mapstructure:"base_url"`
	NoColor   bool          `mapstructure:"no_color"`

	v *viper.Viper
}

// DefaultConfigPath returns ~/.config/tw/config.yaml (or the platform
// equivalent).
func DefaultConfigPath() string {
	dir, err := userConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		dir = ExpandPath("~/.config")
	}
	return filepath.Join(dir, serviceName, configName+"."+configType)
}

// LoadSettings reads settings from path, or from DefaultConfigPath when path
// is empty. A missing default file is not an error; a missing explicit file
// is.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetDefault("output", defaultOutput)
	v.SetDefault("timeout", api.DefaultTimeout)
	v.SetDefault("user_agent", defaultAgent)
	v.SetDefault("base_url", "")
	v.SetDefault("no_color", false)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if explicit {
		v.SetConfigFile(ExpandPath(path))
	} else {
		def := DefaultConfigPath()
		v.AddConfigPath(filepath.Dir(def))
		v.SetConfigName(configName)
		v.SetConfigType(configType)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	s := &Settings{v: v}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	s.BaseURL = strings.TrimSuffix(strings.TrimSpace(s.BaseURL), "/")
	return s, nil
}

// ConfigFileUsed returns the file the settings were read from, if any.
func (s *Settings) ConfigFileUsed() string {
	if s == nil || s.v == nil {
		return ""
	}
	return s.v.ConfigFileUsed()
}

// ApplyRetry overrides the fields of cfg that appear under the retry key
// (or as TW_RETRY_* variables). Unset fields are left alone.
func (s *Settings) ApplyRetry(cfg *api.RetryConfig) {
	if s == nil || s.v == nil || cfg == nil {
		return
	}
	setInt := func(key string, dst *int) {
		if s.v.IsSet(retryKeyPrefix + key) {
			*dst = s.v.GetInt(retryKeyPrefix + key)
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if s.v.IsSet(retryKeyPrefix + key) {
			*dst = s.v.GetDuration(retryKeyPrefix + key)
		}
	}
	setInt("max_rate_limit_retries", &cfg.MaxRateLimitRetries)
	setInt("max_5xx_retries", &cfg.Max5xxRetries)
	setDuration("rate_limit_delay", &cfg.RateLimitBaseDelay)
	setDuration("max_rate_limit_wait", &cfg.MaxRateLimitWait)
	setDuration("server_error_delay", &cfg.ServerErrorRetryDelay)
	setInt("circuit_breaker_threshold", &cfg.CircuitBreakerThreshold)
	setDuration("circuit_breaker_reset_time", &cfg.CircuitBreakerResetTime)
}
