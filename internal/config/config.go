package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
)

// Config is the root configuration for floatsync. It is built once at startup
// and handed to the Float client and the reconciler.
type Config struct {
	// AccessToken is the Float API bearer token.
	AccessToken string `mapstructure:"access_key"`
	// PeopleID is the Float person whose time is logged.
	PeopleID string `mapstructure:"people_id"`
	// ProjectID is the Float project the time is logged against.
	ProjectID string `mapstructure:"project_id"`
	// BaseURL is the Float API root.
	BaseURL string `mapstructure:"api_url"`
	// Hours is logged for every confirmed day that has no entry yet.
	Hours float64 `mapstructure:"hours"`
	// BugsnagAPIKey enables failure reporting when set.
	BugsnagAPIKey string `mapstructure:"bugsnag_key"`
}

const (
	// DefaultBaseURL is the Float v3 REST API.
	DefaultBaseURL = "https://api.float.com/v3"
	// DefaultHours is a full working day.
	DefaultHours = 8

	// KeyringService and KeyringKey locate the stored access token.
	KeyringService = "floatsync"
	KeyringKey     = "access-key"

	envPrefix = "FLOAT"
)

// keys lists every setting; each maps to FLOAT_<KEY> in the environment.
var keys = []string{"access_key", "people_id", "project_id", "api_url", "hours", "bugsnag_key"}

// FilePath returns the path to ~/.floatsync/config.yaml.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".floatsync", "config.yaml"), nil
}

// Load reads defaults, then ~/.floatsync/config.yaml if present, then FLOAT_*
// environment variables. A missing access token is looked up in the OS keyring.
func Load() (*Config, error) {
	path, err := FilePath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. The file is optional.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("api_url", DefaultBaseURL)
	v.SetDefault("hours", DefaultHours)
	v.SetEnvPrefix(envPrefix)
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("binding %s: %w", k, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.Hours <= 0 {
		cfg.Hours = DefaultHours
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	// An unusable keyring leaves the token empty; Float then answers 401.
	if cfg.AccessToken == "" {
		if tok, err := StoredToken(); err == nil {
			cfg.AccessToken = tok
		}
	}
	return &cfg, nil
}

// StoredToken returns the access token saved by "floatsync login", or "" if
// there is none.
func StoredToken() (string, error) {
	tok, err := keyring.Get(KeyringService, KeyringKey)
	if errors.Is(err, keyring.ErrNotFound) || errors.Is(err, keyring.ErrUnsupportedPlatform) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token from keyring: %w", err)
	}
	return tok, nil
}

// StoreToken saves the access token in the OS keyring.
func StoreToken(tok string) error {
	if tok == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(KeyringService, KeyringKey, tok); err != nil {
		return fmt.Errorf("storing token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the stored access token. Deleting a missing token is not an error.
func DeleteToken() error {
	err := keyring.Delete(KeyringService, KeyringKey)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting token from keyring: %w", err)
	}
	return nil
}
