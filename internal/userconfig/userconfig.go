// Package userconfig provides user configuration management for leadgenius.
// Configuration is stored in $LEADGENIUS_HOME/config.toml and can be modified
// via the `leadgenius config` command.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tsukumogami/leadgenius/internal/config"
	"github.com/tsukumogami/leadgenius/internal/lead"
)

// Config represents user-configurable settings.
type Config struct {
	// Provider selects the generation backend ("gemini" or "claude").
	Provider string `toml:"provider"`

	// Model overrides the provider's default model identifier.
	Model string `toml:"model,omitempty"`

	// DefaultRegion is used when a search is issued without --region.
	// Empty means the research client's "Global" fallback applies.
	DefaultRegion string `toml:"default_region,omitempty"`

	// DefaultPlatform is used when a search is issued without --platform.
	DefaultPlatform string `toml:"default_platform"`

	// RequestsPerMinute caps how often the provider is called. Zero disables pacing.
	RequestsPerMinute int `toml:"requests_per_minute"`

	// HistoryEnabled controls whether completed searches are persisted.
	HistoryEnabled bool `toml:"history_enabled"`

	// HistoryDriver is "sqlite" or "postgres".
	HistoryDriver string `toml:"history_driver"`

	// HistoryDSN is the data source for the history store.
	// Empty with the sqlite driver means $LEADGENIUS_HOME/history.db.
	HistoryDSN string `toml:"history_dsn,omitempty"`

	// Secrets holds API keys as a last-resort fallback after the
	// environment and the OS keyring.
	Secrets map[string]string `toml:"secrets,omitempty"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider:          "gemini",
		DefaultPlatform:   lead.PlatformAll.String(),
		RequestsPerMinute: 10,
		HistoryEnabled:    true,
		HistoryDriver:     "sqlite",
	}
}

// Load reads the config file and returns the configuration.
// Returns default values if the file doesn't exist.
// Returns an error only for file parsing issues, not missing files.
func Load() (*Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return DefaultConfig(), nil // Silently use defaults
	}

	return loadFromPath(cfg.ConfigFile)
}

// loadFromPath reads config from a specific file path (for testing).
func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return userCfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return c.saveToPath(cfg.ConfigFile)
}

// saveToPath writes config to a specific file path (for testing).
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The file may carry API keys under [secrets].
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "provider":
		return c.Provider, true
	case "model":
		return c.Model, true
	case "default_region":
		return c.DefaultRegion, true
	case "default_platform":
		return c.DefaultPlatform, true
	case "requests_per_minute":
		return strconv.Itoa(c.RequestsPerMinute), true
	case "history_enabled":
		return strconv.FormatBool(c.HistoryEnabled), true
	case "history_driver":
		return c.HistoryDriver, true
	case "history_dsn":
		return c.HistoryDSN, true
	default:
		return "", false
	}
}

// Set updates a config value from a string.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "provider":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "gemini" && v != "claude" {
			return fmt.Errorf("invalid value for provider: must be gemini or claude")
		}
		c.Provider = v
	case "model":
		c.Model = strings.TrimSpace(value)
	case "default_region":
		c.DefaultRegion = strings.TrimSpace(value)
	case "default_platform":
		p, err := lead.ParsePlatform(value)
		if err != nil {
			return fmt.Errorf("invalid value for default_platform: %w", err)
		}
		c.DefaultPlatform = p.String()
	case "requests_per_minute":
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return fmt.Errorf("invalid value for requests_per_minute: must be a non-negative integer")
		}
		c.RequestsPerMinute = n
	case "history_enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for history_enabled: must be true or false")
		}
		c.HistoryEnabled = b
	case "history_driver":
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "sqlite" && v != "postgres" {
			return fmt.Errorf("invalid value for history_driver: must be sqlite or postgres")
		}
		c.HistoryDriver = v
	case "history_dsn":
		c.HistoryDSN = strings.TrimSpace(value)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

// AvailableKeys returns a list of all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"provider":            "Generation backend (gemini/claude)",
		"model":               "Model identifier override (empty for provider default)",
		"default_region":      "Region used when --region is omitted",
		"default_platform":    "Platform used when --platform is omitted (all/linkedin/facebook/google)",
		"requests_per_minute": "Maximum model requests per minute (0 disables pacing)",
		"history_enabled":     "Save completed searches (true/false)",
		"history_driver":      "History database driver (sqlite/postgres)",
		"history_dsn":         "History database DSN (empty for $LEADGENIUS_HOME/history.db)",
	}
}
