package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// EnvHome is the environment variable to override the default leadgenius home directory
	EnvHome = "LEADGENIUS_HOME"

	// EnvAPITimeout is the environment variable to configure the model request timeout
	EnvAPITimeout = "LEADGENIUS_API_TIMEOUT"

	// EnvAPIBaseURL overrides the provider API endpoint. Used to point the
	// CLI at a local stand-in server.
	EnvAPIBaseURL = "LEADGENIUS_API_BASE_URL"

	// DefaultAPITimeout is the default timeout for a single research request (2 minutes).
	// Grounded generation runs several web searches before answering, so this is
	// well above a plain completion call.
	DefaultAPITimeout = 2 * time.Minute
)

// DefaultHomeOverride replaces ~/.leadgenius when LEADGENIUS_HOME is unset.
// Tests set it to a temporary directory.
var DefaultHomeOverride string

// GetAPITimeout returns the configured API timeout from LEADGENIUS_API_TIMEOUT.
// If not set or invalid, returns DefaultAPITimeout.
// Accepts duration strings like "30s", "1m", "2m30s".
func GetAPITimeout() time.Duration {
	envValue := os.Getenv(EnvAPITimeout)
	if envValue == "" {
		return DefaultAPITimeout
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, using default %v\n",
			EnvAPITimeout, envValue, DefaultAPITimeout)
		return DefaultAPITimeout
	}

	// Validate reasonable range (5 seconds to 15 minutes)
	if duration < 5*time.Second {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum 5s\n",
			EnvAPITimeout, duration)
		return 5 * time.Second
	}
	if duration > 15*time.Minute {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum 15m\n",
			EnvAPITimeout, duration)
		return 15 * time.Minute
	}

	return duration
}

// GetAPIBaseURL returns the endpoint override from LEADGENIUS_API_BASE_URL,
// or "" to use the provider default.
func GetAPIBaseURL() string {
	return strings.TrimSpace(os.Getenv(EnvAPIBaseURL))
}

// Config holds the on-disk layout of a leadgenius installation.
type Config struct {
	HomeDir    string // $LEADGENIUS_HOME
	ConfigFile string // $LEADGENIUS_HOME/config.toml
	EnvFile    string // $LEADGENIUS_HOME/.env
	HistoryDB  string // $LEADGENIUS_HOME/history.db
	LockFile   string // $LEADGENIUS_HOME/search.lock
	ExportsDir string // $LEADGENIUS_HOME/exports
}

// DefaultConfig returns the layout rooted at LEADGENIUS_HOME, or ~/.leadgenius.
func DefaultConfig() (*Config, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		if DefaultHomeOverride != "" {
			home = DefaultHomeOverride
		} else {
			userHome, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			home = filepath.Join(userHome, ".leadgenius")
		}
	}

	return &Config{
		HomeDir:    home,
		ConfigFile: filepath.Join(home, "config.toml"),
		EnvFile:    filepath.Join(home, ".env"),
		HistoryDB:  filepath.Join(home, "history.db"),
		LockFile:   filepath.Join(home, "search.lock"),
		ExportsDir: filepath.Join(home, "exports"),
	}, nil
}

// EnsureDirectories creates the home directory tree if it does not exist.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.HomeDir, c.ExportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
