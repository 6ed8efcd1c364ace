// Package secrets provides centralized resolution of API keys.
//
// Secrets are resolved by checking environment variables first (including
// values loaded from .env files with LoadDotEnv), then the OS keyring under
// the "leadgenius" service, then the [secrets] section in
// $LEADGENIUS_HOME/config.toml. If no source has a value, an error with
// guidance is returned.
//
// Each known secret is defined in the knownKeys table (specs.go), which maps
// a canonical name to one or more environment variable aliases. Requesting
// an unknown key returns an error.
package secrets

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/zalando/go-keyring"

	"github.com/tsukumogami/leadgenius/internal/userconfig"
)

// KeyringService groups leadgenius secrets in the OS keychain.
const KeyringService = "leadgenius"

// KeyInfo describes a registered secret for external consumers.
type KeyInfo struct {
	// Name is the canonical key name (e.g., "google_api_key").
	Name string

	// EnvVars lists environment variables checked, in priority order.
	EnvVars []string

	// Desc is a human-readable description.
	Desc string
}

// Source identifies where a secret value was found.
type Source string

const (
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
	SourceConfig  Source = "config"
	SourceNone    Source = ""
)

// cachedConfig holds the lazily loaded userconfig.
var (
	configOnce  sync.Once
	cachedCfg   *userconfig.Config
	configError error
)

// loadConfig loads the userconfig lazily on the first call.
func loadConfig() {
	configOnce.Do(func() {
		cachedCfg, configError = userconfig.Load()
	})
}

// getConfig returns the cached userconfig, loading it lazily if needed.
func getConfig() (*userconfig.Config, error) {
	loadConfig()
	return cachedCfg, configError
}

// ResetConfig resets the cached config so the next call to Get()/IsSet()
// reloads from disk. This is intended for testing only.
func ResetConfig() {
	configOnce = sync.Once{}
	cachedCfg = nil
	configError = nil
}

// LoadDotEnv loads KEY=value pairs from the given .env files into the
// process environment. Missing files are skipped. Variables that are
// already set are never overridden.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Get resolves a secret by name.
// Returns the first non-empty value found, or an error if the key is
// unknown or no source has a value set.
func Get(name string) (string, error) {
	val, _, err := Lookup(name)
	return val, err
}

// Lookup resolves a secret by name and reports which source supplied it.
func Lookup(name string) (string, Source, error) {
	spec, ok := knownKeys[name]
	if !ok {
		return "", SourceNone, fmt.Errorf("unknown secret key: %q", name)
	}

	// Check environment variables in priority order.
	for _, env := range spec.EnvVars {
		if val := os.Getenv(env); val != "" {
			return val, SourceEnv, nil
		}
	}

	if val, err := keyring.Get(KeyringService, name); err == nil && val != "" {
		return val, SourceKeyring, nil
	}

	// Fall through to config file.
	cfg, err := getConfig()
	if err == nil && cfg != nil && cfg.Secrets != nil {
		if val, ok := cfg.Secrets[name]; ok && val != "" {
			return val, SourceConfig, nil
		}
	}

	// Build a guidance message listing all env var options.
	envList := strings.Join(spec.EnvVars, " or ")
	return "", SourceNone, fmt.Errorf(
		"%s not configured. Set the %s environment variable, run 'leadgenius secrets set %s', or add %s to [secrets] in $LEADGENIUS_HOME/config.toml",
		name, envList, name, name,
	)
}

// IsSet checks whether a secret is available without returning its value.
// Returns false for unknown keys.
func IsSet(name string) bool {
	_, src, err := Lookup(name)
	return err == nil && src != SourceNone
}

// Set stores a secret in the OS keyring.
func Set(name, value string) error {
	if _, ok := knownKeys[name]; !ok {
		return fmt.Errorf("unknown secret key: %q", name)
	}
	if strings.TrimSpace(value) == "" {
		return errors.New("secret value is empty")
	}
	if err := keyring.Set(KeyringService, name, value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", name, err)
	}
	return nil
}

// Delete removes a secret from the OS keyring.
// Deleting a secret that is not stored is not an error.
func Delete(name string) error {
	if _, ok := knownKeys[name]; !ok {
		return fmt.Errorf("unknown secret key: %q", name)
	}
	if err := keyring.Delete(KeyringService, name); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to remove %s from keyring: %w", name, err)
	}
	return nil
}

// KnownKeys returns metadata for all registered secrets, sorted by name.
func KnownKeys() []KeyInfo {
	keys := make([]KeyInfo, 0, len(knownKeys))
	for name, spec := range knownKeys {
		keys = append(keys, KeyInfo{
			Name:    name,
			EnvVars: spec.EnvVars,
			Desc:    spec.Desc,
		})
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Name < keys[j].Name
	})
	return keys
}
