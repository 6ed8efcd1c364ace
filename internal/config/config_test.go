package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvHome, "")

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	expectedHome := filepath.Join(home, ".leadgenius")

	if cfg.HomeDir != expectedHome {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, expectedHome)
	}
	if cfg.ConfigFile != filepath.Join(expectedHome, "config.toml") {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, filepath.Join(expectedHome, "config.toml"))
	}
	if cfg.HistoryDB != filepath.Join(expectedHome, "history.db") {
		t.Errorf("HistoryDB = %q, want %q", cfg.HistoryDB, filepath.Join(expectedHome, "history.db"))
	}
	if cfg.LockFile != filepath.Join(expectedHome, "search.lock") {
		t.Errorf("LockFile = %q, want %q", cfg.LockFile, filepath.Join(expectedHome, "search.lock"))
	}
}

func TestDefaultConfig_WithHomeEnv(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "lg")
	t.Setenv(EnvHome, custom)

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() failed: %v", err)
	}
	if cfg.HomeDir != custom {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, custom)
	}
	if cfg.EnvFile != filepath.Join(custom, ".env") {
		t.Errorf("EnvFile = %q, want %q", cfg.EnvFile, filepath.Join(custom, ".env"))
	}
}

func TestDefaultConfig_HomeOverride(t *testing.T) {
	t.Setenv(EnvHome, "")
	override := t.TempDir()
	DefaultHomeOverride = override
	defer func() { DefaultHomeOverride = "" }()

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() failed: %v", err)
	}
	if cfg.HomeDir != override {
		t.Errorf("HomeDir = %q, want %q", cfg.HomeDir, override)
	}
}

func TestEnsureDirectories(t *testing.T) {
	t.Setenv(EnvHome, filepath.Join(t.TempDir(), "home"))

	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() failed: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories() failed: %v", err)
	}

	for _, dir := range []string{cfg.HomeDir, cfg.ExportsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("directory %s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestGetAPITimeout(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{"unset", "", DefaultAPITimeout},
		{"valid", "45s", 45 * time.Second},
		{"invalid", "soon", DefaultAPITimeout},
		{"below minimum", "1s", 5 * time.Second},
		{"above maximum", "1h", 15 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvAPITimeout, tt.value)
			if got := GetAPITimeout(); got != tt.want {
				t.Errorf("GetAPITimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetAPIBaseURL(t *testing.T) {
	t.Setenv(EnvAPIBaseURL, "")
	if got := GetAPIBaseURL(); got != "" {
		t.Errorf("GetAPIBaseURL() = %q, want empty", got)
	}

	t.Setenv(EnvAPIBaseURL, " http://127.0.0.1:8080/ ")
	if got := GetAPIBaseURL(); got != "http://127.0.0.1:8080/" {
		t.Errorf("GetAPIBaseURL() = %q", got)
	}
}
