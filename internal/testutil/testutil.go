// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/tsukumogami/leadgenius/internal/config"
)

// NewTestConfig points LEADGENIUS_HOME at a fresh temporary directory and
// returns the layout rooted there, with its directories created. The
// directory is removed when the test ends.
func NewTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.EnvHome, t.TempDir())

	cfg, err := config.DefaultConfig()
	if err != nil {
		t.Fatalf("failed to build config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("failed to create directories: %v", err)
	}
	return cfg
}
