package main

import (
	"log/slog"
	"testing"
)

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"TRUE", true},
		{"yes", true},
		{"On", true},
		{" on ", true},
		{"0", false},
		{"false", false},
		{"no", false},
		{"", false},
		{"off", false},
		{"random", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := isTruthy(tt.input)
			if got != tt.want {
				t.Errorf("isTruthy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDetermineLogLevel(t *testing.T) {
	origQuiet := quietFlag
	origVerbose := verboseFlag
	origDebug := debugFlag

	defer func() {
		quietFlag = origQuiet
		verboseFlag = origVerbose
		debugFlag = origDebug
	}()

	tests := []struct {
		name       string
		quietF     bool
		verboseF   bool
		debugF     bool
		envQuiet   string
		envVerbose string
		envDebug   string
		want       slog.Level
	}{
		{name: "default is WARN", want: slog.LevelWarn},
		{name: "debug flag", debugF: true, want: slog.LevelDebug},
		{name: "verbose flag", verboseF: true, want: slog.LevelInfo},
		{name: "quiet flag", quietF: true, want: slog.LevelError},
		{name: "debug env var", envDebug: "1", want: slog.LevelDebug},
		{name: "verbose env var", envVerbose: "true", want: slog.LevelInfo},
		{name: "quiet env var", envQuiet: "yes", want: slog.LevelError},
		{name: "flag takes precedence over env var", quietF: true, envDebug: "1", want: slog.LevelError},
		{name: "debug flag overrides verbose flag", debugF: true, verboseF: true, want: slog.LevelDebug},
		{name: "verbose flag overrides quiet flag", verboseF: true, quietF: true, want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quietFlag = tt.quietF
			verboseFlag = tt.verboseF
			debugFlag = tt.debugF

			// Empty string acts as "unset" for isTruthy checks
			t.Setenv("LEADGENIUS_QUIET", tt.envQuiet)
			t.Setenv("LEADGENIUS_VERBOSE", tt.envVerbose)
			t.Setenv("LEADGENIUS_DEBUG", tt.envDebug)

			got := determineLogLevel()
			if got != tt.want {
				t.Errorf("determineLogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := map[string]bool{"search": false, "history": false, "export": false, "config": false, "secrets": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}
