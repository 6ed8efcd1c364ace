package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/leadgenius/internal/buildinfo"
	"github.com/tsukumogami/leadgenius/internal/config"
	"github.com/tsukumogami/leadgenius/internal/log"
	"github.com/tsukumogami/leadgenius/internal/secrets"
)

var (
	quietFlag   bool
	verboseFlag bool
	debugFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "leadgenius",
	Short: "Find business leads with web-grounded AI research",
	Long: `leadgenius asks a web-search-grounded language model to find businesses
and professionals matching a query, then turns the reply into a list of
leads you can review, keep in history and export as CSV, JSON or YAML.

Examples:
  leadgenius search "Plumbing companies in Lyon, France"
  leadgenius search "SaaS founders" --region Berlin --platform linkedin
  leadgenius export --format csv`,
	Version:       buildinfo.Read().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger()
		loadDotEnv()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Only show errors")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Show informational log output")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show debug log output, including raw model replies")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(secretsCmd)
}

// determineLogLevel resolves the log level from flags, then environment
// variables. Flags always win over the environment; within each source
// debug beats verbose beats quiet.
func determineLogLevel() slog.Level {
	switch {
	case debugFlag:
		return slog.LevelDebug
	case verboseFlag:
		return slog.LevelInfo
	case quietFlag:
		return slog.LevelError
	}

	switch {
	case isTruthy(os.Getenv("LEADGENIUS_DEBUG")):
		return slog.LevelDebug
	case isTruthy(os.Getenv("LEADGENIUS_VERBOSE")):
		return slog.LevelInfo
	case isTruthy(os.Getenv("LEADGENIUS_QUIET")):
		return slog.LevelError
	}

	return slog.LevelWarn
}

// isTruthy reports whether an environment value means "enabled".
func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func initLogger() {
	level := determineLogLevel()
	if level >= slog.LevelError {
		quietFlag = true
	}
	log.SetDefault(log.NewText(os.Stderr, level))
}

// loadDotEnv reads .env from the working directory, then from
// $LEADGENIUS_HOME. Variables already set are kept.
func loadDotEnv() {
	paths := []string{".env"}
	if cfg, err := config.DefaultConfig(); err == nil {
		paths = append(paths, cfg.EnvFile)
	}
	if err := secrets.LoadDotEnv(paths...); err != nil {
		log.Default().Warn("failed to load .env file", "error", err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exitWithCode(ExitUsage)
	}
}
