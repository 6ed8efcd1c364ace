package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tsukumogami/leadgenius/internal/config"
	"github.com/tsukumogami/leadgenius/internal/errmsg"
	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/userconfig"
)

// printInfo prints an informational message unless quiet mode is enabled
func printInfo(a ...interface{}) {
	if !quietFlag {
		fmt.Println(a...)
	}
}

// printInfof prints a formatted informational message unless quiet mode is enabled
func printInfof(format string, a ...interface{}) {
	if !quietFlag {
		fmt.Printf(format, a...)
	}
}

// printJSON marshals the given value to JSON and prints it to stdout
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
		exitWithCode(ExitGeneral)
	}
}

// printError prints an error to stderr with suggestions if available.
// This uses the errmsg package to format errors with actionable suggestions.
func printError(err error, ctx *errmsg.ErrorContext) {
	errmsg.Fprint(os.Stderr, err, ctx)
}

// fail prints err and exits with the code matching its type.
func fail(err error, ctx *errmsg.ErrorContext) {
	printError(err, ctx)
	exitWithCode(exitCodeFor(err))
}

// loadSettings returns the home layout and the user config, exiting on
// failure.
func loadSettings() (*config.Config, *userconfig.Config) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get config: %v\n", err)
		exitWithCode(ExitGeneral)
	}
	ucfg, err := userconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		exitWithCode(ExitGeneral)
	}
	return cfg, ucfg
}

// openHistory opens the configured history store. An empty DSN with the
// sqlite driver uses $LEADGENIUS_HOME/history.db.
func openHistory(ctx context.Context, cfg *config.Config, ucfg *userconfig.Config) (*history.Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	dsn := ucfg.HistoryDSN
	if dsn == "" && ucfg.HistoryDriver != history.DriverPostgres {
		dsn = cfg.HistoryDB
	}
	return history.Open(ctx, ucfg.HistoryDriver, dsn)
}
