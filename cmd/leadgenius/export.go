package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/lead"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export [search-id]",
	Short: "Export the leads of a saved search",
	Long: `Write the leads of a saved search to a file. Without an id, the most
recent search is exported.

The default file name is leads_<query>.<format>, with runs of whitespace in
the query replaced by underscores, written to the current directory.

Examples:
  leadgenius export
  leadgenius export --format json
  leadgenius export 0190c0de-... --output ~/leads/plumbers.csv`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := lead.ParseFormat(exportFormat)
		if err != nil {
			printError(err, nil)
			exitWithCode(ExitUsage)
		}

		ctx := context.Background()
		store := mustOpenHistory(ctx)
		defer store.Close()

		rec, err := latestOrGet(ctx, store, args)
		if err != nil {
			store.Close()
			fail(err, nil)
		}

		path := exportOutput
		if path == "" {
			path = lead.ExportFileName(rec.Query, format)
		}
		if err := writeLeadsFile(path, format, rec.Leads); err != nil {
			store.Close()
			fail(err, nil)
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		printInfof("Exported %d leads from %q to %s\n", len(rec.Leads), rec.Query, abs)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(lead.FormatCSV), "Export format: csv, json or yaml")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: leads_<query>.<format>)")
}

// historyReader is the part of the history store export needs.
type historyReader interface {
	Latest(ctx context.Context) (*history.Record, error)
	Get(ctx context.Context, id string) (*history.Record, error)
}

// latestOrGet returns the search named by args[0], or the latest one.
func latestOrGet(ctx context.Context, store historyReader, args []string) (*history.Record, error) {
	if len(args) == 0 {
		rec, err := store.Latest(ctx)
		if err != nil {
			return nil, fmt.Errorf("no search to export: %w", err)
		}
		return rec, nil
	}
	rec, err := store.Get(ctx, args[0])
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", args[0], err)
	}
	return rec, nil
}
