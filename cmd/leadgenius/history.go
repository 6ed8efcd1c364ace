package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/llm"
)

var (
	historyLimit int
	historyJSON  bool
	showJSON     bool
	showSources  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved searches",
	Long: `List searches saved in history, most recent first.

Examples:
  leadgenius history
  leadgenius history --limit 5
  leadgenius history show <id>
  leadgenius history rm <id>`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := mustOpenHistory(ctx)
		defer store.Close()

		searches, err := store.List(ctx, historyLimit)
		if err != nil {
			store.Close()
			fail(err, nil)
		}

		if historyJSON {
			if searches == nil {
				searches = []history.Summary{}
			}
			printJSON(searches)
			return
		}

		if len(searches) == 0 {
			printInfo("No saved searches.")
			return
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tWHEN\tLEADS\tPLATFORM\tREGION\tQUERY")
		for _, s := range searches {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
				s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.LeadCount,
				s.Platform, truncate(s.Region), truncate(s.Query))
		}
		_ = tw.Flush()

		total := totalUsage(searches)
		printInfof("\n%d searches, %s\n", len(searches), total)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the leads of a saved search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := mustOpenHistory(ctx)
		defer store.Close()

		rec, err := store.Get(ctx, args[0])
		if err != nil {
			store.Close()
			fail(fmt.Errorf("search %s: %w", args[0], err), nil)
		}

		if showJSON {
			printJSON(rec)
			return
		}

		printInfof("Search %s\n", rec.ID)
		printInfof("  Query:    %s\n", rec.Query)
		printInfof("  Region:   %s\n", rec.Region)
		printInfof("  Platform: %s\n", rec.Platform)
		printInfof("  Provider: %s (%s)\n", rec.Provider, rec.Model)
		printInfof("  When:     %s\n\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))

		if len(rec.Leads) == 0 {
			printInfo("No leads.")
		} else if err := renderTable(os.Stdout, rec.Leads); err != nil {
			fail(err, nil)
		}
		if showSources {
			renderSources(os.Stdout, rec.Sources)
		}
	},
}

var historyRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		store := mustOpenHistory(ctx)
		defer store.Close()

		if err := store.Delete(ctx, args[0]); err != nil {
			store.Close()
			fail(fmt.Errorf("search %s: %w", args[0], err), nil)
		}
		printInfof("Deleted search %s\n", args[0])
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of searches to list (0 for all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output as JSON")
	historyShowCmd.Flags().BoolVar(&showJSON, "json", false, "Output the full record as JSON")
	historyShowCmd.Flags().BoolVar(&showSources, "sources", false, "List the web pages the model cited")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyRmCmd)
}

// totalUsage sums the token usage of the listed searches.
func totalUsage(searches []history.Summary) llm.Usage {
	var total llm.Usage
	for _, s := range searches {
		total.Add(s.Usage)
	}
	return total
}

// mustOpenHistory opens the configured history store or exits.
func mustOpenHistory(ctx context.Context) *history.Store {
	cfg, ucfg := loadSettings()
	store, err := openHistory(ctx, cfg, ucfg)
	if err != nil {
		fail(err, nil)
	}
	return store
}
