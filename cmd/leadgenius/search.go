package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/leadgenius/internal/buildinfo"
	"github.com/tsukumogami/leadgenius/internal/config"
	"github.com/tsukumogami/leadgenius/internal/errmsg"
	"github.com/tsukumogami/leadgenius/internal/history"
	"github.com/tsukumogami/leadgenius/internal/httputil"
	"github.com/tsukumogami/leadgenius/internal/lead"
	"github.com/tsukumogami/leadgenius/internal/llm"
	"github.com/tsukumogami/leadgenius/internal/log"
	"github.com/tsukumogami/leadgenius/internal/progress"
	"github.com/tsukumogami/leadgenius/internal/research"
	"github.com/tsukumogami/leadgenius/internal/searchlock"
	"github.com/tsukumogami/leadgenius/internal/secrets"
	"github.com/tsukumogami/leadgenius/internal/userconfig"
)

var (
	searchRegion    string
	searchPlatform  string
	searchProvider  string
	searchFormat    string
	searchOutput    string
	searchSources   bool
	searchNoHistory bool
)

// newProvider builds the generation provider. Tests replace it.
var newProvider = llm.NewProvider

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Research leads matching a query",
	Long: `Ask the configured model to search the web for businesses or
professionals matching the query and print the leads it finds.

Only one search runs at a time per LEADGENIUS_HOME. Results are saved to
history unless --no-history is given or history_enabled is false.

Examples:
  leadgenius search "Plumbing companies in Lyon, France"
  leadgenius search dentists --region "Austin, TX" --platform google
  leadgenius search "SaaS founders" --platform linkedin --format json
  leadgenius search bakeries --region Paris --output bakeries.csv`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ucfg := loadSettings()

		req, err := buildSearchRequest(args, searchRegion, searchPlatform, ucfg)
		if err != nil {
			fail(err, nil)
		}

		outName, outFormat, err := parseOutputFormat(searchFormat)
		if err != nil {
			printError(err, nil)
			exitWithCode(ExitUsage)
		}

		providerName := searchProvider
		if providerName == "" {
			providerName = ucfg.Provider
		}
		secretKey, err := llm.SecretFor(providerName)
		if err != nil {
			printError(err, nil)
			exitWithCode(ExitUsage)
		}
		errCtx := &errmsg.ErrorContext{Provider: providerName, SecretKey: secretKey}

		if err := cfg.EnsureDirectories(); err != nil {
			fail(err, errCtx)
		}
		lock, err := searchlock.Acquire(cfg.LockFile, req.Query)
		if err != nil {
			fail(err, errCtx)
		}
		defer lock.Release()

		// A missing key is reported by the provider when the search runs.
		apiKey, src, err := secrets.Lookup(secretKey)
		if err != nil {
			log.Default().Debug("no API key found", "key", secretKey)
		} else {
			log.Default().Debug("using API key", "key", secretKey, "source", string(src))
		}

		provider, err := newSearchProvider(providerName, ucfg, apiKey, lock)
		if err != nil {
			lock.Release()
			fail(err, errCtx)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, config.GetAPITimeout())
		defer cancel()

		var onProgress research.ProgressFunc
		var spinner *progress.Spinner
		if !quietFlag {
			spinner = progress.NewSpinner(os.Stderr)
			onProgress = spinner.Update
		}

		client := research.New(provider, research.Options{Logger: log.Default()})
		res, err := client.Research(ctx, req, onProgress)
		if spinner != nil {
			spinner.Stop()
		}
		if err != nil {
			lock.Release()
			fail(err, errCtx)
		}

		if !searchNoHistory && ucfg.HistoryEnabled {
			saveSearch(cfg, ucfg, &history.Record{
				Query:    req.Query,
				Region:   req.Region,
				Platform: req.Platform,
				Provider: provider.Name(),
				Model:    res.Model,
				Leads:    res.Leads,
				Sources:  res.Sources,
				Usage:    res.Usage,
			})
		}
		lock.Release()

		if err := emitResults(req, res, outName, outFormat); err != nil {
			fail(err, errCtx)
		}
	},
}

func init() {
	searchCmd.Flags().StringVarP(&searchRegion, "region", "r", "", "Target region (default: config default_region, else Global)")
	searchCmd.Flags().StringVarP(&searchPlatform, "platform", "p", "", "Where to focus: all, linkedin, facebook or google")
	searchCmd.Flags().StringVar(&searchProvider, "provider", "", "Generation provider: gemini or claude (default: config provider)")
	searchCmd.Flags().StringVarP(&searchFormat, "format", "f", formatTable, "Output format: table, csv, json or yaml")
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "Write leads to this file instead of stdout")
	searchCmd.Flags().BoolVar(&searchSources, "sources", false, "List the web pages the model cited")
	searchCmd.Flags().BoolVar(&searchNoHistory, "no-history", false, "Do not save this search to history")
}

// buildSearchRequest validates the query and fills region and platform
// from flags, then user config.
func buildSearchRequest(args []string, region, platform string, ucfg *userconfig.Config) (research.SearchRequest, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return research.SearchRequest{}, research.ErrEmptyQuery
	}

	if region == "" {
		region = ucfg.DefaultRegion
	}
	if strings.TrimSpace(region) == "" {
		region = research.DefaultRegion
	}

	if platform == "" {
		platform = ucfg.DefaultPlatform
	}
	p, err := lead.ParsePlatform(platform)
	if err != nil {
		return research.SearchRequest{}, fmt.Errorf("%w: %q (expected all, linkedin, facebook or google)", research.ErrUnknownPlatform, platform)
	}

	return research.SearchRequest{Query: query, Region: strings.TrimSpace(region), Platform: p}, nil
}

// newSearchProvider builds the provider for one search. Pacing is seeded
// from the last request recorded beside the search lock, so consecutive
// invocations share the requests_per_minute budget.
func newSearchProvider(name string, ucfg *userconfig.Config, apiKey string, lock *searchlock.Lock) (llm.Provider, error) {
	httpClient := httputil.NewClient(httputil.ClientOptions{
		Timeout:   config.GetAPITimeout(),
		UserAgent: buildinfo.UserAgent(),
	})
	return newProvider(name, llm.Options{
		APIKey:            apiKey,
		Model:             ucfg.Model,
		BaseURL:           config.GetAPIBaseURL(),
		RequestsPerMinute: ucfg.RequestsPerMinute,
		HTTPClient:        httpClient,
		Logger:            log.Default(),
		LastRequest:       lock.LastRequest(),
		OnRequest: func(at time.Time) {
			if err := lock.RecordRequest(at); err != nil {
				log.Default().Warn("failed to record request time", "error", err)
			}
		},
	})
}

// historySaveTimeout bounds saving a finished search, independent of the
// time the search itself took.
const historySaveTimeout = 10 * time.Second

// saveSearch stores rec in history. Failures are reported but do not fail
// the search.
func saveSearch(cfg *config.Config, ucfg *userconfig.Config, rec *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), historySaveTimeout)
	defer cancel()

	store, err := openHistory(ctx, cfg, ucfg)
	if err != nil {
		log.Default().Warn("history unavailable, search not saved", "error", err)
		return
	}
	defer store.Close()

	if err := store.Save(ctx, rec); err != nil {
		log.Default().Warn("failed to save search to history", "error", err)
		return
	}
	log.Default().Info("search saved", "id", rec.ID, "leads", len(rec.Leads))
}

// emitResults prints or writes the leads of a finished search.
func emitResults(req research.SearchRequest, res *research.Result, outName string, outFormat lead.Format) error {
	if searchOutput != "" {
		format := outFormat
		if outName == formatTable {
			format = formatFromPath(searchOutput)
		}
		if err := writeLeadsFile(searchOutput, format, res.Leads); err != nil {
			return err
		}
		printInfof("Wrote %d leads to %s\n", len(res.Leads), searchOutput)
		if searchSources {
			renderSources(os.Stdout, res.Sources)
		}
		return nil
	}

	if outName != formatTable {
		if err := lead.Encode(os.Stdout, outFormat, res.Leads); err != nil {
			return err
		}
		if outFormat == lead.FormatCSV {
			fmt.Println()
		}
		return nil
	}

	if len(res.Leads) == 0 {
		printInfof("No leads found for %q in %s.\n", req.Query, req.Region)
	} else {
		printInfof("Found %d leads for %q in %s:\n\n", len(res.Leads), req.Query, req.Region)
		if err := renderTable(os.Stdout, res.Leads); err != nil {
			return err
		}
	}
	if searchSources {
		renderSources(os.Stdout, res.Sources)
	}
	return nil
}
