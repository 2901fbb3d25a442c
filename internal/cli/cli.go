package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/daehan-lim/kiscon-notices/internal/config"
	"github.com/daehan-lim/kiscon-notices/internal/fetch"
	"github.com/daehan-lim/kiscon-notices/internal/filter"
	"github.com/daehan-lim/kiscon-notices/internal/logger"
	"github.com/daehan-lim/kiscon-notices/internal/scraper"
)

const dateLayout = "2006-01-02"

var (
	flagFrom     string
	flagTo       string
	flagFormat   string
	flagDetails  bool
	flagWorkers  int
	flagDelay    time.Duration
	flagFailMode string
	flagFilters  []string
	flagVerbose  bool
)

// NewRootCmd creates the root command for the kiscon-notices CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kiscon-notices",
		Short: "Crawl KISCON disposition notices for a date range",
		Long: `kiscon-notices crawls 행정처분 공고 (administrative disposition notices)
from the KISCON construction-industry information portal.

It walks every list page of the requested date range, extracts the notice
rows, and prints them as text, JSON or CSV. With --details it also resolves
each notice's detail page and extracts the 소재지 (business location) field.

Configuration comes from the environment (or a .env file):
  KISCON_PROXY_URL        optional HTTP(S) forwarding proxy
  KISCON_PAGE_SIZE        rows per list page (default 10)
  KISCON_TIMEOUT_SECONDS  per-request timeout (default 120)`,
		SilenceUsage: true,
		RunE:         runCrawl,
	}

	defaultFrom := time.Now().AddDate(0, 0, -2).Format(dateLayout)
	defaultTo := time.Now().AddDate(0, 0, -1).Format(dateLayout)

	cmd.Flags().StringVar(&flagFrom, "from", defaultFrom, "Start of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagTo, "to", defaultTo, "End of the date range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, json or csv")
	cmd.Flags().BoolVar(&flagDetails, "details", false, "Also fetch each notice's detail page")
	cmd.Flags().IntVar(&flagWorkers, "workers", 6, "Concurrent detail-page fetches")
	cmd.Flags().DurationVar(&flagDelay, "delay", 50*time.Millisecond, "Pause between list-page requests")
	cmd.Flags().StringVar(&flagFailMode, "fail-mode", FailModeContinue,
		"On a mid-range page failure: continue (skip the page) or stop (keep rows collected so far)")
	cmd.Flags().StringArrayVar(&flagFilters, "filter", nil,
		"Keep only rows whose column contains a value (column=value, repeatable)")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

func runCrawl(cmd *cobra.Command, args []string) error {
	from, err := time.Parse(dateLayout, flagFrom)
	if err != nil {
		return fmt.Errorf("invalid --from date %q (want YYYY-MM-DD)", flagFrom)
	}
	to, err := time.Parse(dateLayout, flagTo)
	if err != nil {
		return fmt.Errorf("invalid --to date %q (want YYYY-MM-DD)", flagTo)
	}
	if from.After(to) {
		return fmt.Errorf("--from %s is after --to %s", flagFrom, flagTo)
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatCSV {
		return fmt.Errorf("invalid --format %q (want text, json or csv)", flagFormat)
	}
	if flagFailMode != FailModeContinue && flagFailMode != FailModeStop {
		return fmt.Errorf("invalid --fail-mode %q (want continue or stop)", flagFailMode)
	}

	rowFilter, err := filter.Parse(flagFilters)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}
	if proxy := cfg.RedactedProxy(); proxy != "" {
		logger.Info("using forwarding proxy", logger.Fields{"proxy": proxy})
	}

	client := fetch.New(cfg.ProxyURL, cfg.Timeout)
	s := scraper.New(client, cfg.PageSize)

	logger.Info("starting crawl", logger.Fields{
		"from":   flagFrom,
		"to":     flagTo,
		"filter": rowFilter.String(),
	})

	crawled, err := crawlRange(s, from, to, flagDelay, flagFailMode)
	if err != nil {
		return fmt.Errorf("crawling list pages: %w", err)
	}

	rows := rowFilter.Apply(crawled.Rows)
	result := &OutputResult{
		CrawledAt:  time.Now().UTC(),
		FromDate:   flagFrom,
		ToDate:     flagTo,
		RowCount:   len(rows),
		TotalPages: crawled.TotalPages,
		Rows:       rows,
	}

	if flagDetails && len(rows) > 0 {
		result.Details = fetchDetails(s, rows, flagWorkers)
	}

	if flagVerbose {
		logger.Debug("crawl metrics", logger.Fields{"metrics": logger.MetricsSnapshot()})
	}

	return WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose)
}

// Execute runs the CLI, exiting non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
