package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/newsharvest"
	"github.com/pevans/newsharvest/config"
	"github.com/pevans/newsharvest/fetcher"
	"github.com/pevans/newsharvest/output"
	"github.com/pevans/newsharvest/scraper"
	"github.com/sirupsen/logrus"
)

func handleCrawl(args []string) {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)
	from := fs.String("from", "", "Start of the publication date range")
	to := fs.String("to", "", "End of the publication date range")
	since := fs.String("since", "30d", "Range length when --from is not set")
	format := fs.String("format", output.FormatCSV, "Output format (csv, text, sqlite)")
	out := fs.String("out", "-", "Output path, - for stdout")
	concurrency := fs.Int("concurrency", 0, "Articles resolved in parallel per page")
	renderConcurrency := fs.Int("render-concurrency", 0, "Headless renders in parallel")
	delay := fs.String("delay", "", "Minimum spacing between article fetches")
	noRender := fs.Bool("no-render", false, "Never fall back to headless rendering")
	maxPages := fs.Int("max-pages", 0, "Stop after this many listing pages")
	configPath := fs.String("config", "", "Config file path")
	verbose := fs.Bool("verbose", false, "Log debug output")
	fs.Parse(args)

	log := newLogger(*verbose)

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags override file and environment
	if *concurrency != 0 {
		settings.Crawl.Concurrency = *concurrency
	}
	if *renderConcurrency != 0 {
		settings.RenderConcurrency = *renderConcurrency
	}
	if *delay != "" {
		d, err := config.ParseDuration(*delay)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid --delay: %v\n", err)
			os.Exit(1)
		}
		settings.Crawl.Delay = d
	}
	if *noRender {
		settings.Render = false
	}
	if *maxPages < 0 {
		fmt.Fprintf(os.Stderr, "Error: --max-pages must not be negative\n")
		os.Exit(1)
	}
	settings.Crawl.MaxPages = *maxPages
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	start, end, err := dateRange(*from, *to, *since, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	query := scraper.NewDateRangeQuery(start, end)

	runID := uuid.New()
	sink, err := output.Open(*format, *out, runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open output: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Crawling %s from %s to %s\n",
		settings.Crawl.BaseURL, start.Format(time.RFC3339), end.Format(time.RFC3339))

	result, err := runCrawl(settings, runID, query, sink, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: crawl failed: %v\n", err)
		os.Exit(1)
	}

	printCrawlSummary(os.Stderr, result)
}

// runCrawl wires the fetchers to a crawler and runs it. The browser and the
// sink are released before it returns.
func runCrawl(settings *config.Settings, runID uuid.UUID, query scraper.ListingQuery, sink output.Writer, log logrus.FieldLogger) (result *newsharvest.CrawlResult, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", cerr)
		}
	}()

	static := fetcher.NewHTTPFetcher(settings.Client)

	var renderer fetcher.Renderer
	if settings.Render {
		chrome := fetcher.NewChromeRenderer(settings.Client)
		defer chrome.Close()
		renderer = chrome
	}

	resolver := fetcher.NewResolver(static, renderer, settings.RenderConcurrency, log)
	crawler := newsharvest.NewCrawler(settings.Crawl, static, resolver, log)

	return crawler.CrawlRun(context.Background(), runID, query, sink)
}

func handleRules(args []string) {
	fs := flag.NewFlagSet("rules", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path")
	fs.Parse(args)

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		os.Exit(1)
	}

	printRulesTable(os.Stdout, settings.Crawl.Rules)
}
