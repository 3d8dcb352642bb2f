package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	subcommand := os.Args[1]

	switch subcommand {
	case "crawl":
		handleCrawl(os.Args[2:])
	case "rules":
		handleRules(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("newsharvest - News listing harvester")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsharvest <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  crawl     Crawl the news listing and write one record per article")
	fmt.Println("  rules     Show the effective full-text rule table")
	fmt.Println("  help      Show this help message")
	fmt.Println()
	fmt.Println("Crawl flags:")
	fmt.Println("  --from DATE               Start of the publication date range (2006-01-02 or RFC3339)")
	fmt.Println("  --to DATE                 End of the publication date range (default: now)")
	fmt.Println("  --since DURATION          Range length when --from is not set (default: 30d)")
	fmt.Println("  --format FORMAT           Output format: csv, text, sqlite (default: csv)")
	fmt.Println("  --out PATH                Output path, - for stdout (default: -)")
	fmt.Println("  --concurrency N           Articles resolved in parallel per page (default: 1)")
	fmt.Println("  --render-concurrency N    Headless renders in parallel (default: 1)")
	fmt.Println("  --delay DURATION          Minimum spacing between article fetches (default: 1s)")
	fmt.Println("  --no-render               Never fall back to headless rendering")
	fmt.Println("  --max-pages N             Stop after N listing pages (default: all)")
	fmt.Println("  --config PATH             Config file (default: ~/.newsharvest/config.yaml)")
	fmt.Println("  --verbose                 Log debug output")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  NEWSHARVEST_BASE_URL      Listing URL to crawl")
	fmt.Println("  NEWSHARVEST_USER_AGENT    User agent sent with every request")
	fmt.Println("  NEWSHARVEST_LOG_LEVEL     Log level (debug, info, warn, error)")
}
