package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/pevans/newsharvest"
	"github.com/pevans/newsharvest/scraper"
)

// printCrawlSummary prints the totals of a finished crawl and its status
func printCrawlSummary(w io.Writer, result *newsharvest.CrawlResult) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Crawl completed:")
	fmt.Fprintf(w, "  Run ID:         %s\n", result.RunID)
	fmt.Fprintf(w, "  Pages:          %d of %d\n", result.PagesCrawled, result.PagesTotal)
	fmt.Fprintf(w, "  Records:        %d\n", len(result.Records))
	fmt.Fprintf(w, "  Escalations:    %d\n", result.Escalations)
	fmt.Fprintf(w, "  Degraded:       %d\n", result.Degraded)
	fmt.Fprintf(w, "  Skipped items:  %d\n", result.SkippedItems)
	fmt.Fprintf(w, "  Status:         %s\n", result.Status())

	if result.Status() == newsharvest.StatusDegraded {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Degraded records:")
		for _, record := range result.Records {
			if !record.IsDegraded() {
				continue
			}
			fmt.Fprintf(w, "  - %s (%s)\n", truncate(record.Title, 60), record.FullDescription)
		}
	}
}

// printRulesTable prints the rule table in priority order
func printRulesTable(w io.Writer, rules scraper.Rules) {
	if len(rules) == 0 {
		fmt.Fprintln(w, "No rules configured.")
		return
	}

	nameWidth := len("NAME")
	for _, rule := range rules {
		nameWidth = max(nameWidth, runewidth.StringWidth(rule.Name))
	}

	fmt.Fprintf(w, "%-3s  %s  %-11s  %s\n", "#", runewidth.FillRight("NAME", nameWidth), "KIND", "SELECTOR")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 3+2+nameWidth+2+11+2+8))
	for i, rule := range rules {
		selector := rule.Selector
		if rule.EffectiveKind() == scraper.RuleKindReadability {
			selector = "(whole document)"
		}
		fmt.Fprintf(w, "%-3d  %s  %-11s  %s\n",
			i+1,
			runewidth.FillRight(rule.Name, nameWidth),
			rule.EffectiveKind(),
			truncate(selector, 70),
		)
	}
}

// truncate shortens s to width display cells
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}
