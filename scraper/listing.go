package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ListingScan is the outcome of scanning one listing page. Entries whose
// title link is missing are collected in Errors and skipped rather than
// failing the page.
type ListingScan struct {
	Summaries  []ArticleSummary
	Containers int
	Decoys     int
	Errors     []error
}

// DecoyFilterSilent reports whether the decoy filter removed nothing on a
// page that had containers, while the config expects decoys to exist. This
// is how a renamed decoy class shows up.
func (s *ListingScan) DecoyFilterSilent(config ListingConfig) bool {
	return config.ExpectDecoys && s.Containers > 0 && s.Decoys == 0
}

// ParseListing returns the genuine article summaries of a listing page in
// document order.
func ParseListing(doc *goquery.Document, config ListingConfig) []ArticleSummary {
	return ScanListing(doc, config).Summaries
}

// ScanListing walks every item block of a listing page and extracts the
// summaries of those that hold a genuine article.
func ScanListing(doc *goquery.Document, config ListingConfig) *ListingScan {
	scan := &ListingScan{}

	doc.Find(config.ContainerSelector).Each(func(i int, container *goquery.Selection) {
		scan.Containers++

		if !config.IsArticleHolder(container) {
			if config.IsDecoy(container) {
				scan.Decoys++
			}
			return
		}

		summary, err := summarize(container, config)
		if err != nil {
			scan.Errors = append(scan.Errors, err)
			return
		}
		scan.Summaries = append(scan.Summaries, summary)
	})

	return scan
}

// summarize extracts one summary from a qualifying container.
func summarize(container *goquery.Selection, config ListingConfig) (ArticleSummary, error) {
	anchor := container.Find(config.TitleLinkSelector).First()
	if anchor.Length() == 0 {
		return ArticleSummary{}, &LayoutError{What: "title link", Selector: config.TitleLinkSelector}
	}

	link, ok := anchor.Attr("href")
	link = strings.TrimSpace(link)
	if !ok || link == "" {
		return ArticleSummary{}, &LayoutError{What: "title link href", Selector: config.TitleLinkSelector}
	}

	summary := ArticleSummary{
		Title:            normalizeSpace(anchor.Text()),
		Link:             link,
		PublishedDate:    Unavailable,
		ShortDescription: Unavailable,
	}

	if config.DateSelector != "" {
		if date := container.Find(config.DateSelector).First(); date.Length() > 0 {
			text := normalizeSpace(date.Text())
			if text == "" {
				text = strings.TrimSpace(date.AttrOr("datetime", ""))
			}
			if text != "" {
				summary.PublishedDate = text
			}
		}
	}

	if config.DescriptionSelector != "" {
		if desc := container.Find(config.DescriptionSelector).First(); desc.Length() > 0 {
			if text := normalizeSpace(desc.Text()); text != "" {
				summary.ShortDescription = text
			}
		}
	}

	return summary, nil
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
