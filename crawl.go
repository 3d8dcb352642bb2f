package newsharvest

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/pevans/newsharvest/fetcher"
	"github.com/pevans/newsharvest/scraper"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the news listing of the Commission portal.
const DefaultBaseURL = "https://commission.europa.eu/news-and-media/news_en"

// RecordSink receives records in crawl order: page ascending, then document
// order within the page.
type RecordSink interface {
	Write(record scraper.ArticleRecord) error
}

// ArticleResolver resolves the full text of one article. It never fails; a
// sentinel text stands in for a missing body.
type ArticleResolver interface {
	Resolve(ctx context.Context, rawURL string, rules scraper.Rules) fetcher.Resolution
}

// CrawlConfig holds the settings of one crawl.
type CrawlConfig struct {
	// Listing endpoint; query parameters are added per page
	BaseURL string
	// Minimum pause between one article fetch finishing and the next
	// starting; fetch starts are also spaced by it
	Delay time.Duration
	// Articles of one page resolved in parallel. Defaults to 1, which keeps
	// the crawl strictly sequential.
	Concurrency int
	// Upper bound on pages visited; 0 means every page
	MaxPages int

	Listing    scraper.ListingConfig
	Pagination scraper.PaginationConfig
	Rules      scraper.Rules
}

// DefaultCrawlConfig returns the settings for the Commission news portal.
func DefaultCrawlConfig() *CrawlConfig {
	return &CrawlConfig{
		BaseURL:     DefaultBaseURL,
		Delay:       1 * time.Second,
		Concurrency: 1,
		Listing:     scraper.DefaultListingConfig(),
		Pagination:  scraper.DefaultPaginationConfig(),
		Rules:       scraper.DefaultRules(),
	}
}

// Status summarises how a finished crawl went. A crawl that could not finish
// returns an error instead of a status.
type Status string

const (
	// StatusComplete means every record has a real body.
	StatusComplete Status = "complete"
	// StatusDegraded means at least one record carries a sentinel body.
	StatusDegraded Status = "degraded"
)

// CrawlResult holds the records of one crawl in output order.
type CrawlResult struct {
	RunID        uuid.UUID
	Query        scraper.ListingQuery
	PagesTotal   int
	PagesCrawled int
	Records      []scraper.ArticleRecord
	Escalations  int
	Degraded     int
	SkippedItems int
}

// Status reports whether any record was degraded to a sentinel.
func (r *CrawlResult) Status() Status {
	if r.Degraded > 0 {
		return StatusDegraded
	}
	return StatusComplete
}

// Crawler walks a paginated listing and resolves every article on it.
type Crawler struct {
	config   *CrawlConfig
	static   fetcher.Static
	resolver ArticleResolver
	pacer    *pacer
	log      logrus.FieldLogger
}

// NewCrawler creates a crawler. The static fetcher is used for listing
// pages; article bodies go through resolver. config is copied, so the caller
// keeps ownership of it.
func NewCrawler(config *CrawlConfig, static fetcher.Static, resolver ArticleResolver, log logrus.FieldLogger) *Crawler {
	cfg := DefaultCrawlConfig()
	if config != nil {
		cfg = new(CrawlConfig)
		*cfg = *config
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}

	return &Crawler{
		config:   cfg,
		static:   static,
		resolver: resolver,
		pacer:    newPacer(cfg.Delay),
		log:      log,
	}
}

// Crawl reads the page count from the first listing page, then visits every
// page in order. A listing page that cannot be fetched or counted aborts the
// crawl; records already written to sinks stay written. A failure on a single
// article only degrades that record.
func (c *Crawler) Crawl(ctx context.Context, query scraper.ListingQuery, sinks ...RecordSink) (*CrawlResult, error) {
	return c.CrawlRun(ctx, uuid.New(), query, sinks...)
}

// CrawlRun is Crawl under a caller-chosen run ID, so sinks that stamp rows
// with the run can share it.
func (c *Crawler) CrawlRun(ctx context.Context, runID uuid.UUID, query scraper.ListingQuery, sinks ...RecordSink) (*CrawlResult, error) {
	result := &CrawlResult{
		RunID: runID,
		Query: query,
	}
	log := c.log.WithField("run_id", result.RunID.String())

	first, err := c.static.Fetch(ctx, c.config.BaseURL, query.WithPage(0).Values())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page 0: %w", err)
	}

	total, err := scraper.CountTotalPages(first, c.config.Pagination)
	if err != nil {
		return nil, fmt.Errorf("failed to count listing pages: %w", err)
	}
	result.PagesTotal = total

	pages := total
	if c.config.MaxPages > 0 && pages > c.config.MaxPages {
		pages = c.config.MaxPages
	}
	log.WithFields(logrus.Fields{"pages_total": total, "pages": pages}).Info("Starting crawl")

	for page := range pages {
		doc := first
		if page > 0 {
			doc, err = c.static.Fetch(ctx, c.config.BaseURL, query.WithPage(page).Values())
			if err != nil {
				return nil, fmt.Errorf("failed to fetch listing page %d: %w", page, err)
			}
		}

		pageResult, err := c.crawlPage(ctx, log.WithField("page", page), doc)
		if err != nil {
			return nil, fmt.Errorf("failed to crawl listing page %d: %w", page, err)
		}

		for _, record := range pageResult.records {
			for _, sink := range sinks {
				if err := sink.Write(record); err != nil {
					return nil, fmt.Errorf("failed to write record: %w", err)
				}
			}
		}

		result.Records = append(result.Records, pageResult.records...)
		result.Escalations += pageResult.escalations
		result.Degraded += pageResult.degraded
		result.SkippedItems += pageResult.skipped
		result.PagesCrawled++
	}

	log.WithFields(logrus.Fields{
		"records":     len(result.Records),
		"escalations": result.Escalations,
		"degraded":    result.Degraded,
		"status":      result.Status(),
	}).Info("Crawl finished")

	return result, nil
}

// pageResult is the ordered output of one listing page.
type pageResult struct {
	records     []scraper.ArticleRecord
	escalations int
	degraded    int
	skipped     int
}

// crawlPage parses a listing page and resolves its articles. Workers write
// into their own slot so records keep document order whatever order they
// finish in.
func (c *Crawler) crawlPage(ctx context.Context, log logrus.FieldLogger, doc *goquery.Document) (*pageResult, error) {
	scan := scraper.ScanListing(doc, c.config.Listing)

	log.WithFields(logrus.Fields{
		"containers": scan.Containers,
		"articles":   len(scan.Summaries),
		"decoys":     scan.Decoys,
	}).Info("Crawling listing page")

	for _, err := range scan.Errors {
		log.WithError(err).Warn("Skipping listing entry")
	}
	if scan.DecoyFilterSilent(c.config.Listing) {
		log.WithField("decoy_class", c.config.Listing.DecoyClass).
			Warn("Decoy filter removed nothing; the decoy class may no longer match")
	}

	base := c.listingBase(doc)
	resolutions := make([]fetcher.Resolution, len(scan.Summaries))
	links := make([]string, len(scan.Summaries))

	var g errgroup.Group
	g.SetLimit(c.config.Concurrency)

	for i, summary := range scan.Summaries {
		links[i] = resolveLink(base, summary.Link)

		g.Go(func() error {
			if err := c.pacer.Wait(ctx); err != nil {
				return err
			}

			res := c.resolver.Resolve(ctx, links[i], c.config.Rules)
			c.pacer.Done()
			resolutions[i] = res

			articleLog := log.WithFields(logrus.Fields{"url": links[i], "outcome": res.Outcome.String()})
			if res.Err != nil {
				articleLog.WithError(res.Err).Warn("Article body unavailable")
			} else {
				articleLog.WithField("rule", res.Rule).Debug("Resolved article body")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &pageResult{
		records: make([]scraper.ArticleRecord, len(scan.Summaries)),
		skipped: len(scan.Errors),
	}
	for i, summary := range scan.Summaries {
		summary.Link = links[i]
		out.records[i] = scraper.ArticleRecord{
			ArticleSummary:  summary,
			FullDescription: resolutions[i].Text,
		}
		if resolutions[i].Escalated {
			out.escalations++
		}
		if scraper.IsSentinel(resolutions[i].Text) {
			out.degraded++
		}
	}

	return out, nil
}

// listingBase is the URL site-relative links are resolved against.
func (c *Crawler) listingBase(doc *goquery.Document) *url.URL {
	if doc.Url != nil {
		return doc.Url
	}
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return nil
	}
	return base
}

// resolveLink makes a site-relative link absolute. Links that do not parse
// are returned unchanged and fail later as a request failure.
func resolveLink(base *url.URL, link string) string {
	if base == nil {
		return link
	}
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return base.ResolveReference(ref).String()
}
