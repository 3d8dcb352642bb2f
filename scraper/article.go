package scraper

import (
	"net/url"
	"strconv"
	"time"
)

// Sentinel values standing in for data the origin did not provide.
const (
	Unavailable   = "unavailable"
	NotFound      = "not found"
	RequestFailed = "request failed"
)

// Listing query parameters understood by the portal.
const (
	DateRangeFilterKey = "f[0]"
	PageKey            = "page"
	dateRangeField     = "oe_news_publication_date"
)

// ListingQuery selects one page of a date-filtered listing. The zero page is
// the first one.
type ListingQuery struct {
	DateRange string
	Page      int
}

// NewDateRangeQuery builds the query for page 0 of the news published between
// from and to.
func NewDateRangeQuery(from, to time.Time) ListingQuery {
	return ListingQuery{
		DateRange: dateRangeField + ":bt|" + from.Format(time.RFC3339) + "|" + to.Format(time.RFC3339),
	}
}

// WithPage returns a copy of the query pointing at the given page.
func (q ListingQuery) WithPage(page int) ListingQuery {
	q.Page = page
	return q
}

// Values renders the query string parameters for the listing request.
func (q ListingQuery) Values() url.Values {
	v := url.Values{}
	if q.DateRange != "" {
		v.Set(DateRangeFilterKey, q.DateRange)
	}
	v.Set(PageKey, strconv.Itoa(q.Page))
	return v
}

// ArticleSummary is one genuine entry of a listing page.
type ArticleSummary struct {
	Title            string `json:"title"`
	Link             string `json:"link"`
	PublishedDate    string `json:"date"`
	ShortDescription string `json:"summary"`
}

// ArticleRecord is a summary joined with the resolved article body. It is the
// unit written to output.
type ArticleRecord struct {
	ArticleSummary
	FullDescription string `json:"description"`
}

// RecordHeader lists the output columns in their fixed order.
var RecordHeader = []string{"title", "link", "date", "summary", "description"}

// Fields returns the record values in RecordHeader order.
func (r ArticleRecord) Fields() []string {
	return []string{r.Title, r.Link, r.PublishedDate, r.ShortDescription, r.FullDescription}
}

// IsDegraded reports whether the body is a sentinel rather than real text.
func (r ArticleRecord) IsDegraded() bool {
	return IsSentinel(r.FullDescription)
}

// IsSentinel reports whether s is one of the body sentinels.
func IsSentinel(s string) bool {
	return s == NotFound || s == RequestFailed
}
