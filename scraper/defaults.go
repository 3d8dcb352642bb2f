package scraper

// The markup below was observed on the Commission news portal. None of it is
// a documented contract, so every value is overridable from the config file.

// DefaultRules returns the full-text rule table, most specific first. The
// last rule is a broad catch-all for any paragraph in the main region.
func DefaultRules() Rules {
	return Rules{
		{Name: "news-body-paragraphs", Selector: "div.ecl-news-detail__body div.ecl p"},
		{Name: "oe-body-field", Selector: "div.field--name-oe-body p"},
		{Name: "body-field", Selector: "div.field--name-body p"},
		{Name: "content-item-block", Selector: "div.ecl-content-item-block__content div.ecl p"},
		{Name: "text-formatted", Selector: "div.clearfix.text-formatted p"},
		{Name: "article-paragraphs", Selector: "article div.ecl-paragraph p"},
		{Name: "page-body", Selector: "div.ecl-page-body div.ecl p"},
		{Name: "featured-item", Selector: "div.ecl-featured-item__description p"},
		{Name: "content-block-description", Selector: "article div.ecl-content-block__description"},
		{Name: "main-column", Selector: "main div.ecl-col-l-9 p"},
		{Name: "ecl-paragraphs", Selector: "div.ecl p"},
		{Name: "main-paragraphs", Selector: "main p"},
	}
}

// DefaultListingConfig returns the listing markup of the news portal.
// Related-content teasers reuse the item block and article markup and are
// told apart only by the two-column grid class.
func DefaultListingConfig() ListingConfig {
	return ListingConfig{
		ContainerSelector:   "div.ecl-content-item-block__item",
		DecoyClass:          "ecl-col-m-6",
		ArticleSelector:     "article.ecl-content-item",
		TitleLinkSelector:   "div.ecl-content-block__title a",
		DateSelector:        "time",
		DescriptionSelector: "div.ecl-content-block__description",
		ExpectDecoys:        true,
	}
}

// DefaultPaginationConfig returns the location of the result count header.
func DefaultPaginationConfig() PaginationConfig {
	return PaginationConfig{
		WrapperSelector: "div.ecl-u-border-bottom.ecl-u-border-width-2.ecl-u-d-flex.ecl-u-justify-content-between.ecl-u-align-items-end",
		HeadingSelector: "h4.ecl-u-type-heading-4",
		CountSelector:   "span",
		PageSize:        DefaultPageSize,
	}
}
