package scraper

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// CountResults reads the total result count from the header of a listing
// page. The count is the last span of the heading because the heading text
// itself is wrapped in a span too. Everything but digits is dropped, so
// "(1,234)" and "( 1 234 )" both read as 1234.
func CountResults(doc *goquery.Document, config PaginationConfig) (int, error) {
	wrapper := doc.Find(config.WrapperSelector).First()
	if wrapper.Length() == 0 {
		return 0, &LayoutError{What: "result count wrapper", Selector: config.WrapperSelector}
	}

	heading := wrapper.Find(config.HeadingSelector).First()
	if heading.Length() == 0 {
		return 0, &LayoutError{What: "result count heading", Selector: config.HeadingSelector}
	}

	spans := heading.Find(config.CountSelector)
	if spans.Length() == 0 {
		return 0, &LayoutError{What: "result count span", Selector: config.CountSelector}
	}

	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, spans.Last().Text())
	if digits == "" {
		return 0, &LayoutError{What: "numeric result count", Selector: config.CountSelector}
	}

	count, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &LayoutError{What: "numeric result count", Selector: config.CountSelector}
	}

	return count, nil
}

// CountTotalPages returns how many listing pages hold the results announced
// in the page header.
func CountTotalPages(doc *goquery.Document, config PaginationConfig) (int, error) {
	count, err := CountResults(doc, config)
	if err != nil {
		return 0, err
	}
	return TotalPages(count, config.EffectivePageSize()), nil
}

// TotalPages is ceil(count / pageSize). A non-positive page size falls back
// to DefaultPageSize.
func TotalPages(count, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if count <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}
