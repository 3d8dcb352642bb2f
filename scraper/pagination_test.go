package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countHeader renders a listing header announcing the given count text.
func countHeader(countText string) string {
	return fmt.Sprintf(`
	<html>
		<body>
			<div class="ecl-u-border-bottom ecl-u-border-width-2 ecl-u-d-flex ecl-u-justify-content-between ecl-u-align-items-end">
				<h4 class="ecl-u-type-heading-4 ecl-u-mb-s">
					<span>News</span>
					<span>%s</span>
				</h4>
			</div>
		</body>
	</html>
	`, countText)
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

// TestCountTotalPages verifies ceil(count / 10) across boundaries
func TestCountTotalPages(t *testing.T) {
	tests := []struct {
		countText string
		pages     int
	}{
		{"(0)", 0},
		{"(1)", 1},
		{"(9)", 1},
		{"(10)", 1},
		{"(11)", 2},
		{"(23)", 3},
		{"(100)", 10},
	}

	for _, tt := range tests {
		t.Run(tt.countText, func(t *testing.T) {
			doc := parseHTML(t, countHeader(tt.countText))

			pages, err := CountTotalPages(doc, DefaultPaginationConfig())
			require.NoError(t, err)
			assert.Equal(t, tt.pages, pages)
		})
	}
}

// TestCountResults_StripsNonDigits verifies locale formatting is ignored
func TestCountResults_StripsNonDigits(t *testing.T) {
	for _, text := range []string{"(1,234)", "( 1 234 )", "1.234 results", "[1234]"} {
		doc := parseHTML(t, countHeader(text))

		count, err := CountResults(doc, DefaultPaginationConfig())
		require.NoError(t, err, text)
		assert.Equal(t, 1234, count, text)
	}
}

// TestCountResults_UsesLastSpan verifies the heading label span is ignored
func TestCountResults_UsesLastSpan(t *testing.T) {
	html := `
	<div class="ecl-u-border-bottom ecl-u-border-width-2 ecl-u-d-flex ecl-u-justify-content-between ecl-u-align-items-end">
		<h4 class="ecl-u-type-heading-4"><span>Top 5 stories</span><span>(42)</span></h4>
	</div>
	`
	doc := parseHTML(t, html)

	count, err := CountResults(doc, DefaultPaginationConfig())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

// TestCountResults_MissingWrapper verifies a LayoutError without the wrapper
func TestCountResults_MissingWrapper(t *testing.T) {
	doc := parseHTML(t, `<h4 class="ecl-u-type-heading-4"><span>(3)</span></h4>`)

	_, err := CountResults(doc, DefaultPaginationConfig())
	var layoutErr *LayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "result count wrapper", layoutErr.What)
}

// TestCountResults_MissingHeading verifies a LayoutError without the heading
func TestCountResults_MissingHeading(t *testing.T) {
	html := `<div class="ecl-u-border-bottom ecl-u-border-width-2 ecl-u-d-flex ecl-u-justify-content-between ecl-u-align-items-end"><h3>(3)</h3></div>`
	doc := parseHTML(t, html)

	_, err := CountResults(doc, DefaultPaginationConfig())
	var layoutErr *LayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "result count heading", layoutErr.What)
}

// TestCountResults_MissingSpan verifies a LayoutError without any span
func TestCountResults_MissingSpan(t *testing.T) {
	html := `<div class="ecl-u-border-bottom ecl-u-border-width-2 ecl-u-d-flex ecl-u-justify-content-between ecl-u-align-items-end"><h4 class="ecl-u-type-heading-4">News (3)</h4></div>`
	doc := parseHTML(t, html)

	_, err := CountResults(doc, DefaultPaginationConfig())
	var layoutErr *LayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "result count span", layoutErr.What)
}

// TestCountResults_NoDigits verifies a LayoutError when the count is not a
// number
func TestCountResults_NoDigits(t *testing.T) {
	doc := parseHTML(t, countHeader("(none)"))

	_, err := CountResults(doc, DefaultPaginationConfig())
	var layoutErr *LayoutError
	require.ErrorAs(t, err, &layoutErr)
	assert.Equal(t, "numeric result count", layoutErr.What)
}

// TestTotalPages_PageSizeFallback verifies non-positive page sizes use the
// portal default
func TestTotalPages_PageSizeFallback(t *testing.T) {
	assert.Equal(t, 3, TotalPages(23, 0))
	assert.Equal(t, 3, TotalPages(23, -1))
	assert.Equal(t, 5, TotalPages(23, 5))
	assert.Equal(t, 0, TotalPages(-4, 10))
}
