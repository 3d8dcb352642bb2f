package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// itemBlock renders a listing container. Decoys carry the grid class.
func itemBlock(link string, decoy bool) string {
	class := "ecl-content-item-block__item"
	if decoy {
		class += " ecl-col-m-6"
	}
	return fmt.Sprintf(`
	<div class="%s">
		<article class="ecl-content-item">
			<div class="ecl-content-block__title"><a href="%s">Title %s</a></div>
			<time datetime="2025-10-01">1 October 2025</time>
			<div class="ecl-content-block__description">Summary of %s</div>
		</article>
	</div>`, class, link, link, link)
}

// TestParseListing_FiltersDecoys verifies decoys never produce summaries
func TestParseListing_FiltersDecoys(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	var want []string
	for i := range 10 {
		link := fmt.Sprintf("/news/item-%d", i)
		decoy := i%2 == 1
		if !decoy {
			want = append(want, link)
		}
		b.WriteString(itemBlock(link, decoy))
	}
	b.WriteString("</body></html>")

	doc := parseHTML(t, b.String())
	scan := ScanListing(doc, DefaultListingConfig())

	require.Len(t, scan.Summaries, 5)
	var got []string
	for _, s := range scan.Summaries {
		got = append(got, s.Link)
	}
	assert.Equal(t, want, got, "should keep non-decoy containers in document order")
	assert.Equal(t, 10, scan.Containers)
	assert.Equal(t, 5, scan.Decoys)
	assert.Empty(t, scan.Errors)
	assert.False(t, scan.DecoyFilterSilent(DefaultListingConfig()))
}

// TestParseListing_ExtractsFields verifies title, link, date and summary
func TestParseListing_ExtractsFields(t *testing.T) {
	html := `
	<div class="ecl-content-item-block__item">
		<article class="ecl-content-item">
			<div class="ecl-content-block__title">
				<a href="https://example.com/news/a">  Commission   adopts
				plan </a>
			</div>
			<time>18 October 2025</time>
			<div class="ecl-content-block__description"> A short   summary. </div>
		</article>
	</div>`
	doc := parseHTML(t, html)

	summaries := ParseListing(doc, DefaultListingConfig())

	require.Len(t, summaries, 1)
	assert.Equal(t, ArticleSummary{
		Title:            "Commission adopts plan",
		Link:             "https://example.com/news/a",
		PublishedDate:    "18 October 2025",
		ShortDescription: "A short summary.",
	}, summaries[0])
}

// TestParseListing_MissingOptionalFields verifies the unavailable defaults
func TestParseListing_MissingOptionalFields(t *testing.T) {
	html := `
	<div class="ecl-content-item-block__item">
		<article class="ecl-content-item">
			<div class="ecl-content-block__title"><a href="/news/b">B</a></div>
		</article>
	</div>`
	doc := parseHTML(t, html)

	summaries := ParseListing(doc, DefaultListingConfig())

	require.Len(t, summaries, 1)
	assert.Equal(t, Unavailable, summaries[0].PublishedDate)
	assert.Equal(t, Unavailable, summaries[0].ShortDescription)
}

// TestParseListing_DateFromAttribute verifies the datetime attribute is used
// when the time element has no text
func TestParseListing_DateFromAttribute(t *testing.T) {
	html := `
	<div class="ecl-content-item-block__item">
		<article class="ecl-content-item">
			<div class="ecl-content-block__title"><a href="/news/c">C</a></div>
			<time datetime="2025-10-02T10:00:00Z"></time>
		</article>
	</div>`
	doc := parseHTML(t, html)

	summaries := ParseListing(doc, DefaultListingConfig())

	require.Len(t, summaries, 1)
	assert.Equal(t, "2025-10-02T10:00:00Z", summaries[0].PublishedDate)
}

// TestParseListing_SkipsContainerWithoutArticle verifies non-article
// containers are dropped silently
func TestParseListing_SkipsContainerWithoutArticle(t *testing.T) {
	html := `
	<div class="ecl-content-item-block__item"><p>Advertisement</p></div>
	` + itemBlock("/news/d", false)
	doc := parseHTML(t, html)

	scan := ScanListing(doc, DefaultListingConfig())

	require.Len(t, scan.Summaries, 1)
	assert.Equal(t, "/news/d", scan.Summaries[0].Link)
	assert.Equal(t, 2, scan.Containers)
	assert.Equal(t, 0, scan.Decoys, "a container without an article is not a decoy")
	assert.Empty(t, scan.Errors)
}

// TestParseListing_MissingTitleLink verifies one broken entry is skipped and
// reported without dropping the rest of the page
func TestParseListing_MissingTitleLink(t *testing.T) {
	html := `
	<div class="ecl-content-item-block__item">
		<article class="ecl-content-item"><div class="ecl-content-block__title">No anchor</div></article>
	</div>
	<div class="ecl-content-item-block__item">
		<article class="ecl-content-item"><div class="ecl-content-block__title"><a>No href</a></div></article>
	</div>
	` + itemBlock("/news/e", false)
	doc := parseHTML(t, html)

	scan := ScanListing(doc, DefaultListingConfig())

	require.Len(t, scan.Summaries, 1)
	assert.Equal(t, "/news/e", scan.Summaries[0].Link)
	require.Len(t, scan.Errors, 2)
	var layoutErr *LayoutError
	require.ErrorAs(t, scan.Errors[0], &layoutErr)
	assert.Equal(t, "title link", layoutErr.What)
}

// TestListingScan_DecoyFilterSilent verifies the silent-filter signal
func TestListingScan_DecoyFilterSilent(t *testing.T) {
	doc := parseHTML(t, itemBlock("/news/f", false)+itemBlock("/news/g", false))
	config := DefaultListingConfig()

	scan := ScanListing(doc, config)
	assert.True(t, scan.DecoyFilterSilent(config), "no decoys on a populated page should be flagged")

	config.ExpectDecoys = false
	assert.False(t, scan.DecoyFilterSilent(config))

	empty := ScanListing(parseHTML(t, "<html></html>"), DefaultListingConfig())
	assert.False(t, empty.DecoyFilterSilent(DefaultListingConfig()), "an empty page is not flagged")
}

// TestIsArticleHolder verifies the decoy predicate
func TestIsArticleHolder(t *testing.T) {
	config := DefaultListingConfig()
	doc := parseHTML(t, itemBlock("/real", false)+itemBlock("/decoy", true)+
		`<div class="ecl-content-item-block__item"></div>`)

	containers := doc.Find(config.ContainerSelector)
	require.Equal(t, 3, containers.Length())
	assert.True(t, config.IsArticleHolder(containers.Eq(0)))
	assert.False(t, config.IsArticleHolder(containers.Eq(1)))
	assert.False(t, config.IsArticleHolder(containers.Eq(2)))
}

// TestIsDecoy verifies the decoy class check and that an empty class never
// matches
func TestIsDecoy(t *testing.T) {
	config := DefaultListingConfig()
	doc := parseHTML(t, itemBlock("/real", false)+itemBlock("/decoy", true))
	containers := doc.Find(config.ContainerSelector)

	assert.False(t, config.IsDecoy(containers.Eq(0)))
	assert.True(t, config.IsDecoy(containers.Eq(1)))

	config.DecoyClass = ""
	assert.False(t, config.IsDecoy(containers.Eq(1)))
	assert.True(t, config.IsArticleHolder(containers.Eq(1)), "without a decoy class every article counts")
}
