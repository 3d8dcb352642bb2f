package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ExtractBody runs the rule table against doc and returns the text of the
// first rule with a non-empty yield, or "" when no rule matches.
func ExtractBody(doc *goquery.Document, rules Rules) string {
	text, _ := MatchBody(doc, rules)
	return text
}

// MatchBody is ExtractBody that also reports the name of the winning rule.
// Later rules are never consulted once one yields text, even if they would
// match too.
func MatchBody(doc *goquery.Document, rules Rules) (string, string) {
	if doc == nil {
		return "", ""
	}

	for _, rule := range rules {
		var text string
		switch rule.EffectiveKind() {
		case RuleKindText:
			text = selectText(doc.Selection, rule.Selector)
		case RuleKindReadability:
			text = readableText(doc)
		}
		if text != "" {
			return text, rule.Name
		}
	}

	return "", ""
}

// selectText joins the trimmed text of every node matching selector with
// newlines. Nodes that are blank after trimming are skipped.
func selectText(root *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}

	var parts []string
	root.Find(selector).Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, "\n")
}

// readableText runs readability extraction over the document.
func readableText(doc *goquery.Document) string {
	html, err := doc.Html()
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(strings.NewReader(html), doc.Url)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}
