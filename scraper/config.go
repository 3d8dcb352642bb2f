package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Rule kinds understood by the selector cascade.
const (
	RuleKindText        = "text"
	RuleKindReadability = "readability"
)

// DefaultPageSize is the number of entries the portal renders per listing
// page.
const DefaultPageSize = 10

// SelectorRule locates an article body inside a detail page. A rule of kind
// "text" matches Selector and joins the trimmed text of every matched node;
// a rule of kind "readability" runs readability extraction over the whole
// document and ignores Selector.
type SelectorRule struct {
	Name     string `json:"name" yaml:"name"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty"` // Default: "text"
}

// EffectiveKind returns the rule kind, defaulting to RuleKindText.
func (r SelectorRule) EffectiveKind() string {
	if r.Kind == "" {
		return RuleKindText
	}
	return r.Kind
}

// Rules is an ordered rule table. Earlier rules take priority.
type Rules []SelectorRule

// Validate checks that every rule is usable. Selectors are compiled with
// cascadia so a typo in a config file is caught before the crawl starts.
func (rs Rules) Validate() error {
	if len(rs) == 0 {
		return errors.New("rule table is empty")
	}

	seen := make(map[string]bool, len(rs))
	for i, rule := range rs {
		if rule.Name == "" {
			return fmt.Errorf("rule %d: name is empty", i)
		}
		if seen[rule.Name] {
			return fmt.Errorf("rule %q: duplicate name", rule.Name)
		}
		seen[rule.Name] = true

		switch rule.EffectiveKind() {
		case RuleKindText:
			if strings.TrimSpace(rule.Selector) == "" {
				return fmt.Errorf("rule %q: selector is empty", rule.Name)
			}
			if _, err := cascadia.ParseGroup(rule.Selector); err != nil {
				return fmt.Errorf("rule %q: invalid selector: %w", rule.Name, err)
			}
		case RuleKindReadability:
		default:
			return fmt.Errorf("rule %q: unknown kind %q", rule.Name, rule.Kind)
		}
	}

	return nil
}

// ListingConfig describes the markup of a listing page.
type ListingConfig struct {
	// ContainerSelector matches every item block, genuine or decoy.
	ContainerSelector string `json:"container_selector" yaml:"container_selector"`
	// DecoyClass marks "related content" teasers rendered with the same
	// container markup.
	DecoyClass string `json:"decoy_class" yaml:"decoy_class"`
	// ArticleSelector must match inside a container for it to qualify.
	ArticleSelector     string `json:"article_selector" yaml:"article_selector"`
	TitleLinkSelector   string `json:"title_link_selector" yaml:"title_link_selector"`
	DateSelector        string `json:"date_selector,omitempty" yaml:"date_selector,omitempty"`
	DescriptionSelector string `json:"description_selector,omitempty" yaml:"description_selector,omitempty"`
	// ExpectDecoys enables a warning when a page yields no decoys at all,
	// which usually means DecoyClass no longer matches the template.
	ExpectDecoys bool `json:"expect_decoys" yaml:"expect_decoys"`
}

// IsDecoy reports whether a container carries the decoy class.
func (c ListingConfig) IsDecoy(container *goquery.Selection) bool {
	return c.DecoyClass != "" && container.HasClass(c.DecoyClass)
}

// IsArticleHolder reports whether a container holds a genuine listing entry:
// it must not be a decoy and must contain an article element.
func (c ListingConfig) IsArticleHolder(container *goquery.Selection) bool {
	return !c.IsDecoy(container) && container.Find(c.ArticleSelector).Length() > 0
}

// Validate checks the listing selectors.
func (c ListingConfig) Validate() error {
	required := []struct {
		key      string
		selector string
	}{
		{"container_selector", c.ContainerSelector},
		{"article_selector", c.ArticleSelector},
		{"title_link_selector", c.TitleLinkSelector},
	}
	for _, r := range required {
		if r.selector == "" {
			return fmt.Errorf("listing: %s is required", r.key)
		}
	}

	for _, sel := range []string{
		c.ContainerSelector, c.ArticleSelector, c.TitleLinkSelector,
		c.DateSelector, c.DescriptionSelector,
	} {
		if sel == "" {
			continue
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("listing: invalid selector %q: %w", sel, err)
		}
	}

	return nil
}

// PaginationConfig describes where the total result count lives on a
// listing page.
type PaginationConfig struct {
	WrapperSelector string `json:"wrapper_selector" yaml:"wrapper_selector"`
	HeadingSelector string `json:"heading_selector" yaml:"heading_selector"`
	CountSelector   string `json:"count_selector" yaml:"count_selector"`
	PageSize        int    `json:"page_size" yaml:"page_size"` // Default: 10
}

// Validate checks the pagination selectors.
func (c PaginationConfig) Validate() error {
	for _, sel := range []string{c.WrapperSelector, c.HeadingSelector, c.CountSelector} {
		if sel == "" {
			return errors.New("pagination: wrapper, heading and count selectors are required")
		}
		if _, err := cascadia.ParseGroup(sel); err != nil {
			return fmt.Errorf("pagination: invalid selector %q: %w", sel, err)
		}
	}
	if c.PageSize < 0 {
		return fmt.Errorf("pagination: page_size must not be negative, got %d", c.PageSize)
	}
	return nil
}

// EffectivePageSize returns PageSize, or DefaultPageSize when unset.
func (c PaginationConfig) EffectivePageSize() int {
	if c.PageSize <= 0 {
		return DefaultPageSize
	}
	return c.PageSize
}
