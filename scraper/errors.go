package scraper

import "fmt"

// LayoutError reports that an expected piece of markup is missing, which
// usually means the origin changed its template.
type LayoutError struct {
	What     string
	Selector string
}

func (e *LayoutError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("layout: %s not found", e.What)
	}
	return fmt.Sprintf("layout: %s not found (selector %q)", e.What, e.Selector)
}
