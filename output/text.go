package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pevans/newsharvest/scraper"
)

// TextWriter writes one labelled block per record, separated by a blank line.
// Continuation lines of a multi-line value are indented so they never read
// as a label.
type TextWriter struct {
	w      *bufio.Writer
	closer io.Closer
}

// NewTextWriter wraps w. If w is an io.Closer it is closed by Close.
func NewTextWriter(w io.Writer) *TextWriter {
	tw := &TextWriter{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		tw.closer = c
	}
	return tw
}

var textLabels = []string{"Title", "Link", "Date", "Summary", "Description"}

const textIndent = "    "

// Write appends one record block.
func (t *TextWriter) Write(record scraper.ArticleRecord) error {
	for i, value := range record.Fields() {
		value = strings.ReplaceAll(value, "\n", "\n"+textIndent)
		if _, err := fmt.Fprintf(t.w, "%s: %s\n", textLabels[i], value); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if _, err := t.w.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return t.w.Flush()
}

// Close flushes pending output and closes the underlying writer.
func (t *TextWriter) Close() error {
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush text output: %w", err)
	}
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
