package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/pevans/newsharvest/scraper"
)

// CSVWriter writes records as CSV with a header row. Columns follow
// scraper.RecordHeader so downstream consumers can parse positionally.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter writes the header row immediately. If w is an io.Closer it is
// closed by Close.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := &CSVWriter{w: csv.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		cw.closer = c
	}

	if err := cw.w.Write(scraper.RecordHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	return cw, nil
}

// Write appends one record and flushes it.
func (c *CSVWriter) Write(record scraper.ArticleRecord) error {
	if err := c.w.Write(record.Fields()); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes pending output and closes the underlying writer.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
