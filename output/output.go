// Package output writes crawl records to files.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/pevans/newsharvest/scraper"
)

// Supported output formats.
const (
	FormatCSV    = "csv"
	FormatText   = "text"
	FormatSQLite = "sqlite"
)

// Formats lists the names accepted by Open.
var Formats = []string{FormatCSV, FormatText, FormatSQLite}

// Writer is a record sink that owns a resource.
type Writer interface {
	Write(record scraper.ArticleRecord) error
	io.Closer
}

// Open creates a writer of the given format at path. A path of "-" writes
// csv and text output to stdout.
func Open(format, path string, runID uuid.UUID) (Writer, error) {
	switch format {
	case FormatCSV, FormatText:
		var w io.Writer = nopCloser{os.Stdout}
		if path != "-" {
			f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, fmt.Errorf("failed to create output file: %w", err)
			}
			w = f
		}
		if format == FormatText {
			return NewTextWriter(w), nil
		}
		cw, err := NewCSVWriter(w)
		if err != nil {
			if c, ok := w.(io.Closer); ok {
				c.Close()
			}
			return nil, err
		}
		return cw, nil

	case FormatSQLite:
		if path == "-" {
			return nil, fmt.Errorf("sqlite output needs a file path")
		}
		return NewSQLiteWriter(path, runID)

	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}

// nopCloser keeps stdout open when a writer is closed.
type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
