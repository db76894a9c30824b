package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/leadscan/internal/model"
)

// ErrUnsupportedFormat is returned by NewWriter for an unknown format name.
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ScrapeReport) (int, error)
}

// NewWriter returns the writer for a format name: table, json, markdown,
// xlsx or csv.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "table", "":
		return NewSimpleWriter(output), nil
	case "json":
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case "markdown", "md":
		return NewMarkdownWriter(output), nil
	case "xlsx", "excel":
		return NewExcelWriter(output), nil
	case "csv":
		return NewCSVWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.ScrapeReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// NoResultsMessage is shown when a run finished without any contact.
func NoResultsMessage(pagesCrawled int) string {
	return fmt.Sprintf("No leads found after scanning %d pages. "+
		"Try a different URL or adjust the crawl settings.", pagesCrawled)
}

// dateLayout is used for every human-readable timestamp.
const dateLayout = "2006-01-02 15:04:05"

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
