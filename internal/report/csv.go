package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/nao1215/leadscan/internal/model"
)

// CSVWriter outputs the result rows as CSV with a header line.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report rows in CSV format.
// A run without results produces only the header line.
func (w *CSVWriter) Write(report *model.ScrapeReport) (int, error) {
	rows := report.Rows
	if rows == nil {
		rows = []model.ResultRow{}
	}

	var buf bytes.Buffer
	if err := gocsv.Marshal(&rows, &buf); err != nil {
		return 0, fmt.Errorf("failed to encode csv: %w", err)
	}
	return w.output.Write(buf.Bytes())
}
