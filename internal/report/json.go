package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/leadscan/internal/model"
)

// NoContactsMessage is the envelope message of a run without results.
const NoContactsMessage = "No contact details found."

// Envelope is the JSON document returned by the HTTP API and written by
// JSONWriter.
type Envelope struct {
	// Status is success, no_results or error.
	Status string `json:"status"`
	// Message explains a no_results or error status.
	Message string `json:"message,omitempty"`
	// Data are the result rows. Absent unless Status is success.
	Data []model.ResultRow `json:"data,omitempty"`
	// Stats are absent for errors.
	Stats *EnvelopeStats `json:"stats,omitempty"`
}

// EnvelopeStats are the run counters of an Envelope.
// Per-type counts are only present for successful runs.
type EnvelopeStats struct {
	*ContactCounts
	PagesCrawled    int     `json:"pages_crawled"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// ContactCounts are the per-type row counts.
type ContactCounts struct {
	Emails   int `json:"emails"`
	Phones   int `json:"phones"`
	LinkedIn int `json:"linkedin"`
	Total    int `json:"total"`
}

// NewEnvelope builds the envelope of a finished run.
func NewEnvelope(report *model.ScrapeReport) *Envelope {
	stats := &EnvelopeStats{
		PagesCrawled:    report.Stats.PagesCrawled,
		DurationSeconds: report.Stats.DurationSeconds(),
	}
	if !report.HasResults() {
		return &Envelope{
			Status:  model.StatusNoResults,
			Message: NoContactsMessage,
			Stats:   stats,
		}
	}

	stats.ContactCounts = &ContactCounts{
		Emails:   report.Stats.Emails,
		Phones:   report.Stats.Phones,
		LinkedIn: report.Stats.LinkedIn,
		Total:    report.Stats.Total,
	}
	return &Envelope{
		Status: model.StatusSuccess,
		Data:   report.Rows,
		Stats:  stats,
	}
}

// NewErrorEnvelope builds the envelope of a failed run.
func NewErrorEnvelope(err error) *Envelope {
	return &Envelope{
		Status:  model.StatusError,
		Message: err.Error(),
	}
}

// JSONWriter outputs reports as an Envelope in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report envelope in JSON format.
func (w *JSONWriter) Write(report *model.ScrapeReport) (int, error) {
	return w.writeJSON(NewEnvelope(report))
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
