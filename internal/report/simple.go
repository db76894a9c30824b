package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"

	"github.com/nao1215/leadscan/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// summaryOnly omits the leads table.
	summaryOnly bool

	// verbose lists visited and failed URLs.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSummaryOnly omits the leads table and prints only the header and counts.
func WithSummaryOnly(summaryOnly bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.summaryOnly = summaryOnly
	}
}

// WithVerbose enables verbose output with the crawled and failed URLs.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.ScrapeReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	if !report.HasResults() {
		sb.WriteString(NoResultsMessage(report.Stats.PagesCrawled))
		sb.WriteString("\n\n")
	} else {
		w.writeSummary(&sb, report)
		if !w.summaryOnly {
			w.writeLeads(&sb, report)
		}
	}
	if w.verbose {
		w.writeURLs(&sb, "CRAWLED PAGES", report.VisitedURLs)
		w.writeURLs(&sb, "FAILED PAGES", report.FailedURLs)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.ScrapeReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         LEADSCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL Scraped:    %s\n", report.StartURL)
	fmt.Fprintf(sb, "Date Scraped:   %s\n", report.FinishedAt.Format(dateLayout))
	fmt.Fprintf(sb, "Pages Crawled:  %d\n", report.Stats.PagesCrawled)
	if report.Stats.PagesFailed > 0 {
		fmt.Fprintf(sb, "Pages Failed:   %d\n", report.Stats.PagesFailed)
	}
	fmt.Fprintf(sb, "Duration:       %.2fs\n", report.Stats.DurationSeconds())
	sb.WriteString("\n")
}

// writeSummary writes the per-type counts.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.ScrapeReport) {
	section(sb, "SUMMARY")

	s := report.Stats
	fmt.Fprintf(sb, "  Emails:            %d\n", s.Emails)
	fmt.Fprintf(sb, "  Phone Numbers:     %d\n", s.Phones)
	fmt.Fprintf(sb, "  LinkedIn Profiles: %d\n", s.LinkedIn)
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:             %d leads\n", s.Total)
	sb.WriteString("\n")
}

// writeLeads writes the result rows as an aligned table.
func (w *SimpleWriter) writeLeads(sb *strings.Builder, report *model.ScrapeReport) {
	section(sb, "LEADS")

	headers := make([]interface{}, len(model.RowHeaders))
	for i, h := range model.RowHeaders {
		headers[i] = h
	}
	tbl := table.New(headers...).WithWriter(sb)
	for _, r := range report.Rows {
		tbl.AddRow(r.ContactType, r.Value, dash(r.Name), dash(r.JobTitle), r.SourceURL)
	}
	tbl.Print()
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeURLs(sb *strings.Builder, title string, urls []string) {
	if len(urls) == 0 {
		return
	}
	section(sb, title)
	for _, u := range urls {
		fmt.Fprintf(sb, "  [+] %s\n", u)
	}
	sb.WriteString("\n")
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
