package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/leadscan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScrapeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeLeads(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H1("Leadscan Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL Scraped", "`" + report.StartURL + "`"},
			{"Date Scraped", report.FinishedAt.Format(dateLayout)},
			{"Pages Crawled", strconv.Itoa(report.Stats.PagesCrawled)},
			{"Duration (seconds)", fmt.Sprintf("%.2f", report.Stats.DurationSeconds())},
		},
	})
	md.PlainText("")
}

// writeSummary writes the per-type counts and their chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.ScrapeReport) {
	md.H2("Summary")
	md.PlainText("")

	s := report.Stats
	md.Table(markdown.TableSet{
		Header: []string{"Type", "Count"},
		Rows: [][]string{
			{"Emails", strconv.Itoa(s.Emails)},
			{"Phone Numbers", strconv.Itoa(s.Phones)},
			{"LinkedIn Profiles", strconv.Itoa(s.LinkedIn)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if !report.HasResults() {
		md.Note(NoResultsMessage(s.PagesCrawled))
		md.PlainText("")
		return
	}
	w.writePieChart(md, s)
}

// writePieChart writes a mermaid pie chart of the contact types.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.Stats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Leads by Contact Type"),
		piechart.WithShowData(true),
	)

	if s.Emails > 0 {
		chart.LabelAndIntValue("Email", uint64(s.Emails))
	}
	if s.Phones > 0 {
		chart.LabelAndIntValue("Phone", uint64(s.Phones))
	}
	if s.LinkedIn > 0 {
		chart.LabelAndIntValue("LinkedIn", uint64(s.LinkedIn))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeLeads writes the result rows.
func (w *MarkdownWriter) writeLeads(md *markdown.Markdown, report *model.ScrapeReport) {
	if !report.HasResults() {
		return
	}

	md.H2("Leads")
	md.PlainText("")

	rows := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = []string{
			string(r.ContactType),
			r.Value,
			dash(r.Name),
			dash(r.JobTitle),
			truncateString(r.SourceURL, 60),
		}
	}
	md.Table(markdown.TableSet{
		Header: model.RowHeaders,
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [leadscan](https://github.com/nao1215/leadscan)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
