package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/nao1215/leadscan/internal/model"
)

// Sheet names of the workbook written by ExcelWriter.
const (
	SheetLeads    = "Leads"
	SheetSummary  = "Summary"
	SheetMetadata = "Metadata"
)

// ExcelContentType is the media type of the xlsx workbook.
const ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// leadColumnWidths are the widths of columns A to E of the Leads sheet.
var leadColumnWidths = []float64{15, 40, 30, 40, 60}

// ExcelWriter writes the xlsx workbook downloaded from the web form.
// The Leads sheet holds the rows with a filterable header, Summary the
// per-type counts and Metadata the run information.
type ExcelWriter struct {
	baseWriter
}

// NewExcelWriter creates an ExcelWriter that outputs to the given writer.
func NewExcelWriter(output io.Writer) *ExcelWriter {
	return &ExcelWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write builds the workbook in memory and writes it to the output, so a
// failure never leaves a truncated file behind.
func (w *ExcelWriter) Write(report *model.ScrapeReport) (int, error) {
	f, err := BuildWorkbook(report)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return 0, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return w.output.Write(buf.Bytes())
}

// BuildWorkbook creates the Leads, Summary and Metadata sheets for report.
func BuildWorkbook(report *model.ScrapeReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetLeads); err != nil {
		f.Close()
		return nil, err
	}

	steps := []func(*excelize.File, *model.ScrapeReport) error{
		writeLeadsSheet,
		writeSummarySheet,
		writeMetadataSheet,
	}
	for _, step := range steps {
		if err := step(f, report); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to build workbook: %w", err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeLeadsSheet(f *excelize.File, report *model.ScrapeReport) error {
	if err := setRow(f, SheetLeads, 1, toCells(model.RowHeaders)); err != nil {
		return err
	}
	for i, r := range report.Rows {
		if err := setRow(f, SheetLeads, i+2, toCells(r.Cells())); err != nil {
			return err
		}
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(model.RowHeaders), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetLeads, "A1", lastHeader, style); err != nil {
		return err
	}

	lastCell, err := excelize.CoordinatesToCellName(len(model.RowHeaders), len(report.Rows)+1)
	if err != nil {
		return err
	}
	if err := f.AutoFilter(SheetLeads, "A1:"+lastCell, nil); err != nil {
		return err
	}

	for i, width := range leadColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetLeads, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report *model.ScrapeReport) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}
	s := report.Stats
	rows := [][]any{
		{"Type", "Count"},
		{"Emails", s.Emails},
		{"Phone Numbers", s.Phones},
		{"LinkedIn Profiles", s.LinkedIn},
		{"Total", s.Total},
	}
	for i, row := range rows {
		if err := setRow(f, SheetSummary, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func writeMetadataSheet(f *excelize.File, report *model.ScrapeReport) error {
	if _, err := f.NewSheet(SheetMetadata); err != nil {
		return err
	}
	rows := [][]any{
		{"Property", "Value"},
		{"URL Scraped", report.StartURL},
		{"Pages Crawled", report.Stats.PagesCrawled},
		{"Duration (seconds)", fmt.Sprintf("%.2f", report.Stats.DurationSeconds())},
		{"Date Scraped", report.FinishedAt.Format(dateLayout)},
	}
	for i, row := range rows {
		if err := setRow(f, SheetMetadata, i+1, row); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}
