// Package report renders scrape results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: terminal table for humans
//   - JSONWriter: the status/data/stats envelope also served by the HTTP API
//   - MarkdownWriter: summary, contact type chart and leads table
//   - ExcelWriter: the Leads/Summary/Metadata spreadsheet
//   - CSVWriter: one line per result row
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output.
package report
