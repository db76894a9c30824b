package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers can use errors.Is to react to a specific problem.
var (
	// ErrNoTarget is returned when no start URL is given.
	ErrNoTarget = errors.New("no target specified: provide at least one URL or use --list")

	// ErrInvalidMaxPages is returned when the page bound is not positive.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidCrawlDelay is returned when the crawl delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidCrawlDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidFormat is returned for an unknown report format.
	ErrInvalidFormat = errors.New("invalid format: must be one of table, json, markdown, xlsx, csv")

	// ErrConflictingReportFormats is returned when several sites would be
	// written as xlsx to stdout, which cannot hold more than one workbook.
	ErrConflictingReportFormats = errors.New("conflicting report output: xlsx for multiple targets requires --output")
)
