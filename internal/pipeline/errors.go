package pipeline

import "fmt"

// ScrapeError is returned when a scrape run fails as a whole: the start
// URL is invalid, the run was cancelled, or the history could not be saved.
// Individual page failures never produce a ScrapeError.
type ScrapeError struct {
	// URL is the start URL of the failed run.
	URL string
	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ScrapeError) Error() string {
	return fmt.Sprintf("failed to scrape %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ScrapeError) Unwrap() error {
	return e.Err
}
