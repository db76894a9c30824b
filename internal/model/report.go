package model

import (
	"math"
	"time"
)

// Run status values, as returned by the JSON API.
const (
	StatusSuccess   = "success"
	StatusNoResults = "no_results"
	StatusError     = "error"
)

// Stats are the counters of a scrape run.
type Stats struct {
	// Emails, Phones and LinkedIn count result rows per contact type.
	Emails   int `json:"emails"`
	Phones   int `json:"phones"`
	LinkedIn int `json:"linkedin"`
	// Total is the number of result rows.
	Total int `json:"total"`
	// PagesCrawled is the number of pages fetched successfully.
	PagesCrawled int `json:"pages_crawled"`
	// PagesFailed is the number of fetch attempts that failed.
	PagesFailed int `json:"pages_failed"`
	// Duration is the wall-clock time of the crawl.
	Duration time.Duration `json:"-"`
}

// DurationSeconds returns the run duration in seconds rounded to two decimals.
func (s Stats) DurationSeconds() float64 {
	return math.Round(s.Duration.Seconds()*100) / 100
}

// ScrapeReport is the outcome of one scrape run over a single site.
type ScrapeReport struct {
	// ID uniquely identifies the run in the history database.
	ID string `json:"id"`

	// StartURL is the URL the crawl started from.
	StartURL string `json:"start_url"`

	// Domain is the host every crawled URL shares.
	Domain string `json:"domain"`

	// Country is the ISO region used as phone parsing hint. Empty when the
	// top-level domain gives no hint.
	Country string `json:"country,omitempty"`

	// StartedAt and FinishedAt bracket the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Contacts are the associated records in discovery order.
	Contacts []ContactRecord `json:"contacts,omitempty"`

	// Rows are the deduplicated, sorted result rows.
	Rows []ResultRow `json:"rows"`

	// VisitedURLs lists the pages fetched successfully, in fetch order.
	VisitedURLs []string `json:"visited_urls,omitempty"`

	// FailedURLs lists the URLs whose fetch failed.
	FailedURLs []string `json:"failed_urls,omitempty"`

	// Stats are the run counters.
	Stats Stats `json:"stats"`
}

// NewScrapeReport creates an empty report for a run starting at startURL.
func NewScrapeReport(id, startURL string) *ScrapeReport {
	return &ScrapeReport{
		ID:        id,
		StartURL:  startURL,
		StartedAt: time.Now(),
		Rows:      []ResultRow{},
	}
}

// HasResults reports whether the run produced at least one row.
func (r *ScrapeReport) HasResults() bool {
	return len(r.Rows) > 0
}

// Status returns StatusSuccess or StatusNoResults.
// An empty result set is a valid outcome, not an error.
func (r *ScrapeReport) Status() string {
	if r.HasResults() {
		return StatusSuccess
	}
	return StatusNoResults
}
