package model

import (
	"strings"
	"time"
)

// Page represents a successfully fetched HTML page.
// A fetch that fails never produces a Page; callers get an error instead.
type Page struct {
	// URL is the URL that was requested.
	URL string `json:"url"`

	// FinalURL is the URL after redirects. Relative links resolve against it.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code (always 2xx).
	StatusCode int `json:"status_code"`

	// ContentType is the media type from the Content-Type header.
	ContentType string `json:"content_type"`

	// Body is the response body decoded to UTF-8, limited to the
	// fetcher's maximum body size.
	Body []byte `json:"-"`

	// FetchedAt is when the response was received.
	FetchedAt time.Time `json:"fetched_at"`

	// Duration is how long the request took.
	Duration time.Duration `json:"duration"`
}

// BaseURL returns the URL that relative links on the page resolve against.
func (p *Page) BaseURL() string {
	if p.FinalURL != "" {
		return p.FinalURL
	}
	return p.URL
}

// IsHTML reports whether the content type indicates an HTML document.
func IsHTML(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	return strings.HasPrefix(ct, "text/html") || strings.HasPrefix(ct, "application/xhtml+xml")
}
