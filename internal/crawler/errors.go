package crawler

import "errors"

var (
	// ErrInvalidStartURL is returned when the start URL cannot be crawled:
	// it does not parse, has no host, or is not http(s).
	ErrInvalidStartURL = errors.New("invalid start URL")

	// ErrHTTPStatus is returned by HTTPFetcher for non-2xx responses.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrNotHTML is returned by HTTPFetcher when the response is not an HTML document.
	ErrNotHTML = errors.New("response is not HTML")

	// ErrDeadlineTooShort is returned by Spider.Crawl when the context
	// deadline arrives before the crawl delay allows the next fetch.
	ErrDeadlineTooShort = errors.New("deadline reached before next paced fetch")
)
