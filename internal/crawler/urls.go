package crawler

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// highValuePathRe matches paths that usually hold contact information.
var highValuePathRe = regexp.MustCompile(
	`/(?:contact|about|team|staff|people|leadership|management|directory|faculty|meet|our-team|who-we-are|employees)`)

// IsHighValue reports whether the URL path suggests contact information.
func IsHighValue(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return highValuePathRe.MatchString(strings.ToLower(u.Path))
}

// PriorityOf returns the frontier class of rawURL.
func PriorityOf(rawURL string) Priority {
	if IsHighValue(rawURL) {
		return PriorityHigh
	}
	return PriorityNormal
}

// parseStartURL validates the start URL and returns it normalized.
func parseStartURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStartURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https: %q", ErrInvalidStartURL, raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host: %q", ErrInvalidStartURL, raw)
	}
	normalized, err := url.Parse(normalizeURL(u.String()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidStartURL, err)
	}
	return normalized, nil
}

// normalizeURL normalizes a URL for deduplication: the fragment is dropped,
// scheme and host are lowercased and an empty path becomes "/".
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// isSameHost checks that targetURL is served by host (host:port compare,
// case-insensitive).
func isSameHost(host, targetURL string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

// isCrawlableLink applies the discovery-time filters to an anchor: only
// absolute http(s) links without a fragment qualify. Scheme-relative and
// fragment-only hrefs are dropped as written.
func isCrawlableLink(href, resolved string) bool {
	if strings.HasPrefix(href, "//") || strings.HasPrefix(href, "#") {
		return false
	}
	if strings.Contains(resolved, "#") {
		return false
	}
	lower := strings.ToLower(resolved)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// shouldCrawl checks a URL against ignore and follow patterns.
//
// Logic:
//  1. If the path matches any ignore pattern, skip it
//  2. If follow patterns are set and the path matches none, skip it
//  3. Otherwise, crawl it
func shouldCrawl(targetURL string, ignorePatterns, followPatterns []string) bool {
	u, err := url.Parse(targetURL)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" {
		path = "/"
	}

	for _, pattern := range ignorePatterns {
		if matchPattern(pattern, path) {
			return false
		}
	}
	if len(followPatterns) == 0 {
		return true
	}
	for _, pattern := range followPatterns {
		if matchPattern(pattern, path) {
			return true
		}
	}
	return false
}

// matchPattern checks if a path matches a glob pattern.
//   - "/admin/*" matches "/admin" and everything below it
//   - "*.pdf" matches any path ending in ".pdf"
//   - other patterns use filepath.Match semantics (* and ?)
func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(path, prefix+"/") || path == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") {
		if strings.HasSuffix(path, strings.TrimPrefix(pattern, "*")) {
			return true
		}
	}

	matched, err := filepath.Match(pattern, path)
	if err != nil {
		return false
	}
	if matched {
		return true
	}

	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		if err == nil && matched {
			return true
		}
	}
	return false
}
