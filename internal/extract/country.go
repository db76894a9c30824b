package extract

import (
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// tldRegions maps top-level domains to the phone region used as parsing hint.
var tldRegions = map[string]string{
	"us": "US",
	"uk": "GB",
	"ca": "CA",
	"au": "AU",
	"de": "DE",
	"fr": "FR",
	"in": "IN",
}

// CountryHint derives a phone region from the top-level domain of rawURL.
// Unknown domains, IP hosts and unparsable URLs return "".
func CountryHint(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return ""
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	tld := suffix[strings.LastIndex(suffix, ".")+1:]
	return tldRegions[tld]
}
