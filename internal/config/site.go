package config

import (
	"strings"
	"time"
)

// SiteConfig holds crawl overrides for a single host.
type SiteConfig struct {
	// Headers are extra HTTP headers sent with every request to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page bound. Zero keeps the global value.
	MaxPages int `yaml:"maxPages,omitempty"`

	// Delay overrides the global crawl delay, e.g. "2s". Zero keeps the global value.
	Delay time.Duration `yaml:"delay,omitempty"`

	// IgnorePatterns are glob patterns matched against the URL path.
	// Matching links are never enqueued.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`

	// FollowPatterns restrict crawling to links whose path matches one of them.
	// The start URL is always fetched.
	FollowPatterns []string `yaml:"followPatterns,omitempty"`
}

// File represents the structure of the .leadscan configuration file.
type File struct {
	// Sites maps host names (e.g. "www.example.com") to site settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merging the
// site-specific entry over the defaults. Hosts match case-insensitively.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}
	result := cf.Defaults
	if len(cf.Defaults.Headers) > 0 {
		result.Headers = make(map[string]string, len(cf.Defaults.Headers))
		for k, v := range cf.Defaults.Headers {
			result.Headers[k] = v
		}
	}

	siteConfig, ok := cf.Sites[strings.ToLower(host)]
	if !ok {
		return result
	}
	if siteConfig.MaxPages != 0 {
		result.MaxPages = siteConfig.MaxPages
	}
	if siteConfig.Delay != 0 {
		result.Delay = siteConfig.Delay
	}
	if len(siteConfig.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string)
		}
		for k, v := range siteConfig.Headers {
			result.Headers[k] = v
		}
	}
	if len(siteConfig.IgnorePatterns) > 0 {
		result.IgnorePatterns = siteConfig.IgnorePatterns
	}
	if len(siteConfig.FollowPatterns) > 0 {
		result.FollowPatterns = siteConfig.FollowPatterns
	}
	return result
}

// Apply returns a copy of c with the page bound and delay overrides of site applied.
func (c *Config) Apply(site SiteConfig) *Config {
	out := *c
	if site.MaxPages > 0 {
		out.MaxPages = site.MaxPages
	}
	if site.Delay > 0 {
		out.CrawlDelay = site.Delay
	}
	return &out
}
