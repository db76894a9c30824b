package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMaxPages is the maximum number of distinct pages fetched per run.
	// Contact information is usually concentrated on a handful of pages
	// (home, contact, about, team), so a small bound finds most of it.
	DefaultMaxPages = 15

	// DefaultCrawlDelay is the pause between two fetches against the same site.
	// Small business sites frequently sit behind WAFs that block burst traffic.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultConcurrency is the number of crawl workers per site.
	// One worker reproduces a strictly sequential crawl.
	DefaultConcurrency = 1

	// DefaultBatchSize is the number of sites scraped concurrently in batch mode.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "leadscan"

	// DefaultUserAgent is a desktop browser User-Agent.
	// Many small sites serve an error page to obvious bots.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// DefaultMaxBodySize limits the response body size read per page.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultFormat is the report format written when none is requested.
	DefaultFormat = "table"

	// DefaultListenAddress is the address the serve command listens on.
	DefaultListenAddress = ":8080"

	// DefaultRequestTimeout bounds a scrape triggered through the HTTP front end.
	DefaultRequestTimeout = 5 * time.Minute
)

// Formats lists the report formats understood by the report package.
var Formats = []string{"table", "json", "markdown", "xlsx", "csv"}

// Config holds all configuration options for leadscan.
// It is populated from CLI flags and passed down explicitly; nothing in
// the engine reads global state.
type Config struct {
	// Targets is the list of start URLs to scrape.
	Targets []string

	// MaxPages is the hard cap on distinct pages fetched per site.
	MaxPages int

	// CrawlDelay is the minimum pause between fetches against one site.
	// Zero disables pacing.
	CrawlDelay time.Duration

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Concurrency is the number of crawl workers per site.
	Concurrency int

	// BatchSize is the number of sites processed concurrently.
	BatchSize int

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum number of body bytes read per page.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// MaskContacts masks email and phone values in log output.
	MaskContacts bool

	// ConfigFilePath is the explicit path to a .leadscan file.
	// When empty, the current directory and then the home directory are searched.
	ConfigFilePath string

	// SiteConfigs holds per-site settings loaded from the config file.
	SiteConfigs *File

	// Format is the report format: table, json, markdown, xlsx or csv.
	Format string

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// DBDir is the directory holding the run history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records every completed run in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		MaxPages:    DefaultMaxPages,
		CrawlDelay:  DefaultCrawlDelay,
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
		BatchSize:   DefaultBatchSize,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		Format:      DefaultFormat,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for leadscan.
// On Linux: ~/.local/share/leadscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for leadscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if !IsValidFormat(c.Format) {
		return ErrInvalidFormat
	}
	// Binary and multi-document formats cannot share stdout between sites.
	if len(c.Targets) > 1 && c.Format == "xlsx" && c.ReportFile == "" {
		return ErrConflictingReportFormats
	}
	return nil
}

// IsValidFormat reports whether format is a supported report format.
func IsValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}
