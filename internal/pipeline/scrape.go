package pipeline

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/crawler"
	"github.com/nao1215/leadscan/internal/model"
)

// Options configures a single scrape run.
type Options struct {
	// MaxPages is the hard cap on fetch calls.
	MaxPages int
	// Delay is the minimum spacing between fetches. Zero disables pacing.
	Delay time.Duration
	// Concurrency is the number of crawl workers.
	Concurrency int
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration
	// UserAgent is sent with every request.
	UserAgent string
	// MaxBodySize limits the bytes read per page.
	MaxBodySize int64
	// Headers are extra request headers.
	Headers map[string]string
	// IgnorePatterns and FollowPatterns filter discovered links by path.
	IgnorePatterns []string
	FollowPatterns []string

	// Fetcher replaces the HTTP fetcher built from the options above.
	Fetcher crawler.Fetcher
	// Store, when set, receives the completed run.
	Store RunSaver
	// Progress is called after every fetch.
	Progress func(crawler.ProgressEvent)
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the options of a run with every setting at its default.
func DefaultOptions() Options {
	return Options{
		MaxPages:    config.DefaultMaxPages,
		Delay:       config.DefaultCrawlDelay,
		Concurrency: config.DefaultConcurrency,
		Timeout:     config.DefaultTimeout,
		UserAgent:   config.DefaultUserAgent,
		MaxBodySize: config.DefaultMaxBodySize,
	}
}

// OptionsFromConfig builds the options of a run over startURL, applying the
// per-site overrides of the configuration file for the URL's host.
func OptionsFromConfig(cfg *config.Config, startURL string) Options {
	site := cfg.SiteConfigs.GetSiteConfig(hostOf(startURL))
	effective := cfg.Apply(site)

	return Options{
		MaxPages:       effective.MaxPages,
		Delay:          effective.CrawlDelay,
		Concurrency:    effective.Concurrency,
		Timeout:        effective.Timeout,
		UserAgent:      effective.UserAgent,
		MaxBodySize:    effective.MaxBodySize,
		Headers:        site.Headers,
		IgnorePatterns: site.IgnorePatterns,
		FollowPatterns: site.FollowPatterns,
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) fetcher() crawler.Fetcher {
	if o.Fetcher != nil {
		return o.Fetcher
	}
	opts := []crawler.FetcherOption{}
	if o.Timeout > 0 {
		opts = append(opts, crawler.WithTimeout(o.Timeout))
	}
	if o.UserAgent != "" {
		opts = append(opts, crawler.WithUserAgent(o.UserAgent))
	}
	if o.MaxBodySize > 0 {
		opts = append(opts, crawler.WithMaxBodySize(o.MaxBodySize))
	}
	if len(o.Headers) > 0 {
		opts = append(opts, crawler.WithHeaders(o.Headers))
	}
	return crawler.NewHTTPFetcher(opts...)
}

func (o Options) spider() *crawler.Spider {
	opts := []crawler.SpiderOption{
		crawler.WithMaxPages(o.MaxPages),
		crawler.WithDelay(o.Delay),
		crawler.WithConcurrency(o.Concurrency),
		crawler.WithLogger(o.logger()),
	}
	if len(o.IgnorePatterns) > 0 {
		opts = append(opts, crawler.WithIgnorePatterns(o.IgnorePatterns))
	}
	if len(o.FollowPatterns) > 0 {
		opts = append(opts, crawler.WithFollowPatterns(o.FollowPatterns))
	}
	if o.Progress != nil {
		opts = append(opts, crawler.WithProgress(o.Progress))
	}
	return crawler.NewSpider(o.fetcher(), opts...)
}

// NewScrapePipeline creates the crawl, aggregate and (with a Store) persist pipeline.
func NewScrapePipeline(opts Options) *Pipeline {
	logger := opts.logger()
	p := New(WithLogger(logger))
	p.AddSteps(
		NewCrawlStep(opts.spider(), WithCrawlLogger(logger)),
		NewAggregateStep(),
	)
	if opts.Store != nil {
		p.AddStep(NewPersistStep(opts.Store))
	}
	return p
}

// Scrape crawls the site of startURL and returns its deduplicated contact
// rows and run statistics.
//
// An empty result is a successful run. Scrape fails, with a *ScrapeError,
// only when the start URL is invalid, ctx is cancelled or the run cannot be
// saved. Each call owns its crawl state, so concurrent calls are safe.
func Scrape(ctx context.Context, startURL string, opts Options) (*model.ScrapeReport, error) {
	report := model.NewScrapeReport(uuid.NewString(), startURL)
	if err := NewScrapePipeline(opts).Execute(ctx, report); err != nil {
		return nil, &ScrapeError{URL: startURL, Err: err}
	}

	opts.logger().Info("scrape completed",
		"url", report.StartURL,
		"emails", report.Stats.Emails,
		"phones", report.Stats.Phones,
		"linkedin", report.Stats.LinkedIn,
		"pages", report.Stats.PagesCrawled,
		"duration", report.Stats.Duration,
	)
	return report, nil
}
