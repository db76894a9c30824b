package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/nao1215/leadscan/internal/associate"
	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/document"
	"github.com/nao1215/leadscan/internal/extract"
	"github.com/nao1215/leadscan/internal/model"
)

// ExtractFunc turns a parsed page into contact records.
// country is the phone region hint of the run ("" when unknown).
type ExtractFunc func(doc *document.Document, pageURL, country string) []model.ContactRecord

// ProgressEvent reports the outcome of one fetch.
type ProgressEvent struct {
	// URL is the page that was fetched.
	URL string
	// Contacts is the number of records found on the page.
	Contacts int
	// Pages is the number of pages fetched successfully so far.
	Pages int
	// Queued is the number of URLs waiting in the frontier.
	Queued int
	// Err is the fetch error, nil on success.
	Err error
}

// Spider crawls a single site, same host only, within a page budget.
//
// A Spider holds configuration only; every Crawl call builds its own
// RunState, so one Spider can serve concurrent runs.
type Spider struct {
	fetcher        Fetcher
	maxPages       int
	delay          time.Duration
	concurrency    int
	ignorePatterns []string
	followPatterns []string
	extract        ExtractFunc
	progress       func(ProgressEvent)
	logger         *slog.Logger
}

// SpiderOption configures a Spider.
type SpiderOption func(*Spider)

// WithMaxPages sets the hard cap on fetch calls per run.
func WithMaxPages(maxPages int) SpiderOption {
	return func(s *Spider) {
		s.maxPages = maxPages
	}
}

// WithDelay sets the minimum spacing between two fetches. Zero disables pacing.
func WithDelay(d time.Duration) SpiderOption {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithConcurrency sets the number of crawl workers.
func WithConcurrency(n int) SpiderOption {
	return func(s *Spider) {
		s.concurrency = n
	}
}

// WithIgnorePatterns sets URL path patterns to skip during crawling.
// Patterns use glob syntax (e.g., "/blog/*", "*.pdf").
func WithIgnorePatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.ignorePatterns = patterns
	}
}

// WithFollowPatterns restricts crawling to URL paths matching at least one pattern.
// The start URL is always fetched.
func WithFollowPatterns(patterns []string) SpiderOption {
	return func(s *Spider) {
		s.followPatterns = patterns
	}
}

// WithExtractor replaces the page extraction step.
func WithExtractor(fn ExtractFunc) SpiderOption {
	return func(s *Spider) {
		s.extract = fn
	}
}

// WithProgress registers a callback invoked after every fetch.
// It may be called from several workers at once.
func WithProgress(fn func(ProgressEvent)) SpiderOption {
	return func(s *Spider) {
		s.progress = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SpiderOption {
	return func(s *Spider) {
		s.logger = logger
	}
}

// NewSpider creates a Spider that fetches pages with fetcher.
func NewSpider(fetcher Fetcher, opts ...SpiderOption) *Spider {
	s := &Spider{
		fetcher:     fetcher,
		maxPages:    config.DefaultMaxPages,
		delay:       config.DefaultCrawlDelay,
		concurrency: config.DefaultConcurrency,
		extract:     extractContacts,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	return s
}

// extractContacts is the default ExtractFunc.
func extractContacts(doc *document.Document, pageURL, country string) []model.ContactRecord {
	return associate.ExtractPage(doc, pageURL, country).Contacts
}

// CrawlResult is the outcome of a completed crawl run.
type CrawlResult struct {
	// StartURL is the normalized start URL.
	StartURL string
	// Domain is the host shared by every crawled page.
	Domain string
	// Country is the phone region hint derived from the start URL.
	Country string
	// Contacts are the records of every page, in discovery order.
	Contacts []model.ContactRecord
	// Crawled lists the pages fetched successfully, in fetch order.
	Crawled []string
	// Failed lists the URLs whose fetch failed.
	Failed []string
	// FetchCalls is the number of fetch attempts, never more than max pages.
	FetchCalls int
	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

// PagesCrawled returns the number of successfully fetched pages.
func (r *CrawlResult) PagesCrawled() int {
	return len(r.Crawled)
}

// Crawl crawls the site of startURL.
//
// Fetch failures are never fatal; a run whose every fetch fails completes
// with no contacts. Crawl returns an error only for an invalid start URL,
// when ctx is cancelled, or when the ctx deadline falls before the next
// paced fetch. No partial result is returned then.
func (s *Spider) Crawl(ctx context.Context, startURL string) (*CrawlResult, error) {
	start, err := parseStartURL(startURL)
	if err != nil {
		return nil, err
	}

	r := &run{
		spider:   s,
		start:    start.String(),
		state:    NewRunState(start.Host),
		country:  extract.CountryHint(start.String()),
		frontier: NewFrontier(),
		budget:   newBudget(s.maxPages),
		limiter:  newLimiter(s.delay),
	}
	began := time.Now()

	stop := context.AfterFunc(ctx, r.frontier.Close)
	defer stop()

	if err := r.seed(ctx); err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	for range s.concurrency {
		g.Go(func() error {
			return r.work(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, ErrDeadlineTooShort) {
			return nil, fmt.Errorf("crawl aborted: %w", err)
		}
		return nil, fmt.Errorf("crawl cancelled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("crawl cancelled: %w", err)
	}

	result := &CrawlResult{
		StartURL:   r.start,
		Domain:     r.state.Domain(),
		Country:    r.country,
		Contacts:   r.state.Contacts(),
		Crawled:    r.state.Crawled(),
		Failed:     r.state.Failed(),
		FetchCalls: r.budget.spent(),
		Duration:   time.Since(began),
	}
	s.logger.Info("crawl completed",
		"url", result.StartURL,
		"pages", result.PagesCrawled(),
		"failed", len(result.Failed),
		"contacts", len(result.Contacts),
		"duration", result.Duration)
	return result, nil
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// run is the per-call crawl state.
type run struct {
	spider   *Spider
	start    string
	state    *RunState
	country  string
	frontier *Frontier
	budget   *budget
	limiter  *rate.Limiter
}

// seed fetches the start URL. On success the page is processed and its
// links enqueued, high-value first. On failure the start URL itself is
// enqueued so the crawl phase can try it again.
func (r *run) seed(ctx context.Context) error {
	links, err := r.visit(ctx, r.start)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("crawl cancelled: %w", ctx.Err())
		}
		if errors.Is(err, ErrDeadlineTooShort) {
			return fmt.Errorf("crawl aborted: %w", err)
		}
		if !errors.Is(err, errBudgetSpent) {
			r.frontier.Push(r.start, PriorityOf(r.start))
		}
		return nil
	}
	r.state.TryVisit(r.start)
	r.enqueue(links)
	return nil
}

// work is the loop of one crawl worker.
func (r *run) work(ctx context.Context) error {
	for {
		url, ok := r.frontier.Next()
		if !ok {
			return ctx.Err()
		}
		err := r.crawl(ctx, url)
		r.frontier.Done()
		if err != nil {
			r.frontier.Close()
			return err
		}
	}
}

// crawl processes one frontier entry. Fetch failures are recorded and
// swallowed; the returned error aborts the whole run.
func (r *run) crawl(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.budget.exhausted() {
		r.frontier.Close()
		return nil
	}
	if !r.state.TryVisit(url) {
		return nil
	}
	links, err := r.visit(ctx, url)
	if err != nil {
		switch {
		case errors.Is(err, errBudgetSpent):
			r.frontier.Close()
		case errors.Is(err, ErrDeadlineTooShort):
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		}
		return nil
	}
	r.enqueue(links)
	if r.budget.exhausted() {
		r.frontier.Close()
	}
	return nil
}

var errBudgetSpent = errors.New("page budget spent")

// visit fetches and processes a single page and returns its crawlable links.
func (r *run) visit(ctx context.Context, url string) ([]string, error) {
	if !r.budget.acquire() {
		return nil, errBudgetSpent
	}
	if err := r.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", ErrDeadlineTooShort, err)
	}

	logger := r.spider.logger
	logger.Debug("fetching", "url", url)

	page, err := r.spider.fetcher.Fetch(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn("fetch failed", "url", url, "error", err)
		r.state.AddFailure(url)
		r.report(ProgressEvent{URL: url, Err: err})
		return nil, err
	}

	// Links of a page redirected off the run's host resolve against the
	// requested URL, so relative links stay on the crawled host.
	base := page.BaseURL()
	if !isSameHost(r.state.Domain(), base) {
		base = url
	}
	doc, err := document.Parse(bytes.NewReader(page.Body), base)
	if err != nil {
		logger.Warn("parse failed", "url", url, "error", err)
		r.state.AddFailure(url)
		r.report(ProgressEvent{URL: url, Err: err})
		return nil, err
	}

	contacts := r.spider.extract(doc, url, r.country)
	r.state.AddPage(url, contacts)
	logger.Info("page processed", "url", url, "contacts", len(contacts))
	r.report(ProgressEvent{URL: url, Contacts: len(contacts)})

	return r.discover(doc), nil
}

// discover returns the page's links that are eligible for the frontier, in
// document order and without duplicates.
func (r *run) discover(doc *document.Document) []string {
	seen := make(map[string]bool)
	links := make([]string, 0)
	for _, a := range doc.Anchors() {
		if !isCrawlableLink(a.Href, a.URL) {
			continue
		}
		u := normalizeURL(a.URL)
		if seen[u] || !isSameHost(r.state.Domain(), u) {
			continue
		}
		if !shouldCrawl(u, r.spider.ignorePatterns, r.spider.followPatterns) {
			continue
		}
		seen[u] = true
		links = append(links, u)
	}
	return links
}

// enqueue pushes links that were neither visited nor queued before.
// High-value links go to the high class; relative order is preserved.
func (r *run) enqueue(links []string) {
	for _, u := range links {
		if r.state.IsVisited(u) {
			continue
		}
		r.frontier.Push(u, PriorityOf(u))
	}
}

func (r *run) report(ev ProgressEvent) {
	if r.spider.progress == nil {
		return
	}
	ev.Pages = r.state.CrawledCount()
	ev.Queued = r.frontier.Len()
	r.spider.progress(ev)
}
