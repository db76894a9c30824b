package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/leadscan/internal/aggregate"
	"github.com/nao1215/leadscan/internal/crawler"
	"github.com/nao1215/leadscan/internal/model"
)

// CrawlStep crawls the report's start URL and records the raw contacts.
type CrawlStep struct {
	spider *crawler.Spider
	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a crawl step driven by spider.
func NewCrawlStep(spider *crawler.Spider, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		spider: spider,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	return "crawl"
}

// Do executes the crawl step.
func (s *CrawlStep) Do(ctx context.Context, report *model.ScrapeReport) error {
	result, err := s.spider.Crawl(ctx, report.StartURL)
	if err != nil {
		return err
	}

	report.StartURL = result.StartURL
	report.Domain = result.Domain
	report.Country = result.Country
	report.Contacts = result.Contacts
	report.VisitedURLs = result.Crawled
	report.FailedURLs = result.Failed
	report.Stats.PagesCrawled = result.PagesCrawled()
	report.Stats.PagesFailed = len(result.Failed)
	report.Stats.Duration = result.Duration
	report.FinishedAt = time.Now()

	s.logger.Debug("crawl step finished",
		"url", report.StartURL,
		"pages", report.Stats.PagesCrawled,
		"contacts", len(report.Contacts),
	)
	return nil
}

// AggregateStep flattens the crawled contacts into deduplicated rows and
// counts them.
type AggregateStep struct{}

// NewAggregateStep creates an aggregate step.
func NewAggregateStep() *AggregateStep {
	return &AggregateStep{}
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do executes the aggregate step. Page counters and the duration recorded
// by the crawl step are preserved.
func (s *AggregateStep) Do(_ context.Context, report *model.ScrapeReport) error {
	report.Rows = aggregate.Rows(report.Contacts)

	counts := aggregate.Summarize(report.Rows)
	report.Stats.Emails = counts.Emails
	report.Stats.Phones = counts.Phones
	report.Stats.LinkedIn = counts.LinkedIn
	report.Stats.Total = counts.Total
	return nil
}

// RunSaver stores completed runs. *database.DB implements it.
type RunSaver interface {
	SaveRun(ctx context.Context, report *model.ScrapeReport) error
}

// PersistStep saves the report to the run history.
type PersistStep struct {
	store RunSaver
}

// NewPersistStep creates a persist step writing to store.
func NewPersistStep(store RunSaver) *PersistStep {
	return &PersistStep{store: store}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persist step.
func (s *PersistStep) Do(ctx context.Context, report *model.ScrapeReport) error {
	if err := s.store.SaveRun(ctx, report); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}
