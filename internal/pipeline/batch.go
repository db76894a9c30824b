package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/leadscan/internal/config"
	"github.com/nao1215/leadscan/internal/model"
)

// BatchResult is the outcome of one site of a batch.
type BatchResult struct {
	// URL is the start URL as given.
	URL string
	// Report is nil when the run failed.
	Report *model.ScrapeReport
	// Err is a *ScrapeError when the run failed.
	Err error
}

// BatchProcessor scrapes several sites concurrently.
// Every site gets its own pipeline and crawl state; a failure on one site
// does not stop the others.
type BatchProcessor struct {
	// optionsFor returns the run options for a start URL.
	optionsFor func(startURL string) Options

	// concurrency is the maximum number of concurrent runs.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs.
// Non-positive values are ignored.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
// optionsFor is called once per site, so per-site overrides can be applied.
func NewBatchProcessor(optionsFor func(startURL string) Options, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		optionsFor:  optionsFor,
		concurrency: config.DefaultBatchSize,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scrapes every URL and returns the results in input order.
// The error is non-nil only when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, urls []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(urls))
	for i, u := range urls {
		results[i].URL = u
	}
	err := bp.ProcessBatchWithCallback(ctx, urls, func(r BatchResult, index int) {
		results[index] = r
	})
	if err != nil {
		// Sites that never started.
		for i := range results {
			if results[i].Report == nil && results[i].Err == nil {
				results[i].Err = &ScrapeError{URL: results[i].URL, Err: err}
			}
		}
	}
	return results, err
}

// ProcessBatchWithCallback scrapes every URL and calls callback as each run
// finishes. The callback is called from the worker goroutine that ran the
// site, so it must be safe for concurrent use unless each index is
// written separately.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	urls []string,
	callback func(result BatchResult, index int),
) error {
	bp.logger.Info("starting batch processing",
		"total_sites", len(urls),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, u := range urls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			bp.logger.Info("scraping site",
				"url", u,
				"index", i+1,
				"total", len(urls),
			)

			report, err := Scrape(gctx, u, bp.optionsFor(u))
			if err != nil {
				bp.logger.Warn("scrape failed", "url", u, "error", err)
			}
			callback(BatchResult{URL: u, Report: report, Err: err}, i)

			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch processing complete",
		"total_sites", len(urls),
		"elapsed", time.Since(startTime),
	)
	return err
}
