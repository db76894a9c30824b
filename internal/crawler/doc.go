// Package crawler implements the same-host crawl of a single website.
//
// # Architecture
//
// A crawl run is driven by the Spider and owns an isolated RunState:
//
//   - Fetcher: fetches one URL and returns a model.Page or an error.
//     HTTPFetcher sends a browser User-Agent, applies a timeout, rejects
//     non-2xx and non-HTML responses and decodes the body to UTF-8.
//   - Frontier: a two-class priority queue. High-value URLs (paths such as
//     /contact, /about, /team) are always dequeued before normal ones;
//     each class is FIFO.
//   - RunState: the synchronized visited set and the accumulated contacts.
//   - budget: an atomic counter that caps the total number of fetch calls.
//
// The run moves through Seeding (fetch the start URL and enqueue its links),
// Crawling (workers pop, fetch, extract and discover) and Done (frontier
// drained, page budget spent, or context cancelled).
//
// # Politeness
//
// All workers share one token-rate limiter, so the configured delay is the
// minimum spacing between two fetches regardless of the worker count.
//
// # Usage
//
//	spider := crawler.NewSpider(crawler.NewHTTPFetcher(), crawler.WithMaxPages(15))
//	result, err := spider.Crawl(ctx, "https://example.com")
package crawler
