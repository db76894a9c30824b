// Package pipeline runs a scrape as a sequence of steps.
//
// A scrape is crawl, then aggregate, then (optionally) persist. Each stage
// is a Step that receives the run's report and fills in its part of it.
// Scrape is the entry point used by the CLI and the HTTP server;
// BatchProcessor scrapes several sites concurrently, each run with its own
// isolated crawl state.
package pipeline
