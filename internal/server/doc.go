// Package server provides the HTTP front end of leadscan.
//
// It exposes three routes on a gin engine:
//   - GET /health reports liveness
//   - POST /api/scrape runs a scrape and answers with a JSON envelope
//   - GET and POST / serve a small HTML form that returns the leads as an
//     Excel workbook
//
// Every request runs its own scrape with a fresh crawl state. The request
// context, bounded by the configured request timeout, is passed down to
// the crawl so a disconnected client stops its run.
package server
