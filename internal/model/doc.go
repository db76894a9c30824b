// Package model defines the core data structures used throughout leadscan.
//
// This package contains the following main types:
//   - Page: a fetched HTML page
//   - ContactRecord: one associated bundle of name/email/phone/linkedin/title
//   - PartialContact: the builder that becomes a ContactRecord once validated
//   - ResultRow: one flattened, deduplicated output line per contact channel
//   - ScrapeReport: the outcome of a single scrape run
//
// The types live in their own package so the crawler, aggregator, report
// writers and database can share them.
package model
