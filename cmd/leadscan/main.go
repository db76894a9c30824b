// Package main provides the entry point for the leadscan CLI.
//
// leadscan crawls a company website and collects the contact leads it
// publishes: email addresses, phone numbers and LinkedIn profiles, each
// associated with a person's name and job title where the page allows.
//
// Usage:
//
//	leadscan scrape <url>
//	leadscan scrape --list <file>
//	leadscan serve --addr :8080
//
// See --help for all available options.
package main

// main is the entry point for leadscan.
func main() {
	Execute()
}
