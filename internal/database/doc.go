// Package database stores the history of scrape runs in SQLite.
//
// Every completed run is one row of the runs table (the run counters and
// the full report as JSON) plus one row per result row in the contacts
// table. The history answers "which sites were scraped", "what did a run
// find" and "what changed between two runs of a site".
//
// Only results are stored. Crawl state such as the frontier or the visited
// set lives and dies with its run.
//
// The driver is modernc.org/sqlite, a CGO-free SQLite, so the database is a
// single file under the XDG data directory.
package database
