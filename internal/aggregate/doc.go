// Package aggregate turns the contact records of a crawl into result rows.
//
// Every channel of a record (email, phone, LinkedIn) becomes its own row.
// Rows are deduplicated by contact type and value, keeping the first
// occurrence, and sorted by contact type and then by name.
package aggregate
