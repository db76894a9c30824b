// Package document turns fetched HTML into a queryable document.
//
// It wraps a goquery document (itself built on golang.org/x/net/html) and
// exposes exactly the queries the extractors need:
//   - find all elements by tag name
//   - find all elements whose attribute matches a regular expression
//     (class names for card detection, itemtype for schema.org Person)
//   - visible text of the whole document or of a single element
//   - resolution of relative hrefs against the page URL
//
// Script, style, noscript and template elements are removed on parse so
// they never contribute to visible text.
package document
