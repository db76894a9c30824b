package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/leadscan/internal/document"
)

// Names returns person names found on the page, deduplicated in
// first-seen order. Three heuristics run independently:
//  1. the itemprop="name" field of schema.org Person microdata
//  2. short headings and inline text shaped like "First Last"
//  3. the header of card-like containers (team, member, profile, contact...)
func Names(doc *document.Document) []string {
	names := newOrderedSet()

	doc.FindByAttr("itemtype", personTypeRe).Each(func(_ int, s *goquery.Selection) {
		names.add(document.Text(s.Find(`[itemprop="name"]`).First()))
	})

	doc.FindAll("h1", "h2", "h3", "h4", "strong", "span", "div").Each(func(_ int, s *goquery.Selection) {
		if text := document.Text(s); looksLikeName(text) {
			names.add(text)
		}
	})

	doc.FindByAttr("class", nameCardClassRe).Each(func(_ int, s *goquery.Selection) {
		names.add(CardName(s))
	})

	return names.values()
}

// CardName returns the text of the card's first h2, h3, h4 or strong
// descendant when it is 4-40 characters and 2-4 words long.
func CardName(card *goquery.Selection) string {
	header := card.Find("h2,h3,h4,strong").First()
	if header.Length() == 0 {
		return ""
	}
	text := document.Text(header)
	n := utf8.RuneCountInString(text)
	words := len(strings.Fields(text))
	if n < minNameLen || n > maxNameLen || words < 2 || words > 4 {
		return ""
	}
	return text
}

// looksLikeName accepts 2-3 capitalized words, 4-40 characters, none of
// which is a navigation stop word. Single-letter words such as initials
// skip the capitalization check.
func looksLikeName(text string) bool {
	n := utf8.RuneCountInString(text)
	if n < minNameLen || n > maxNameLen {
		return false
	}
	words := strings.Fields(text)
	if len(words) < 2 || len(words) > 3 {
		return false
	}
	for _, w := range words {
		if nameStopWords[strings.ToLower(w)] {
			return false
		}
		if utf8.RuneCountInString(w) > 1 {
			first, _ := utf8.DecodeRuneInString(w)
			if !unicode.IsUpper(first) {
				return false
			}
		}
	}
	return true
}
