package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/leadscan/internal/document"
)

// LinkedInProfiles returns LinkedIn profile and company URLs found on the
// page: anchors pointing at linkedin.com/in/ or linkedin.com/company/
// (resolved against the page URL) and the same paths mentioned in plain
// text (prefixed with https://). The result is deduplicated; callers must
// not rely on its order.
func LinkedInProfiles(doc *document.Document, text string) []string {
	links := newOrderedSet()

	doc.FindAll("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		lower := strings.ToLower(href)
		if !strings.Contains(lower, "linkedin.com/in/") && !strings.Contains(lower, "linkedin.com/company/") {
			return
		}
		if resolved, ok := doc.Resolve(href); ok {
			links.add(resolved)
		}
	})

	for _, m := range linkedInTextRe.FindAllString(strings.ToLower(text), -1) {
		links.add("https://" + m)
	}

	return links.values()
}

// CardLinkedIn returns the first personal (/in/) LinkedIn anchor of a card,
// resolved against the page URL.
func CardLinkedIn(doc *document.Document, card *goquery.Selection) string {
	var found string
	card.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		if !strings.Contains(strings.ToLower(href), "linkedin.com/in/") {
			return true
		}
		if resolved, ok := doc.Resolve(href); ok {
			found = resolved
			return false
		}
		return true
	})
	return found
}

// LinkedInSlug returns the profile slug of a linkedin.com/in/ URL.
func LinkedInSlug(url string) (string, bool) {
	m := linkedInSlugRe.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}
