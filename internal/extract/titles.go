package extract

import (
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/leadscan/internal/document"
)

// JobTitles returns job titles found on the page, deduplicated. Sources:
// the jobTitle field of schema.org Person microdata, short texts inside
// card-like containers that contain a title, and every title match in the
// page text.
func JobTitles(doc *document.Document, text string) []string {
	titles := newOrderedSet()

	doc.FindByAttr("itemtype", personTypeRe).Each(func(_ int, s *goquery.Selection) {
		titles.add(document.Text(s.Find(`[itemprop="jobTitle"]`).First()))
	})

	doc.FindByAttr("class", CardClassRe).Each(func(_ int, card *goquery.Selection) {
		card.Find("p,span,div").Each(func(_ int, s *goquery.Selection) {
			if t := document.Text(s); isTitleText(t) {
				titles.add(t)
			}
		})
	})

	for _, m := range titleRe.FindAllString(text, -1) {
		titles.add(m)
	}

	return titles.values()
}

// CardTitle returns the first short p, span or div text of the card that
// contains a job title.
func CardTitle(card *goquery.Selection) string {
	var title string
	card.Find("p,span,div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := document.Text(s); isTitleText(t) {
			title = t
			return false
		}
		return true
	})
	return title
}

func isTitleText(text string) bool {
	return utf8.RuneCountInString(text) < maxTitleLen && titleRe.MatchString(text)
}
