package associate

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/leadscan/internal/document"
	"github.com/nao1215/leadscan/internal/extract"
	"github.com/nao1215/leadscan/internal/model"
)

// nonPersonSlugWords mark LinkedIn slugs that do not name a person.
var nonPersonSlugWords = map[string]bool{
	"page":     true,
	"profile":  true,
	"company":  true,
	"business": true,
}

// PageContacts is everything extracted from a single page.
type PageContacts struct {
	URL      string
	Emails   []string
	Phones   []string
	Names    []string
	LinkedIn []string
	Titles   []string
	Contacts []model.ContactRecord
}

// ExtractPage runs every extractor over doc and associates the results.
// country is the phone region hint ("" when unknown).
func ExtractPage(doc *document.Document, pageURL, country string) PageContacts {
	text := doc.Text()
	pc := PageContacts{
		URL:      pageURL,
		Emails:   extract.Emails(text),
		Phones:   extract.PhoneNumbers(text, country),
		Names:    extract.Names(doc),
		LinkedIn: extract.LinkedInProfiles(doc, text),
		Titles:   extract.JobTitles(doc, text),
	}
	pc.Contacts = Associate(doc, pageURL, country, pc.Emails, pc.Phones, pc.LinkedIn)
	return pc
}

// Associate builds the contact records of one page from its document and
// the page-level candidate lists. The input slices are not modified.
func Associate(doc *document.Document, pageURL, country string, emails, phones, linkedin []string) []model.ContactRecord {
	remainingEmails := newCandidates(emails)
	remainingPhones := newCandidates(phones)
	remainingLinkedIn := newCandidates(linkedin)

	contacts := make([]model.ContactRecord, 0)

	doc.FindByAttr("class", extract.CardClassRe).Each(func(_ int, card *goquery.Selection) {
		rec, ok := cardContact(doc, card, pageURL, country).Build()
		if !ok {
			return
		}
		contacts = append(contacts, rec)
		remainingEmails.remove(rec.Email)
		remainingPhones.remove(rec.Phone)
		remainingLinkedIn.remove(rec.LinkedIn)
	})

	for _, email := range remainingEmails.items {
		if rec, ok := model.NewPartialContact(pageURL).
			WithEmail(email).
			WithName(GuessNameFromEmail(email)).
			Build(); ok {
			contacts = append(contacts, rec)
		}
	}

	for _, phone := range remainingPhones.items {
		if rec, ok := model.NewPartialContact(pageURL).WithPhone(phone).Build(); ok {
			contacts = append(contacts, rec)
		}
	}

	for _, url := range remainingLinkedIn.items {
		if rec, ok := model.NewPartialContact(pageURL).
			WithLinkedIn(url).
			WithName(GuessNameFromLinkedIn(url)).
			Build(); ok {
			contacts = append(contacts, rec)
		}
	}

	return contacts
}

// cardContact collects the evidence of a single card: its contact channels
// first, then the identity of the person they belong to.
func cardContact(doc *document.Document, card *goquery.Selection, pageURL, country string) *model.PartialContact {
	text := document.Text(card)
	channels := model.NewPartialContact(pageURL)
	if emails := extract.Emails(text); len(emails) > 0 {
		channels.WithEmail(emails[0])
	}
	if phones := extract.PhoneNumbers(text, country); len(phones) > 0 {
		channels.WithPhone(phones[0])
	}
	channels.WithLinkedIn(extract.CardLinkedIn(doc, card))

	identity := model.NewPartialContact(pageURL).
		WithName(extract.CardName(card)).
		WithTitle(extract.CardTitle(card))
	return channels.Merge(identity)
}

// GuessNameFromEmail turns "john.smith@co.com" into "John Smith".
// The local part must split on '.' into exactly two alphabetic words.
func GuessNameFromEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return ""
	}
	parts := strings.Split(email[:at], ".")
	if len(parts) != 2 || !isAlpha(parts[0]) || !isAlpha(parts[1]) {
		return ""
	}
	return capitalize(parts[0]) + " " + capitalize(parts[1])
}

// GuessNameFromLinkedIn turns ".../in/jane-doe" into "Jane Doe".
// Slugs containing page, profile, company or business yield no name.
func GuessNameFromLinkedIn(url string) string {
	slug, ok := extract.LinkedInSlug(url)
	if !ok {
		return ""
	}
	name := cases.Title(language.English).String(strings.ReplaceAll(slug, "-", " "))
	for _, w := range strings.Fields(name) {
		if nonPersonSlugWords[strings.ToLower(w)] {
			return ""
		}
	}
	return strings.TrimSpace(name)
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// candidates is an ordered, duplicate-free list of page-level values from
// which cards consume entries.
type candidates struct {
	items []string
}

func newCandidates(values []string) *candidates {
	seen := make(map[string]bool, len(values))
	items := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		items = append(items, v)
	}
	return &candidates{items: items}
}

// remove drops the first occurrence of v.
func (c *candidates) remove(v string) {
	if v == "" {
		return
	}
	for i, item := range c.items {
		if item == v {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}
