package extract

import "regexp"

var (
	// emailRe matches a standard local@domain address.
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// phoneRes are the candidate phone patterns: international-leaning,
	// plain 10-digit, and loose "+digits".
	phoneRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		regexp.MustCompile(`\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		regexp.MustCompile(`\+\d{1,3}\s?\d{3,14}\b`),
	}

	// nonPhoneCharRe strips everything but digits and '+'.
	nonPhoneCharRe = regexp.MustCompile(`[^\d+]`)

	// linkedInTextRe finds profile and company paths in lowercased text.
	linkedInTextRe = regexp.MustCompile(`linkedin\.com/(?:in|company)/[\w-]+`)

	// linkedInSlugRe captures the profile slug of a /in/ URL.
	linkedInSlugRe = regexp.MustCompile(`linkedin\.com/in/([\w-]+)`)

	// titleRe is a seniority or role word followed by a function word.
	titleRe = regexp.MustCompile(`\b(?:CEO|CTO|CFO|COO|Director|Manager|VP|Vice President|President|Founder|Owner|Partner|Senior|Lead|Chief|Head|Principal)\s+(?:\w+\s+)*(?:Engineer|Developer|Designer|Architect|Consultant|Advisor|Analyst|Officer|Manager|Director)\b`)

	// personTypeRe matches the itemtype of schema.org Person microdata.
	personTypeRe = regexp.MustCompile(`schema.org/Person`)

	// CardClassRe matches class names of card-like containers that hold one person.
	CardClassRe = regexp.MustCompile(`(?i)team|member|staff|person|profile|card`)

	// nameCardClassRe additionally treats "contact" blocks as name sources.
	nameCardClassRe = regexp.MustCompile(`(?i)team|member|staff|person|profile|card|contact`)
)

// nameStopWords disqualify a heading from being a person name.
var nameStopWords = map[string]bool{
	"home":     true,
	"about":    true,
	"contact":  true,
	"us":       true,
	"page":     true,
	"team":     true,
	"services": true,
}

// Length bounds shared by the name and title heuristics.
const (
	minNameLen  = 4
	maxNameLen  = 40
	maxTitleLen = 100
	maxEmailLen = 320
	minDigits   = 10
)
