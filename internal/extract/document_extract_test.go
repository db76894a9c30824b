package extract

import (
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/leadscan/internal/document"
)

const teamPage = `<html><body>
<h1>Meet Our Team</h1>
<div class="team-member">
  <h3>Jane Doe</h3>
  <p>Senior Software Engineer</p>
  <p>jane@x.com</p>
  <a href="https://www.linkedin.com/in/jane-doe">LinkedIn</a>
</div>
<div class="staff-card">
  <strong>Bob</strong>
  <span>Head of Sales Manager</span>
</div>
<div itemscope itemtype="http://schema.org/Person">
  <span itemprop="name">Carol  King</span>
  <span itemprop="jobTitle">Chief Marketing Officer</span>
</div>
<section class="contact-info"><h2>Alan Turing Jr</h2></section>
<h2>About Us</h2>
<h2>our services</h2>
<a href="/in/not-linkedin">x</a>
<a href="https://linkedin.com/company/acme-inc/">Company</a>
<p>Find us at LinkedIn.com/in/Extra-Person too.</p>
</body></html>`

func parseTeamPage(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.ParseString(teamPage, "https://acme.example/team")
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestNames(t *testing.T) {
	t.Parallel()

	doc := parseTeamPage(t)
	got := Names(doc)

	for _, want := range []string{"Jane Doe", "Carol King", "Alan Turing Jr"} {
		if !slices.Contains(got, want) {
			t.Errorf("Names() = %v, missing %q", got, want)
		}
	}
	for _, reject := range []string{"About Us", "our services", "Meet Our Team", "Bob"} {
		if slices.Contains(got, reject) {
			t.Errorf("Names() = %v, should not contain %q", got, reject)
		}
	}

	seen := make(map[string]bool)
	for _, n := range got {
		if seen[n] {
			t.Errorf("Names() returned duplicate %q", n)
		}
		seen[n] = true
	}
}

func TestLooksLikeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"Jane Doe", true},
		{"John Q Public", true},
		{"J Doe", true},
		{"Mary-Ann Smith", true},
		{"Jane", false},
		{"Jane van Doe", false},
		{"Contact Us Today", false},
		{"One Two Three Four", false},
		{"Abc", false},
		{"Pneumonoultramicroscopic Silicovolcanoconiosis", false},
	}
	for _, tt := range tests {
		if got := looksLikeName(tt.text); got != tt.want {
			t.Errorf("looksLikeName(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestLinkedInProfiles(t *testing.T) {
	t.Parallel()

	doc := parseTeamPage(t)
	got := LinkedInProfiles(doc, doc.Text())

	want := []string{
		"https://www.linkedin.com/in/jane-doe",
		"https://linkedin.com/company/acme-inc/",
		"https://linkedin.com/in/extra-person",
	}
	slices.Sort(got)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		t.Errorf("LinkedInProfiles() = %v, want %v", got, want)
	}
}

func TestCardLinkedIn(t *testing.T) {
	t.Parallel()

	doc := parseTeamPage(t)
	cards := doc.FindByAttr("class", CardClassRe)
	if got := CardLinkedIn(doc, cards.First()); got != "https://www.linkedin.com/in/jane-doe" {
		t.Errorf("CardLinkedIn() = %q", got)
	}
	if got := CardLinkedIn(doc, cards.Eq(1)); got != "" {
		t.Errorf("CardLinkedIn() on card without profile = %q", got)
	}
}

func TestLinkedInSlug(t *testing.T) {
	t.Parallel()

	if slug, ok := LinkedInSlug("https://www.linkedin.com/in/john-smith-42"); !ok || slug != "john-smith-42" {
		t.Errorf("LinkedInSlug() = %q, %v", slug, ok)
	}
	if _, ok := LinkedInSlug("https://www.linkedin.com/company/acme"); ok {
		t.Error("company URL has no profile slug")
	}
}

func TestJobTitles(t *testing.T) {
	t.Parallel()

	doc := parseTeamPage(t)
	got := JobTitles(doc, doc.Text())

	for _, want := range []string{"Senior Software Engineer", "Chief Marketing Officer", "Head of Sales Manager"} {
		if !slices.Contains(got, want) {
			t.Errorf("JobTitles() = %v, missing %q", got, want)
		}
	}
}

func TestCardTitleAndName(t *testing.T) {
	t.Parallel()

	doc := parseTeamPage(t)
	card := doc.FindByAttr("class", CardClassRe).First()

	if got := CardName(card); got != "Jane Doe" {
		t.Errorf("CardName() = %q, want Jane Doe", got)
	}
	if got := CardTitle(card); got != "Senior Software Engineer" {
		t.Errorf("CardTitle() = %q, want Senior Software Engineer", got)
	}

	bob := doc.FindByAttr("class", CardClassRe).Eq(1)
	if got := CardName(bob); got != "" {
		t.Errorf("single word header should not be a name, got %q", got)
	}
}

func TestIsTitleText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want bool
	}{
		{"She is our Vice President of Product Design Director", true},
		{"Senior Software Engineer", true},
		{"CEO", false},
		{strings.Repeat("Senior ", 20) + "Engineer", false},
	}
	for _, tt := range tests {
		if got := isTitleText(tt.text); got != tt.want {
			t.Errorf("isTitleText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
