package associate

import (
	"testing"

	"github.com/nao1215/leadscan/internal/document"
	"github.com/nao1215/leadscan/internal/model"
)

func parse(t *testing.T, html string) *document.Document {
	t.Helper()
	doc, err := document.ParseString(html, "https://x.com/team")
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractPageCardAssociation(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<html><body>
<div class="team-member">
  <h3>Jane Doe</h3>
  <p>Senior Software Engineer</p>
  <p>jane@x.com</p>
</div>
<p>General enquiries: hello@x.com</p>
</body></html>`)

	pc := ExtractPage(doc, "https://x.com/team", "")

	if len(pc.Contacts) != 2 {
		t.Fatalf("expected 2 contacts, got %d: %+v", len(pc.Contacts), pc.Contacts)
	}

	card := pc.Contacts[0]
	if card.Name != "Jane Doe" {
		t.Errorf("card name = %q, want Jane Doe", card.Name)
	}
	if card.Title != "Senior Software Engineer" {
		t.Errorf("card title = %q", card.Title)
	}
	if card.Email != "jane@x.com" {
		t.Errorf("card email = %q", card.Email)
	}
	if card.Source != "https://x.com/team" {
		t.Errorf("card source = %q", card.Source)
	}

	for _, c := range pc.Contacts[1:] {
		if c.Email == "jane@x.com" {
			t.Error("card email must not be emitted again as an ungrouped contact")
		}
	}
	if pc.Contacts[1].Email != "hello@x.com" || pc.Contacts[1].Name != "" {
		t.Errorf("unexpected ungrouped contact: %+v", pc.Contacts[1])
	}
}

func TestAssociateCardWithoutChannel(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<div class="profile-card"><h3>Jane Doe</h3><p>Chief Technology Officer</p></div>`)
	got := Associate(doc, "https://x.com/team", "", nil, nil, nil)
	if len(got) != 0 {
		t.Errorf("card without email, phone or linkedin must not produce a record, got %+v", got)
	}
}

func TestAssociateCardPhoneAndLinkedIn(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<div class="staff">
<h4>Bob Stone</h4>
<span>Tel 555-123-4567</span>
<a href="/company/acme">Company</a>
<a href="https://www.linkedin.com/in/bob-stone/">in</a>
</div>`)
	phones := []string{"5551234567"}
	linkedin := []string{"https://www.linkedin.com/in/bob-stone/"}

	got := Associate(doc, "https://x.com/team", "", nil, phones, linkedin)
	if len(got) != 1 {
		t.Fatalf("expected one card record, got %+v", got)
	}
	want := model.ContactRecord{
		Name:     "Bob Stone",
		Phone:    "5551234567",
		LinkedIn: "https://www.linkedin.com/in/bob-stone/",
		Source:   "https://x.com/team",
	}
	if got[0] != want {
		t.Errorf("Associate() = %+v, want %+v", got[0], want)
	}
	if len(phones) != 1 || len(linkedin) != 1 {
		t.Error("Associate() must not modify its inputs")
	}
}

func TestAssociateUngrouped(t *testing.T) {
	t.Parallel()

	doc := parse(t, `<p>nothing grouped here</p>`)
	got := Associate(doc, "https://x.com/", "",
		[]string{"john.smith@co.com", "info@co.com", "john.smith@co.com"},
		[]string{"+1 202-456-1111"},
		[]string{"https://www.linkedin.com/in/jane-doe", "https://www.linkedin.com/company/acme"},
	)

	want := []model.ContactRecord{
		{Name: "John Smith", Email: "john.smith@co.com", Source: "https://x.com/"},
		{Email: "info@co.com", Source: "https://x.com/"},
		{Phone: "+1 202-456-1111", Source: "https://x.com/"},
		{Name: "Jane Doe", LinkedIn: "https://www.linkedin.com/in/jane-doe", Source: "https://x.com/"},
		{LinkedIn: "https://www.linkedin.com/company/acme", Source: "https://x.com/"},
	}
	if len(got) != len(want) {
		t.Fatalf("Associate() returned %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGuessNameFromEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		want  string
	}{
		{"john.smith@co.com", "John Smith"},
		{"JANE.DOE@co.com", "Jane Doe"},
		{"info@co.com", ""},
		{"j.r.smith@co.com", ""},
		{"john.smith2@co.com", ""},
		{"john_smith@co.com", ""},
		{"john.@co.com", ""},
		{"not-an-email", ""},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			t.Parallel()
			if got := GuessNameFromEmail(tt.email); got != tt.want {
				t.Errorf("GuessNameFromEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestGuessNameFromLinkedIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.linkedin.com/in/jane-doe", "Jane Doe"},
		{"https://linkedin.com/in/john-smith-42/", "John Smith 42"},
		{"https://www.linkedin.com/in/acme-company-page", ""},
		{"https://www.linkedin.com/in/my-profile", ""},
		{"https://www.linkedin.com/company/acme", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := GuessNameFromLinkedIn(tt.url); got != tt.want {
				t.Errorf("GuessNameFromLinkedIn(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}
