package model

// ContactType identifies the channel of a ResultRow.
// The string values are what reports display and what rows sort on.
type ContactType string

const (
	// ContactTypeEmail is an email address.
	ContactTypeEmail ContactType = "Email"
	// ContactTypeLinkedIn is a LinkedIn profile or company URL.
	ContactTypeLinkedIn ContactType = "LinkedIn"
	// ContactTypePhone is a phone number.
	ContactTypePhone ContactType = "Phone"
)

// String returns the display name of the contact type.
func (t ContactType) String() string {
	return string(t)
}

// ContactRecord is one associated bundle of contact information found on a page.
// Empty strings mean "absent". A record always carries at least one channel
// (email, phone or linkedin); use PartialContact.Build to create one.
type ContactRecord struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Title    string `json:"title,omitempty"`
	Source   string `json:"source"`
}

// HasChannel reports whether the record carries an email, phone or LinkedIn URL.
func (c ContactRecord) HasChannel() bool {
	return c.Email != "" || c.Phone != "" || c.LinkedIn != ""
}

// PartialContact accumulates the pieces of a contact as they are discovered.
// Each field keeps the first non-empty value it is given, so evidence can be
// merged progressively in priority order.
type PartialContact struct {
	rec ContactRecord
}

// NewPartialContact starts a contact found on the page at source.
func NewPartialContact(source string) *PartialContact {
	return &PartialContact{rec: ContactRecord{Source: source}}
}

// WithName sets the name unless one is already present.
func (p *PartialContact) WithName(name string) *PartialContact {
	setOnce(&p.rec.Name, name)
	return p
}

// WithEmail sets the email unless one is already present.
func (p *PartialContact) WithEmail(email string) *PartialContact {
	setOnce(&p.rec.Email, email)
	return p
}

// WithPhone sets the phone number unless one is already present.
func (p *PartialContact) WithPhone(phone string) *PartialContact {
	setOnce(&p.rec.Phone, phone)
	return p
}

// WithLinkedIn sets the LinkedIn URL unless one is already present.
func (p *PartialContact) WithLinkedIn(url string) *PartialContact {
	setOnce(&p.rec.LinkedIn, url)
	return p
}

// WithTitle sets the job title unless one is already present.
func (p *PartialContact) WithTitle(title string) *PartialContact {
	setOnce(&p.rec.Title, title)
	return p
}

// Merge folds the fields of other into p without overwriting existing values.
func (p *PartialContact) Merge(other *PartialContact) *PartialContact {
	if other == nil {
		return p
	}
	return p.WithName(other.rec.Name).
		WithEmail(other.rec.Email).
		WithPhone(other.rec.Phone).
		WithLinkedIn(other.rec.LinkedIn).
		WithTitle(other.rec.Title)
}

// Build promotes the partial contact to a ContactRecord.
// It returns false when no contact channel is present.
func (p *PartialContact) Build() (ContactRecord, bool) {
	if !p.rec.HasChannel() {
		return ContactRecord{}, false
	}
	return p.rec, true
}

func setOnce(field *string, value string) {
	if *field == "" && value != "" {
		*field = value
	}
}
