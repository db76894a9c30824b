package aggregate

import (
	"cmp"
	"slices"

	"github.com/nao1215/leadscan/internal/model"
)

// Rows flattens contacts into deduplicated, sorted result rows.
// It never returns nil; no contacts yields an empty slice.
func Rows(contacts []model.ContactRecord) []model.ResultRow {
	rows := make([]model.ResultRow, 0, len(contacts))
	seen := make(map[string]bool, len(contacts))

	add := func(row model.ResultRow) {
		if row.Value == "" || seen[row.Key()] {
			return
		}
		seen[row.Key()] = true
		rows = append(rows, row)
	}

	for _, c := range contacts {
		for _, ch := range channels(c) {
			add(model.ResultRow{
				ContactType: ch.kind,
				Value:       ch.value,
				Name:        c.Name,
				JobTitle:    c.Title,
				SourceURL:   c.Source,
			})
		}
	}

	slices.SortStableFunc(rows, func(a, b model.ResultRow) int {
		return cmp.Or(
			cmp.Compare(a.ContactType, b.ContactType),
			cmp.Compare(a.Name, b.Name),
		)
	})
	return rows
}

type channel struct {
	kind  model.ContactType
	value string
}

// channels lists the present channels of c in email, phone, LinkedIn order.
func channels(c model.ContactRecord) []channel {
	return []channel{
		{model.ContactTypeEmail, c.Email},
		{model.ContactTypePhone, c.Phone},
		{model.ContactTypeLinkedIn, c.LinkedIn},
	}
}

// Summarize counts rows per contact type. Page counters and the duration
// are left for the caller to fill in.
func Summarize(rows []model.ResultRow) model.Stats {
	var s model.Stats
	for _, r := range rows {
		switch r.ContactType {
		case model.ContactTypeEmail:
			s.Emails++
		case model.ContactTypePhone:
			s.Phones++
		case model.ContactTypeLinkedIn:
			s.LinkedIn++
		}
	}
	s.Total = len(rows)
	return s
}

// Diff is the difference between the rows of two runs.
type Diff struct {
	// Added are rows of the newer run missing from the older one.
	Added []model.ResultRow `json:"added"`
	// Removed are rows of the older run missing from the newer one.
	Removed []model.ResultRow `json:"removed"`
}

// HasChanges reports whether the runs differ.
func (d Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Compare diffs two row sets on (contact type, value).
func Compare(older, newer []model.ResultRow) Diff {
	oldKeys := keys(older)
	newKeys := keys(newer)

	d := Diff{Added: []model.ResultRow{}, Removed: []model.ResultRow{}}
	for _, r := range newer {
		if !oldKeys[r.Key()] {
			d.Added = append(d.Added, r)
		}
	}
	for _, r := range older {
		if !newKeys[r.Key()] {
			d.Removed = append(d.Removed, r)
		}
	}
	return d
}

func keys(rows []model.ResultRow) map[string]bool {
	m := make(map[string]bool, len(rows))
	for _, r := range rows {
		m[r.Key()] = true
	}
	return m
}
