package model

// ResultRow is one flattened output line: a single contact channel of a
// ContactRecord. After aggregation no two rows share (ContactType, Value).
//
// The JSON and CSV column names match the spreadsheet headers.
type ResultRow struct {
	ContactType ContactType `json:"Contact Type" csv:"Contact Type"` //nolint:tagliatelle // spreadsheet header
	Value       string      `json:"Value" csv:"Value"`               //nolint:tagliatelle // spreadsheet header
	Name        string      `json:"Name" csv:"Name"`                 //nolint:tagliatelle // spreadsheet header
	JobTitle    string      `json:"Job Title" csv:"Job Title"`       //nolint:tagliatelle // spreadsheet header
	SourceURL   string      `json:"Source URL" csv:"Source URL"`     //nolint:tagliatelle // spreadsheet header
}

// Key returns the dedup key of the row.
func (r ResultRow) Key() string {
	return string(r.ContactType) + "\x00" + r.Value
}

// RowHeaders are the column names used by tabular writers.
var RowHeaders = []string{"Contact Type", "Value", "Name", "Job Title", "Source URL"}

// Cells returns the row's values in RowHeaders order.
func (r ResultRow) Cells() []string {
	return []string{string(r.ContactType), r.Value, r.Name, r.JobTitle, r.SourceURL}
}
