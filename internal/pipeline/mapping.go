package pipeline

import "strings"

// Field is a canonical contact attribute that source columns map onto.
type Field string

const (
	FieldEmail      Field = "email"
	FieldName       Field = "name"
	FieldPhone      Field = "phone"
	FieldCountry    Field = "country"
	FieldState      Field = "state"
	FieldCity       Field = "city"
	FieldWebsite    Field = "website"
	FieldProfession Field = "profession"
	FieldBranch     Field = "branch"
)

// Fields lists the canonical attributes in matching priority order.
var Fields = []Field{
	FieldEmail,
	FieldName,
	FieldPhone,
	FieldCountry,
	FieldState,
	FieldCity,
	FieldWebsite,
	FieldProfession,
	FieldBranch,
}

// Mapping associates verbatim source headers with canonical fields. Headers
// without an association are left out of the batch entirely.
type Mapping map[string]Field

// DefaultMapping guesses an association for each header by lower-cased
// substring match against the canonical field keys, first match winning.
// The result is advisory; callers may override any entry before running
// the batch.
func DefaultMapping(headers []string) Mapping {
	mapping := make(Mapping, len(headers))
	for _, header := range headers {
		normalized := strings.ToLower(header)
		for _, field := range Fields {
			if strings.Contains(normalized, string(field)) {
				mapping[header] = field
				break
			}
		}
	}
	return mapping
}

// EmailHeader returns the first header, in file column order, that is mapped
// to the email field. Every batch needs exactly one before extraction runs.
func (m Mapping) EmailHeader(headers []string) (string, bool) {
	for _, header := range headers {
		if m[header] == FieldEmail {
			return header, true
		}
	}
	return "", false
}

// Record is one prospective contact assembled from a source row. Empty
// strings mean the source carried no value; null substitution happens at
// the persistence boundary.
type Record struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Website    string `json:"website"`
	Profession string `json:"profession"`
	Branch     string `json:"branch"`
}

// Set assigns the value of a canonical field.
func (r *Record) Set(field Field, value string) {
	switch field {
	case FieldEmail:
		r.Email = value
	case FieldName:
		r.Name = value
	case FieldPhone:
		r.Phone = value
	case FieldCountry:
		r.Country = value
	case FieldState:
		r.State = value
	case FieldCity:
		r.City = value
	case FieldWebsite:
		r.Website = value
	case FieldProfession:
		r.Profession = value
	case FieldBranch:
		r.Branch = value
	}
}

// Get reads the value of a canonical field.
func (r *Record) Get(field Field) string {
	switch field {
	case FieldEmail:
		return r.Email
	case FieldName:
		return r.Name
	case FieldPhone:
		return r.Phone
	case FieldCountry:
		return r.Country
	case FieldState:
		return r.State
	case FieldCity:
		return r.City
	case FieldWebsite:
		return r.Website
	case FieldProfession:
		return r.Profession
	case FieldBranch:
		return r.Branch
	}
	return ""
}

// FromRow combines a source row with a column mapping into a Record.
func FromRow(row Row, mapping Mapping) Record {
	var rec Record
	for header, field := range mapping {
		if value := strings.TrimSpace(row[header]); value != "" {
			rec.Set(field, value)
		}
	}
	return rec
}
