package pipeline

import (
	"bytes"
	"encoding/csv"
)

// Export column orders are fixed so downstream spreadsheets and re-imports
// can rely on them.
var (
	// ContactExportHeader is the comma-delimited contact export layout.
	ContactExportHeader = []string{"Nome", "Email", "Telefone", "País", "Estado", "Cidade", "Website", "Profissão", "Ramo"}

	// ExtractionExportHeader is the semicolon-delimited extraction layout.
	ExtractionExportHeader = []string{"email", "name", "country", "state", "city", "website", "profession", "branch"}

	// OptOutExportHeader is the opt-out list export layout.
	OptOutExportHeader = []string{"email", "type"}
)

// WriteDelimited renders a header plus data rows as a delimited blob,
// prefixed with a UTF-8 byte-order mark so spreadsheet applications pick
// the right encoding.
func WriteDelimited(header []string, rows [][]string, comma rune) []byte {
	var buf bytes.Buffer
	buf.WriteString(byteOrderMark)

	w := csv.NewWriter(&buf)
	w.Comma = comma
	_ = w.Write(header)
	for _, row := range rows {
		_ = w.Write(row)
	}
	w.Flush()

	return buf.Bytes()
}

// ExtractionRows lays records out in the extraction export column order.
func ExtractionRows(records []Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Email,
			rec.Name,
			rec.Country,
			rec.State,
			rec.City,
			rec.Website,
			rec.Profession,
			rec.Branch,
		})
	}
	return rows
}
