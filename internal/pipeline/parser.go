// Package pipeline implements the list-sanitization pipeline that turns
// loosely structured delimited text into deduplicated, suppression-filtered
// contact records: parsing, column mapping, email classification, name
// extraction and batch screening.
package pipeline

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var (
	// ErrEmptyInput signals that the input contained no parsable rows.
	ErrEmptyInput = errors.New("input contains no data")

	// ErrUndecodableInput signals that the input bytes are neither valid
	// UTF-8 nor decodable as Latin-1.
	ErrUndecodableInput = errors.New("input could not be decoded as UTF-8 or Latin-1")

	// ErrEmailNotMapped signals that no source column is mapped to the
	// email field, which every batch requires.
	ErrEmailNotMapped = errors.New("no column is mapped to email")
)

const byteOrderMark = "\ufeff"

// Delimiter separates columns in uploaded and pasted lists.
const Delimiter = ";"

// Row holds one source line keyed by the verbatim header names.
type Row map[string]string

// Table is the parsed representation of a delimited input: the header list
// in file column order plus one Row per data line.
type Table struct {
	Headers []string
	Rows    []Row
}

// DecodeText converts raw file bytes to a string. Valid UTF-8 is used as-is;
// anything else falls back to a Latin-1 decode so that legacy spreadsheet
// exports still import.
func DecodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return strings.TrimPrefix(string(raw), byteOrderMark), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", ErrUndecodableInput
	}
	return string(decoded), nil
}

// Parse splits text into a header line and positional data rows. Blank lines
// are discarded, rows shorter than the header are padded with empty strings
// and extra cells are ignored. Parsing is a pure function of its input.
func Parse(text string) (*Table, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	headers := splitCells(lines[0])
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		rows = append(rows, zipRow(headers, splitCells(line)))
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

// ParseHeadless treats every line as data and zips cells against the given
// header names. Used for inputs that carry no header row, such as plain
// email lists fed to the extractor.
func ParseHeadless(text string, headers []string) (*Table, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}

	rows := make([]Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, zipRow(headers, splitCells(line)))
	}

	return &Table{Headers: headers, Rows: rows}, nil
}

func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func splitCells(line string) []string {
	cells := strings.Split(line, Delimiter)
	for i, cell := range cells {
		cells[i] = strings.TrimSpace(cell)
	}
	return cells
}

func zipRow(headers, values []string) Row {
	row := make(Row, len(headers))
	for i, header := range headers {
		if i < len(values) {
			row[header] = values[i]
		} else {
			row[header] = ""
		}
	}
	return row
}
