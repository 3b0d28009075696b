// Package csvdata parses the dashboard's company table and serialises single
// records back out for export.
//
// The dialect is deliberately small: one record per physical line, comma
// separated, fields optionally wrapped in double quotes with "" as an escaped
// quote. Parsing never fails; malformed input yields fewer or emptier records.
package csvdata

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Record is one row keyed by column name. Column order follows the header.
// A Record is immutable once built.
type Record struct {
	columns []string
	values  map[string]string
}

// NewRecord pairs header names with row values. Missing trailing values are
// empty strings. A repeated header keeps its first position and its last value.
func NewRecord(headers, values []string) Record {
	r := Record{
		columns: make([]string, 0, len(headers)),
		values:  make(map[string]string, len(headers)),
	}
	for i, h := range headers {
		h = strings.TrimSpace(h)
		v := ""
		if i < len(values) {
			v = strings.TrimSpace(values[i])
		}
		if _, seen := r.values[h]; !seen {
			r.columns = append(r.columns, h)
		}
		r.values[h] = v
	}
	return r
}

// Get returns the value of column or "" when the column is absent.
func (r Record) Get(column string) string { return r.values[column] }

// Lookup returns the value of column and whether the column exists.
func (r Record) Lookup(column string) (string, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Columns returns the column names in header order.
func (r Record) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Len returns the number of columns.
func (r Record) Len() int { return len(r.columns) }

// Map returns a copy of the column -> value mapping.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the record as an object in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, c); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, r.values[c]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

// Parse splits text into records. Leading blank lines are ignored; the first
// remaining line is the header and every later non-blank line is a record.
// Input with no data line after the header yields no records.
func Parse(text string) []Record {
	lines := strings.Split(text, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) < 2 {
		return nil
	}

	headers := ParseLine(lines[0])
	var out []Record
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, NewRecord(headers, ParseLine(line)))
	}
	return out
}

// ParseLine tokenises one line. Quotes toggle the quoted state, "" inside a
// quoted field is a literal quote and commas split only outside quotes.
// Tokens are returned untrimmed.
func ParseLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if quoted && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
				continue
			}
			quoted = !quoted
		case c == ',' && !quoted:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	return append(fields, current.String())
}

// FromRows builds records from pre-tokenised rows such as spreadsheet cells,
// applying the same header, blank-row and trimming rules as Parse.
func FromRows(rows [][]string) []Record {
	for len(rows) > 0 && blankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) < 2 {
		return nil
	}

	headers := rows[0]
	var out []Record
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		out = append(out, NewRecord(headers, row))
	}
	return out
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ToJSON renders the record as an indented JSON object in column order.
func ToJSON(r Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// ToCSV renders a header line and one value line. Every field is quoted and
// embedded quotes are doubled so Parse reads the output back unchanged.
func ToCSV(r Record) string {
	var b strings.Builder
	for i, c := range r.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		writeQuoted(&b, c)
	}
	b.WriteByte('\n')
	for i, c := range r.columns {
		if i > 0 {
			b.WriteByte(',')
		}
		writeQuoted(&b, r.values[c])
	}
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}
