/*
Package tabular moves payroll tables in and out of CSV and XLSX.

PURPOSE:
  Every persisted table and every bulk upload/download goes through a Table:
  a normalized header plus string cells. Entity codecs turn Tables into
  generic records and back using the exact column sets below.

HEADERS:
  Upload headers are trimmed, lower-cased and have spaces replaced by
  underscores, so "Pf Applicable" and "pf_applicable" are the same column.
  Unrecognized columns are ignored by the codecs; missing ones read as empty.
  Stores that rewrite a table carry unrecognized columns through themselves.

LENIENCY:
  Coercion of messy input lives only here (see parse.go). A bad number
  becomes 0 and a bad flag becomes false; neither is ever an error.

SEE ALSO:
  - columns.go: Column sets
  - codec.go:   Entity encoders/decoders
  - io.go:      CSV and XLSX readers/writers
*/
package tabular

import "strings"

// Table is a header row plus data rows. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

func NewTable(header []string) *Table {
	t := &Table{Header: make([]string, len(header))}
	for i, h := range header {
		t.Header[i] = NormalizeHeader(h)
	}
	t.reindex()
	return t
}

// NormalizeHeader maps " Basic Salary " to "basic_salary".
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
}

// Append adds a data row.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

func (t *Table) Has(column string) bool {
	if t.index == nil {
		t.reindex()
	}
	_, ok := t.index[column]
	return ok
}

func (t *Table) Len() int { return len(t.Rows) }

// Row returns an accessor for data row i.
func (t *Table) Row(i int) Row {
	if t.index == nil {
		t.reindex()
	}
	return Row{table: t, values: t.Rows[i]}
}

// Row reads cells by column name.
type Row struct {
	table  *Table
	values []string
}

// Get returns the trimmed cell, or "" when the column is absent or the
// row is short.
func (r Row) Get(column string) string {
	i, ok := r.table.index[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r Row) Has(column string) bool { return r.table.Has(column) }

// Blank reports whether every cell is empty.
func (r Row) Blank() bool {
	for _, v := range r.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
