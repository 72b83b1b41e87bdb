// Package record splits delimited text into header-addressed rows.
//
// The format is a simplified comma separated layout: a double quote toggles
// quoted mode, in which commas are literal. Quote characters are dropped and
// cannot be escaped, so a quoted field can never contain a literal quote.
package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	delimiter = ','
	quote     = '"'
	bom       = "\ufeff"
)

// IDColumns are the recognised names of the identifying column, in lookup order.
var IDColumns = []string{"image", "path"}

// SplitLine splits one line into its field values.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == quote:
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

// Header maps lower-cased, trimmed column names to column indexes.
type Header struct {
	names   []string
	columns map[string]int
	id      int
}

// NewHeader builds a header from split header fields. The first name
// present in IDColumns marks the identifying column, column 0 otherwise.
func NewHeader(fields []string) *Header {
	h := &Header{
		names:   make([]string, len(fields)),
		columns: make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f))
		h.names[i] = name
		if _, dup := h.columns[name]; !dup {
			h.columns[name] = i
		}
	}
	for _, name := range IDColumns {
		if i, ok := h.columns[name]; ok {
			h.id = i
			break
		}
	}
	return h
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}

// Names returns the normalised column names in order.
func (h *Header) Names() []string {
	return append([]string(nil), h.names...)
}

// Index returns the column index of name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.columns[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// Row is one data line, padded to the header width.
type Row struct {
	header *Header
	fields []string
}

// NewRow pads fields with empty values up to the header width.
func NewRow(h *Header, fields []string) Row {
	if len(fields) < h.Len() {
		padded := make([]string, h.Len())
		copy(padded, fields)
		fields = padded
	}
	return Row{header: h, fields: fields}
}

// Field returns the named column value, or "" when the column is absent.
func (r Row) Field(name string) string {
	i, ok := r.header.Index(name)
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

// ID returns the identifying column value.
func (r Row) ID() string {
	if r.header.id >= len(r.fields) {
		return ""
	}
	return r.fields[r.header.id]
}

// Values returns a copy of the raw field values.
func (r Row) Values() []string {
	return append([]string(nil), r.fields...)
}

// Table is a parsed header with its data rows.
type Table struct {
	Header *Header
	Rows   []Row
}

// Parse reads a header line followed by data lines. Blank lines are skipped.
// Lines have no length limit. Only read failures are reported; short rows are
// padded, never rejected.
func Parse(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)

	t := &Table{Header: NewHeader(nil)}
	first := true
	for {
		raw, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read records: %w", err)
		}

		line := strings.TrimRight(raw, "\r\n")
		if first {
			line = strings.TrimPrefix(line, bom)
		}
		switch {
		case strings.TrimSpace(line) == "":
		case first:
			t.Header = NewHeader(SplitLine(line))
			first = false
		default:
			t.Rows = append(t.Rows, NewRow(t.Header, SplitLine(line)))
		}

		if err == io.EOF {
			return t, nil
		}
	}
}

// ParseString is Parse over an in-memory document.
func ParseString(doc string) (*Table, error) {
	return Parse(strings.NewReader(doc))
}
