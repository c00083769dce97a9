// Package csvsource reads delimited text files into an in-memory table
// of raw field strings, under a configurable delimiter, text encoding
// and header policy.
package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// delimiterNames maps the selectable delimiter names to their runes.
var delimiterNames = map[string]rune{
	"comma":     ',',
	"semicolon": ';',
	"tab":       '\t',
	"pipe":      '|',
	"space":     ' ',
}

// Delimiter resolves a delimiter spec: a known name (comma, semicolon,
// tab, pipe, space) or a single literal character.
func Delimiter(spec string) (rune, error) {
	if spec == "" {
		return ',', nil
	}
	if r, ok := delimiterNames[strings.ToLower(spec)]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return r, nil
	}
	return 0, fmt.Errorf("unknown delimiter %q", spec)
}

// Options control how a delimited file is read.
type Options struct {
	Delimiter rune   // field separator, comma when zero
	Encoding  string // IANA charset name, UTF-8 when empty
	HasHeader bool   // first row carries field names
}

// Table is a fully read delimited file: field names plus raw rows.
// Rows may be ragged; callers index defensively.
type Table struct {
	Header []string
	Rows   [][]string
}

// Open reads the delimited file at path.
func Open(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f, opts)
}

// Read reads delimited text from r. Non-UTF-8 encodings are decoded
// through the IANA charset registry.
func Read(r io.Reader, opts Options) (*Table, error) {
	if enc := opts.Encoding; enc != "" && !strings.EqualFold(enc, "UTF-8") {
		e, err := ianaindex.IANA.Encoding(enc)
		if err != nil || e == nil {
			return nil, fmt.Errorf("unsupported encoding %q", enc)
		}
		r = transform.NewReader(r, e.NewDecoder())
	}

	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty input")
	}

	t := &Table{}
	if opts.HasHeader {
		t.Header = recs[0]
		t.Rows = recs[1:]
	} else {
		t.Rows = recs
		width := 0
		for _, row := range recs {
			if len(row) > width {
				width = len(row)
			}
		}
		t.Header = make([]string, width)
		for i := range t.Header {
			t.Header[i] = "field_" + strconv.Itoa(i+1)
		}
	}

	return t, nil
}

// Preview returns up to n rows for display or format sniffing.
func (t *Table) Preview(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}

// ColumnIndex looks a column up by name, case-insensitive. Returns -1
// when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// ResolveColumn resolves a column spec, a header name or a zero-based
// numeric index, to a column index.
func (t *Table) ResolveColumn(spec string) (int, error) {
	if spec == "" {
		return -1, errors.New("no column specified")
	}
	if i := t.ColumnIndex(spec); i >= 0 {
		return i, nil
	}
	if i, err := strconv.Atoi(spec); err == nil {
		if i < 0 || i >= len(t.Header) {
			return -1, fmt.Errorf("column index %d out of range", i)
		}
		return i, nil
	}
	return -1, fmt.Errorf("unknown column %q", spec)
}

// Samples collects up to n non-empty values from one column, for
// format detection and kind inference.
func (t *Table) Samples(col, n int) []string {
	var out []string
	for _, row := range t.Rows {
		if len(out) >= n {
			break
		}
		if col < len(row) && strings.TrimSpace(row[col]) != "" {
			out = append(out, row[col])
		}
	}
	return out
}
