package csvimport

import (
	"errors"
	"io"
	"strings"
	"unicode"
)

// Header is the resolved header row of a point table.
type Header struct {
	// Columns holds the cleaned name of each column by position. Columns
	// whose name cleans to "" stay addressable by index only.
	Columns []string
	index   map[string]int
}

// ReadHeader parses the first non-comment record of r as the header.
func ReadHeader(r io.Reader, d Dialect) (*Header, error) {
	rec, err := d.newReader(r).Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, err
	}
	return NewHeader(rec)
}

// NewHeader builds a Header from raw column names. Duplicate names resolve
// to their first occurrence.
func NewHeader(raw []string) (*Header, error) {
	h := &Header{
		Columns: make([]string, len(raw)),
		index:   make(map[string]int, len(raw)),
	}
	for i, name := range raw {
		name = cleanName(name)
		h.Columns[i] = name
		if name == "" {
			continue
		}
		if _, dup := h.index[name]; !dup {
			h.index[name] = i
		}
	}
	if len(h.index) == 0 {
		return nil, ErrMissingHeader
	}
	return h, nil
}

// cleanName trims a header name and drops control and format characters
// such as a byte order mark.
func cleanName(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.Is(unicode.C, r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// Names lists the non-empty column names in file order.
func (h *Header) Names() []string {
	names := make([]string, 0, len(h.Columns))
	for _, n := range h.Columns {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Index returns the position of the column with exactly this name.
func (h *Header) Index(name string) (int, bool) {
	i, ok := h.index[name]
	return i, ok
}

// Width is the number of columns in the header row.
func (h *Header) Width() int { return len(h.Columns) }
