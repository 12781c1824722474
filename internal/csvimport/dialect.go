package csvimport

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"io/fs"

	"github.com/banshee-data/trackcsv/internal/fsutil"
)

// Dialect fixes the delimiter, comment marker and header presence of one
// file flavour. Quoting is always RFC 4180 double quotes.
type Dialect struct {
	Comma   rune
	Comment rune
	// Header marks the first record as a header to be skipped by row scans.
	Header bool
}

var (
	// PointDialect is the comma-separated point table with a header row.
	PointDialect = Dialect{Comma: ',', Comment: '#', Header: true}

	// PolygonDialect is the semicolon-separated outline table, headerless
	// unless configured otherwise.
	PolygonDialect = Dialect{Comma: ';', Comment: '#'}
)

func (d Dialect) newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.Comma = d.Comma
	cr.Comment = d.Comment
	cr.FieldsPerRecord = -1
	return cr
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// scanFile is one independent read pass over a source file with any
// leading byte order mark removed and the leading comment block unindented.
type scanFile struct {
	io.Reader
	f fs.File
}

func (s *scanFile) Close() error { return s.f.Close() }

func openScan(fsys fsutil.FileSystem, path string) (*scanFile, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fileError(path, err)
	}
	br := bufio.NewReaderSize(f, 64*1024)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return &scanFile{Reader: &leadingComments{br: br}, f: f}, nil
}

// leadingComments strips spaces and tabs in front of the "#" of each line
// in the leading comment block, so the csv reader skips the same lines the
// metadata scan reads. Everything from the first other line on passes
// through untouched.
type leadingComments struct {
	br      *bufio.Reader
	pending []byte
	done    bool
}

func (l *leadingComments) Read(p []byte) (int, error) {
	for len(l.pending) == 0 {
		if l.done {
			return l.br.Read(p)
		}
		line, err := l.br.ReadBytes('\n')
		if trimmed := bytes.TrimLeft(line, " \t"); len(trimmed) > 0 && trimmed[0] == '#' {
			l.pending = trimmed
		} else {
			l.pending = line
			l.done = true
		}
		if err != nil {
			l.done = true
			if len(l.pending) == 0 {
				return 0, err
			}
		}
	}
	n := copy(p, l.pending)
	l.pending = l.pending[n:]
	return n, nil
}
