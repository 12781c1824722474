package csvimport

import (
	"bytes"
	"errors"
	"io"

	"github.com/banshee-data/trackcsv/internal/fsutil"
)

// CountLines counts newline-terminated lines in r, plus a final line that
// lacks a terminator.
func CountLines(r io.Reader) (int, error) {
	buf := make([]byte, 32*1024)
	n := 0
	last := byte('\n')
	for {
		c, err := r.Read(buf)
		if c > 0 {
			n += bytes.Count(buf[:c], []byte{'\n'})
			last = buf[c-1]
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, err
		}
	}
	if last != '\n' {
		n++
	}
	return n, nil
}

func countFileLines(fsys fsutil.FileSystem, path string) (int, error) {
	f, err := openScan(fsys, path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	n, err := CountLines(f)
	if err != nil {
		return 0, fileError(path, err)
	}
	return n, nil
}
