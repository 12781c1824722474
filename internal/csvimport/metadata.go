package csvimport

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/banshee-data/trackcsv/internal/fsutil"
)

// Metadata holds key/value pairs from a file's leading comment block.
type Metadata map[string]string

// ReadMetadata scans leading "#" lines for "key,value" pairs and stops at
// the first line that is not a comment. Lines with fewer than two fields
// are ignored; for repeated keys the last value wins.
func ReadMetadata(r io.Reader) (Metadata, error) {
	md := Metadata{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "#") {
			break
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSpace(strings.TrimLeft(fields[0], "#"))
		md[key] = strings.TrimSpace(fields[1])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return md, nil
}

// ParseMetadataFile opens path and reads its metadata block.
func ParseMetadataFile(fsys fsutil.FileSystem, path string) (Metadata, error) {
	f, err := openScan(fsys, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	md, err := ReadMetadata(f)
	if err != nil {
		return nil, fileError(path, err)
	}
	return md, nil
}

// Keys returns the metadata keys in sorted order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m Metadata) String() string {
	var b strings.Builder
	for _, k := range m.Keys() {
		fmt.Fprintf(&b, " - %s = %s\n", k, m[k])
	}
	return b.String()
}
