package csvimport

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/trackcsv/internal/model"
)

// RowDecoder turns one parsed record into a spot. Decoders are selected by
// file format and share the scan, bucketing and track stages.
type RowDecoder interface {
	// Dialect is the file flavour the decoder expects.
	Dialect() Dialect
	// Decode builds a spot from one record. Errors are row-local.
	Decode(record []string) (Decoded, error)
}

// Decoded is the outcome of decoding one row.
type Decoded struct {
	Spot *model.Spot
	// TrackID is only meaningful when HasTrack is set.
	TrackID  int
	HasTrack bool
}

func field(rec []string, idx int, role Role) (string, error) {
	if idx >= len(rec) {
		return "", fmt.Errorf("%s (column %d): %w", role, idx, ErrMissingValue)
	}
	v := strings.TrimSpace(rec[idx])
	if v == "" {
		return "", fmt.Errorf("%s (column %d): %w", role, idx, ErrMissingValue)
	}
	return v, nil
}

func parseFloat(rec []string, idx int, role Role) (float64, error) {
	s, err := field(rec, idx, role)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: malformed number %q: %w", role, s, err)
	}
	return v, nil
}

func parseInt(rec []string, idx int, role Role) (int, error) {
	s, err := field(rec, idx, role)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: malformed integer %q: %w", role, s, err)
	}
	return v, nil
}
