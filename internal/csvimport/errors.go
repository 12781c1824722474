package csvimport

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrMissingHeader is returned when a file has no usable header row.
	ErrMissingHeader = errors.New("could not read the header: file has no header row")

	// ErrMissingFrame is returned for a polygon row without a frame field.
	ErrMissingFrame = errors.New("row has no frame field")

	// ErrMissingValue is returned when a mapped field is absent or blank.
	ErrMissingValue = errors.New("missing value")

	// ErrInsufficientVertices is returned for polygon rows with fewer than
	// three vertices.
	ErrInsufficientVertices = errors.New("insufficient polygon vertices")

	// ErrNegativeFrame is returned when a frame index is negative after the
	// configured index base is applied.
	ErrNegativeFrame = errors.New("negative frame index")
)

// MissingColumnError reports a mapped column that the header cannot supply.
// It aborts the import.
type MissingColumnError struct {
	Role   Role
	Column string
}

func (e *MissingColumnError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("no column mapped for mandatory role %s", e.Role)
	}
	return fmt.Sprintf("column %s for role %s not found in header", e.Column, e.Role)
}

// RowError is a recoverable failure confined to one data row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// fileError wraps an open or read failure with the message shown to users.
func fileError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file not found: %s: %w", path, err)
	}
	return fmt.Errorf("input/output error: %s: %w", path, err)
}
