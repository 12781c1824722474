// Package testutil provides shared test helpers and CSV fixtures.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// NewTestRequest creates a test HTTP request.
func NewTestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

// NewTestRecorder creates a test response recorder.
func NewTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}

// WriteFile writes content under a fresh temp dir and returns its path.
// Lines may be given pre-joined or as separate arguments.
func WriteFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := strings.Join(lines, "\n")
	if len(lines) > 1 || (len(lines) == 1 && !strings.HasSuffix(content, "\n")) {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// TwoTrackCSV holds two tracks of two spots each, with a metadata block.
var TwoTrackCSV = []string{
	"# instrument, microscope A",
	"# operator, jdoe",
	"x,y,z,frame,track",
	"1,1,0,0,7",
	"2,1,0,1,7",
	"5,5,0,0,8",
	"5,6,0,1,8",
}

// MalformedRowCSV has one row with an unparseable x value.
var MalformedRowCSV = []string{
	"x,y,frame,track",
	"1,1,0,1",
	"abc,1,1,1",
	"3,3,2,1",
}

// PolygonCSV describes one triangle and one square outline.
var PolygonCSV = []string{
	"cellA;0;0;0;4;0;0;3",
	"cellB;2;0;0;10;0;10;10;0;10",
}
