package version

import "testing"

func TestString(t *testing.T) {
	origV, origSHA, origTime := Version, GitSHA, BuildTime
	defer func() { Version, GitSHA, BuildTime = origV, origSHA, origTime }()

	Version, GitSHA, BuildTime = "1.2.3", "abc123", "2024-01-01"
	if got, want := String(), "trackcsv 1.2.3 (commit abc123, built 2024-01-01)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
