package testutil

import (
	"net/http"
	"os"
	"testing"
)

func TestAssertStatusCode(t *testing.T) {
	t.Parallel()
	AssertStatusCode(t, http.StatusOK, http.StatusOK)
}

func TestAssertNoError(t *testing.T) {
	t.Parallel()
	AssertNoError(t, nil)
	AssertError(t, os.ErrNotExist)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()
	path := WriteFile(t, "a.csv", "x,y", "1,2")
	got, err := os.ReadFile(path)
	AssertNoError(t, err)
	if string(got) != "x,y\n1,2\n" {
		t.Errorf("contents = %q", got)
	}
}

func TestNewTestRequest(t *testing.T) {
	t.Parallel()
	req := NewTestRequest(http.MethodGet, "/projects")
	if req.URL.Path != "/projects" {
		t.Errorf("path = %q", req.URL.Path)
	}
	rec := NewTestRecorder()
	rec.WriteHeader(http.StatusTeapot)
	AssertStatusCode(t, rec.Code, http.StatusTeapot)
}
