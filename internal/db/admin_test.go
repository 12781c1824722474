package db

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/banshee-data/trackcsv/internal/testutil"
)

func TestAttachAdminRoutes(t *testing.T) {
	db := openTestDB(t)
	mux := http.NewServeMux()
	testutil.AssertNoError(t, db.AttachAdminRoutes(mux))

	// tsweb may reject non-loopback callers with 403; only require that
	// each route is registered.
	for _, path := range []string{"/debug/tailsql/", "/debug/projects", "/debug/backup"} {
		rec := testutil.NewTestRecorder()
		mux.ServeHTTP(rec, testutil.NewTestRequest(http.MethodGet, path))
		if rec.Code == http.StatusNotFound {
			t.Errorf("GET %s = 404, want route registered", path)
		}
	}
}

func TestHandleProjects(t *testing.T) {
	db := openTestDB(t)

	rec := testutil.NewTestRecorder()
	db.handleProjects(rec, testutil.NewTestRequest(http.MethodGet, "/debug/projects"))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("empty store body = %q, want []", got)
	}

	testutil.AssertNoError(t, db.SaveProject(testProject("run-1", time.Unix(10, 0))))
	rec = httptest.NewRecorder()
	db.handleProjects(rec, httptest.NewRequest(http.MethodGet, "/debug/projects", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var got []ProjectSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d projects, want 1", len(got))
	}
	if got[0].RunID != "run-1" || got[0].Spots != 4 {
		t.Errorf("summary = %+v, want run-1 with 4 spots", got[0])
	}
}

func TestHandleBackup(t *testing.T) {
	db := openTestDB(t)
	testutil.AssertNoError(t, db.SaveProject(testProject("run-1", time.Unix(10, 0))))

	rec := httptest.NewRecorder()
	db.handleBackup(rec, httptest.NewRequest(http.MethodGet, "/debug/backup", nil))
	testutil.AssertStatusCode(t, rec.Code, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/gzip" {
		t.Errorf("Content-Type = %q, want application/gzip", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".db.gz") {
		t.Errorf("Content-Disposition = %q, want .db.gz filename", cd)
	}

	zr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if len(raw) <= 16 || string(raw[:16]) != "SQLite format 3\x00" {
		t.Errorf("backup does not start with the SQLite header")
	}
}
