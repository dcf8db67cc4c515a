// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clld/cldfzenodo/internal/zenodo"
	"github.com/clld/cldfzenodo/pkg/types"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name    string
		loc     string
		wantDOI string
		wantOK  bool
	}{
		{"plain DOI", "10.5281/zenodo.4762034", "10.5281/zenodo.4762034", true},
		{"doi.org URL", "https://doi.org/10.5281/zenodo.4762034", "10.5281/zenodo.4762034", true},
		{"record URL", "https://zenodo.org/record/4762034", "10.5281/zenodo.4762034", true},
		{"records URL", "https://zenodo.org/records/4762034", "10.5281/zenodo.4762034", true},
		{"non-Zenodo DOI", "10.1234/something.5", "", false},
		{"unrelated URL", "https://github.com/lexibank/petersonsouthasia", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doi, ok := Locate(tt.loc)
			if doi != tt.wantDOI || ok != tt.wantOK {
				t.Errorf("Locate(%q) = (%q, %v), want (%q, %v)",
					tt.loc, doi, ok, tt.wantDOI, tt.wantOK)
			}
		})
	}
}

func TestDatasetDeclinesUnmatchedLocator(t *testing.T) {
	// No network is touched for a locator that does not match.
	path, ok, err := Dataset(context.Background(), nil,
		"https://example.com/dataset", t.TempDir(), types.DownloadConfig{}, io.Discard)
	if path != "" || ok || err != nil {
		t.Errorf("Dataset() = (%q, %v, %v), want decline", path, ok, err)
	}
}

// resolveServer answers both the records API and file downloads: the
// version DOI resolves directly, the concept DOI only through the
// all-versions fallback.
func resolveServer(t *testing.T) *httptest.Server {
	t.Helper()
	var ts *httptest.Server
	ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/files/") {
			io.WriteString(w, "{}")
			return
		}
		hit := fmt.Sprintf(`{
			"doi": "10.5281/zenodo.4762034",
			"files": [{"key": "metadata.json", "size": 2, "links": {"self": %q}}]
		}`, ts.URL+"/files/metadata.json")
		switch r.URL.Query().Get("q") {
		case zenodo.Query("doi", "10.5281/zenodo.4762034"),
			zenodo.Query("conceptdoi", "10.5281/zenodo.4762033"):
			fmt.Fprintf(w, `{"hits": {"hits": [%s]}}`, hit)
		default:
			io.WriteString(w, `{"hits": {"hits": []}}`)
		}
	}))
	return ts
}

func TestDatasetFromLocator(t *testing.T) {
	ts := resolveServer(t)
	defer ts.Close()
	c := zenodo.NewClient(types.APIConfig{BaseURL: ts.URL})
	dir := t.TempDir()

	path, ok, err := Dataset(context.Background(), c,
		"https://doi.org/10.5281/zenodo.4762034", dir, types.DownloadConfig{}, io.Discard)
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}
	if !ok {
		t.Error("ok = false, want matched locator")
	}
	if path != filepath.Join(dir, "metadata.json") {
		t.Errorf("path = %q", path)
	}
}

func TestDatasetConceptDOIFallsBackToLatest(t *testing.T) {
	// A concept DOI is not a record, so the direct lookup misses and the
	// resolver retries as a version lineage.
	ts := resolveServer(t)
	defer ts.Close()
	c := zenodo.NewClient(types.APIConfig{BaseURL: ts.URL})
	dir := t.TempDir()

	path, ok, err := Dataset(context.Background(), c,
		"10.5281/zenodo.4762033", dir, types.DownloadConfig{}, io.Discard)
	if err != nil {
		t.Fatalf("Dataset() error = %v", err)
	}
	if !ok || path == "" {
		t.Errorf("Dataset() = (%q, %v), want a downloaded dataset", path, ok)
	}
}

func TestDatasetUnknownDOI(t *testing.T) {
	ts := resolveServer(t)
	defer ts.Close()
	c := zenodo.NewClient(types.APIConfig{BaseURL: ts.URL})

	_, ok, err := Dataset(context.Background(), c,
		"10.5281/zenodo.999999", t.TempDir(), types.DownloadConfig{}, io.Discard)
	if !ok {
		t.Error("ok = false, want matched locator")
	}
	if err == nil {
		t.Error("err = nil, want lookup failure")
	}
}
