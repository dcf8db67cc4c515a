// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package download writes deposit files to local storage. Files are
// fetched sequentially, written flat into the target directory, and
// overwrite existing files of the same name. There is no resumption and
// no checksum verification; partial state is left on disk when a fetch
// fails mid-run.
package download

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/clld/cldfzenodo/internal/zenodo"
	"github.com/clld/cldfzenodo/pkg/types"
)

// IsDescriptor reports whether name follows the CLDF metadata descriptor
// convention ("metadata.json" or "*-metadata.json", e.g.
// "Wordlist-metadata.json").
func IsDescriptor(name string) bool {
	return name == "metadata.json" || strings.HasSuffix(name, "-metadata.json")
}

// isDatasetFile reports whether name is part of a CLDF dataset: the
// descriptor itself, or a data/sources file by extension.
func isDatasetFile(name string) bool {
	if IsDescriptor(name) {
		return true
	}
	switch filepath.Ext(name) {
	case ".csv", ".tsv", ".bib":
		return true
	}
	return false
}

// Deposit downloads every file in the record's manifest into dir, creating
// it if absent. Zip files are extracted in place; when the extraction
// leaves a single wrapping directory in a previously empty dir, its
// contents are moved up so the layout stays flat.
//
// Deposits made through the GitHub-Zenodo bridge are fetched as the
// release zip from GitHub instead, which avoids Zenodo's rate limiting.
func Deposit(ctx context.Context, api *zenodo.Client, rec *types.Record, dir string, cfg types.DownloadConfig, w io.Writer) error {
	rec, err := withManifest(ctx, api, rec)
	if err != nil {
		return err
	}
	if len(rec.Files) == 0 {
		return fmt.Errorf("deposit %s has no downloadable files: %w", rec.DOI, zenodo.ErrNotFound)
	}
	return fetchFiles(ctx, sourceFiles(rec), dir, cfg, w)
}

// sourceFiles returns what Deposit actually fetches: the GitHub release
// zip when the bridge metadata names one, otherwise the Zenodo manifest.
func sourceFiles(rec *types.Record) []types.DepositFile {
	if rec.Github != nil {
		if releaseURL := rec.Github.ReleaseURL(); releaseURL != "" {
			return []types.DepositFile{{Name: rec.Github.Tag + ".zip", URL: releaseURL}}
		}
	}
	return rec.Files
}

// Dataset downloads only the CLDF-recognizable files of the deposit and
// returns the path of the primary metadata descriptor. When the loose
// manifest files yield no descriptor but the manifest carries a zip, the
// whole deposit is downloaded and the extracted tree is scanned for a
// descriptor instead. ErrNotFound when the deposit contains nothing
// CLDF-recognizable.
func Dataset(ctx context.Context, api *zenodo.Client, rec *types.Record, dir string, cfg types.DownloadConfig, w io.Writer) (string, error) {
	rec, err := withManifest(ctx, api, rec)
	if err != nil {
		return "", err
	}

	var cldf []types.DepositFile
	hasZip := false
	for _, f := range rec.Files {
		if isDatasetFile(f.Name) {
			cldf = append(cldf, f)
		}
		if filepath.Ext(f.Name) == ".zip" {
			hasZip = true
		}
	}

	if len(cldf) > 0 {
		if err := fetchFiles(ctx, cldf, dir, cfg, w); err != nil {
			return "", err
		}
		for _, f := range cldf {
			if IsDescriptor(f.Name) {
				return filepath.Join(dir, f.Name), nil
			}
		}
		// Loose data files without a descriptor; the zip may still hold
		// the full dataset.
	}

	if hasZip {
		if err := Deposit(ctx, api, rec, dir, cfg, w); err != nil {
			return "", err
		}
		if p := findDescriptor(dir); p != "" {
			return p, nil
		}
	}
	return "", fmt.Errorf("deposit %s has no CLDF dataset: %w", rec.DOI, zenodo.ErrNotFound)
}

// withManifest returns rec, re-resolving it by DOI when it carries no file
// manifest (records harvested over OAI-PMH).
func withManifest(ctx context.Context, api *zenodo.Client, rec *types.Record) (*types.Record, error) {
	if len(rec.Files) > 0 {
		return rec, nil
	}
	full, err := api.GetRecord(ctx, rec.DOI)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest for %s: %w", rec.DOI, err)
	}
	return full, nil
}

// fetchFiles downloads files sequentially into dir.
func fetchFiles(ctx context.Context, files []types.DepositFile, dir string, cfg types.DownloadConfig, w io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	wasEmpty := dirIsEmpty(dir)

	client := &http.Client{Timeout: cfg.Timeout}
	for i, f := range files {
		if i > 0 && cfg.Delay > 0 {
			time.Sleep(cfg.Delay)
		}
		fmt.Fprintf(w, "downloading: %s (%d bytes)\n", f.Name, f.Size)
		if err := fetchFile(ctx, client, f, dir, cfg); err != nil {
			return err
		}
	}

	if wasEmpty {
		flattenSingleDir(dir)
	}
	return nil
}

// fetchFile downloads one file. Zips are extracted into dir; everything
// else is written via a temp file and renamed into place, replacing any
// existing file of the same name.
func fetchFile(ctx context.Context, client *http.Client, f types.DepositFile, dir string, cfg types.DownloadConfig) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: fetching %s: %v", zenodo.ErrNetwork, f.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: HTTP %d fetching %s", zenodo.ErrNetwork, resp.StatusCode, f.Name)
	}

	if filepath.Ext(f.Name) == ".zip" {
		return extractZip(resp.Body, dir)
	}

	tmpFile, err := os.CreateTemp(dir, ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: reading %s: %v", zenodo.ErrNetwork, f.Name, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, f.Name)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", f.Name, err)
	}
	return nil
}

// extractZip reads the whole archive and extracts it under dir.
func extractZip(r io.Reader, dir string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: reading zip: %v", zenodo.ErrNetwork, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	for _, zf := range zr.File {
		// Reject entries escaping the target directory.
		dest := filepath.Join(dir, filepath.FromSlash(zf.Name))
		if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q outside target directory", zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dest, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
		}
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("opening zip entry %s: %w", zf.Name, err)
		}
		out, err := os.Create(dest)
		if err != nil {
			rc.Close()
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		_, copyErr := io.Copy(out, rc)
		rc.Close()
		if closeErr := out.Close(); copyErr == nil {
			copyErr = closeErr
		}
		if copyErr != nil {
			return fmt.Errorf("writing %s: %w", dest, copyErr)
		}
	}
	return nil
}

// flattenSingleDir moves the contents of a lone wrapping directory up into
// dir, the layout GitHub release zips produce.
func flattenSingleDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return
	}
	inner := filepath.Join(dir, entries[0].Name())
	innerEntries, err := os.ReadDir(inner)
	if err != nil {
		return
	}
	for _, e := range innerEntries {
		os.Rename(filepath.Join(inner, e.Name()), filepath.Join(dir, e.Name()))
	}
	os.Remove(inner)
}

// findDescriptor scans dir recursively for a CLDF metadata descriptor.
func findDescriptor(dir string) string {
	var found string
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || found != "" {
			return err
		}
		if IsDescriptor(filepath.Base(path)) {
			found = path
		}
		return nil
	})
	return found
}

func dirIsEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) == 0
}
