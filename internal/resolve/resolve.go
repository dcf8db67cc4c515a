// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve matches dataset locator strings against the URL shapes
// that identify Zenodo deposits, for use by dataset-discovery frameworks
// that try a chain of resolvers. A locator that matches neither shape is
// declined, not an error.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/clld/cldfzenodo/internal/download"
	"github.com/clld/cldfzenodo/internal/zenodo"
	"github.com/clld/cldfzenodo/pkg/types"
)

// doiPattern matches a Zenodo DOI anywhere in a locator, covering plain
// DOIs and doi.org resolver URLs.
var doiPattern = regexp.MustCompile(`10\.5281/zenodo\.[0-9]+`)

// recordURLPattern matches direct record URLs: "zenodo.org/record/4762034"
// and the newer "zenodo.org/records/4762034".
var recordURLPattern = regexp.MustCompile(`zenodo\.org/records?/([0-9]+)`)

// Locate extracts the deposit DOI from a locator string. The second return
// value reports whether the locator matched a recognized shape.
func Locate(loc string) (string, bool) {
	if m := doiPattern.FindString(loc); m != "" {
		return m, true
	}
	if m := recordURLPattern.FindStringSubmatch(loc); m != nil {
		return types.DOIPrefix + m[1], true
	}
	return "", false
}

// Dataset resolves a locator to a deposit and downloads its CLDF dataset
// into dir, returning the descriptor path. A locator that does not match
// yields ("", false, nil) so the calling framework can try other
// resolvers. A DOI that identifies a concept rather than a single version
// falls back to the latest version of the lineage.
func Dataset(ctx context.Context, api *zenodo.Client, loc, dir string, cfg types.DownloadConfig, w io.Writer) (string, bool, error) {
	doi, ok := Locate(loc)
	if !ok {
		return "", false, nil
	}

	rec, err := api.GetRecord(ctx, doi)
	if errors.Is(err, zenodo.ErrNotFound) {
		rec, err = api.GetVersion(ctx, doi, "")
	}
	if err != nil {
		return "", true, fmt.Errorf("resolving %s: %w", doi, err)
	}

	path, err := download.Dataset(ctx, api, rec, dir, cfg, w)
	if err != nil {
		return "", true, err
	}
	return path, true, nil
}
