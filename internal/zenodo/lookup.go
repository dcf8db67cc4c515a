// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/clld/cldfzenodo/pkg/types"
)

// GetRecord resolves a single deposit version by its DOI (plain or as a
// doi.org URL). ErrNotFound when the DOI resolves to nothing.
func (c *Client) GetRecord(ctx context.Context, doi string) (*types.Record, error) {
	doi = ParseDOI(doi)
	rec, err := c.firstRecord(ctx, url.Values{
		"q":           {Query("doi", doi)},
		"allversions": {"true"},
	})
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", doi, err)
	}
	return rec, nil
}

// GetVersion resolves a deposit version through its concept DOI. An empty
// version tag selects the most recently published version; otherwise the
// tag must match exactly, with any leading "v" stripped from both sides.
// ErrNotFound when no version matches.
func (c *Client) GetVersion(ctx context.Context, conceptDOI, version string) (*types.Record, error) {
	conceptDOI = ParseDOI(conceptDOI)

	if version == "" {
		rec, err := c.firstRecord(ctx, url.Values{
			"q": {Query("conceptdoi", conceptDOI)},
		})
		if err != nil {
			return nil, fmt.Errorf("concept %s: %w", conceptDOI, err)
		}
		return rec, nil
	}

	want := strings.TrimPrefix(version, "v")
	it := c.IterVersions(ctx, conceptDOI)
	for it.Next() {
		if it.Record().VersionTag() == want {
			return it.Record(), nil
		}
	}
	if err := it.Err(); err != nil {
		return nil, fmt.Errorf("concept %s: %w", conceptDOI, err)
	}
	return nil, fmt.Errorf("concept %s version %q: %w", conceptDOI, version, ErrNotFound)
}

// IterVersions returns a cursor over all versions recorded for a concept
// DOI, most recent first.
func (c *Client) IterVersions(ctx context.Context, conceptDOI string) *Cursor {
	return c.Search(ctx, Query("conceptdoi", ParseDOI(conceptDOI)), true)
}

// firstRecord runs a records query and normalizes the first hit.
func (c *Client) firstRecord(ctx context.Context, params url.Values) (*types.Record, error) {
	var sr searchResponse
	if err := c.get(ctx, "records", params, &sr); err != nil {
		return nil, err
	}
	if len(sr.Hits.Hits) == 0 {
		return nil, ErrNotFound
	}
	return normalize(sr.Hits.Hits[0])
}
