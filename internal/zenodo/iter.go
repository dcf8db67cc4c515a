// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import (
	"context"
	"net/url"
	"strconv"

	"github.com/clld/cldfzenodo/pkg/types"
)

// Cursor walks a paginated records listing one hit at a time, fetching
// pages on demand. Usage follows the sql.Rows pattern:
//
//	it := client.SearchKeyword(ctx, "cldf:Wordlist")
//	for it.Next() {
//		rec := it.Record()
//		...
//	}
//	if err := it.Err(); err != nil { ... }
//
// A Cursor is not restartable; each call to one of the Client iteration
// methods re-issues the listing from the start. Hits that fail to
// normalize are skipped so one malformed record cannot abort a bulk
// iteration.
type Cursor struct {
	client   *Client
	ctx      context.Context
	resource string
	params   url.Values

	page int
	buf  []recordHit
	cur  *types.Record
	err  error
	done bool
}

func newCursor(ctx context.Context, c *Client, resource string, params url.Values) *Cursor {
	if params == nil {
		params = url.Values{}
	}
	return &Cursor{client: c, ctx: ctx, resource: resource, params: params}
}

// Next advances to the next record, fetching the next result page when the
// current one is exhausted. It returns false when the listing ends or an
// error occurs; Err distinguishes the two.
func (it *Cursor) Next() bool {
	for {
		if it.err != nil {
			return false
		}
		if len(it.buf) == 0 {
			if it.done || !it.fetchPage() {
				return false
			}
		}
		h := it.buf[0]
		it.buf = it.buf[1:]

		rec, err := normalize(h)
		if err != nil {
			// Skip-and-continue: sparse upstream metadata must not end
			// the iteration.
			continue
		}
		it.cur = rec
		return true
	}
}

// Record returns the record produced by the last successful Next call.
func (it *Cursor) Record() *types.Record { return it.cur }

// Err returns the first error encountered during iteration, nil on normal
// exhaustion.
func (it *Cursor) Err() error { return it.err }

func (it *Cursor) fetchPage() bool {
	it.page++
	params := url.Values{}
	for k, vs := range it.params {
		params[k] = vs
	}
	params.Set("sort", "-mostrecent")
	params.Set("page", strconv.Itoa(it.page))
	params.Set("size", strconv.Itoa(it.client.cfg.PageSize))

	var sr searchResponse
	if err := it.client.get(it.ctx, it.resource, params, &sr); err != nil {
		it.err = err
		return false
	}
	it.buf = sr.Hits.Hits
	if len(sr.Hits.Hits) < it.client.cfg.PageSize {
		it.done = true
	}
	return len(it.buf) > 0
}

// Search returns a cursor over records matching a Zenodo search query
// (see the Query helper). With allVersions every deposit version is
// listed, otherwise only the latest per lineage.
func (c *Client) Search(ctx context.Context, query string, allVersions bool) *Cursor {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if allVersions {
		params.Set("allversions", "true")
	}
	return newCursor(ctx, c, "records", params)
}

// SearchKeyword returns a cursor over the latest versions of records
// carrying the given keyword.
func (c *Client) SearchKeyword(ctx context.Context, keyword string) *Cursor {
	return c.Search(ctx, Query("keywords", keyword), false)
}

// Community returns a cursor over the deposits registered in the named
// community, in the order the service returns them. An unknown community
// name yields ErrNotFound; a known community with no deposits yields an
// empty cursor.
func (c *Client) Community(ctx context.Context, name string) (*Cursor, error) {
	id, err := c.communityID(ctx, name)
	if err != nil {
		return nil, err
	}
	return newCursor(ctx, c, "communities/"+id+"/records", nil), nil
}
