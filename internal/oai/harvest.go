// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oai harvests Zenodo community feeds over OAI-PMH. Each community
// is exposed as the OAI set "user-<name>"; pagination uses resumption
// tokens, so iteration always restarts from the beginning of the feed.
package oai

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/clld/cldfzenodo/internal/zenodo"
	"github.com/clld/cldfzenodo/pkg/types"
)

const defaultBaseURL = "https://zenodo.org/oai2d"

// doiPattern finds a Zenodo DOI inside a Dublin Core identifier value,
// which may be plain, "doi:"-prefixed, or a doi.org URL.
var doiPattern = regexp.MustCompile(`10\.5281/zenodo\.[0-9]+`)

// closedAccessURI marks access-restricted deposits in dc:rights.
const closedAccessURI = "info:eu-repo/semantics/closedAccess"

// Client issues OAI-PMH requests.
type Client struct {
	httpClient *http.Client
	cfg        types.OAIConfig
}

// NewClient returns a Client for the given configuration.
func NewClient(cfg types.OAIConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// Harvest returns a cursor over the deposits of the named community, in
// the order the feed returns them. A community with no deposits yields an
// empty cursor, not an error.
func (c *Client) Harvest(ctx context.Context, community string) *Cursor {
	return &Cursor{client: c, ctx: ctx, set: "user-" + community}
}

// Cursor walks an OAI-PMH ListRecords response set. Same usage pattern as
// the records cursor in the zenodo package: Next, Record, Err. Records the
// feed reports as deleted or without a DOI are skipped.
//
// Harvested records carry no file manifest; the downloader re-resolves
// them through the REST API before fetching files.
type Cursor struct {
	client *Client
	ctx    context.Context
	set    string

	started bool
	token   string
	buf     []oaiRecord
	cur     *types.Record
	err     error
	done    bool
}

// Next advances to the next harvested record.
func (it *Cursor) Next() bool {
	for {
		if it.err != nil {
			return false
		}
		for len(it.buf) == 0 {
			if it.done {
				return false
			}
			if !it.fetchPage() {
				return false
			}
		}
		r := it.buf[0]
		it.buf = it.buf[1:]

		rec := normalizeDC(r)
		if rec == nil {
			continue
		}
		it.cur = rec
		return true
	}
}

// Record returns the record produced by the last successful Next call.
func (it *Cursor) Record() *types.Record { return it.cur }

// Err returns the first error encountered during harvesting.
func (it *Cursor) Err() error { return it.err }

func (it *Cursor) fetchPage() bool {
	params := url.Values{"verb": {"ListRecords"}}
	if !it.started {
		params.Set("metadataPrefix", "oai_dc")
		params.Set("set", it.set)
		it.started = true
	} else {
		params.Set("resumptionToken", it.token)
	}

	reqURL := it.client.cfg.BaseURL + "?" + params.Encode()
	req, err := http.NewRequestWithContext(it.ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		it.err = fmt.Errorf("creating request: %w", err)
		return false
	}
	req.Header.Set("User-Agent", it.client.cfg.UserAgent)

	resp, err := it.client.httpClient.Do(req)
	if err != nil {
		it.err = fmt.Errorf("%w: GET %s: %v", zenodo.ErrNetwork, reqURL, err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		it.err = fmt.Errorf("%w: HTTP %d from %s", zenodo.ErrNetwork, resp.StatusCode, reqURL)
		return false
	}

	var or oaiResponse
	if err := xml.NewDecoder(resp.Body).Decode(&or); err != nil {
		it.err = fmt.Errorf("%w: parsing OAI-PMH response: %v", zenodo.ErrNetwork, err)
		return false
	}

	if or.Error.Code != "" {
		// An empty set is a normal outcome, not a failure.
		if or.Error.Code == "noRecordsMatch" {
			it.done = true
			return false
		}
		it.err = fmt.Errorf("%w: OAI-PMH error %s: %s",
			zenodo.ErrNetwork, or.Error.Code, strings.TrimSpace(or.Error.Message))
		return false
	}

	it.buf = or.ListRecords.Records
	it.token = strings.TrimSpace(or.ListRecords.ResumptionToken)
	if it.token == "" {
		it.done = true
	}
	return len(it.buf) > 0 || !it.done
}

// OAI-PMH ListRecords XML structures (Dublin Core payload).
type oaiResponse struct {
	Error struct {
		Code    string `xml:"code,attr"`
		Message string `xml:",chardata"`
	} `xml:"error"`
	ListRecords struct {
		Records         []oaiRecord `xml:"record"`
		ResumptionToken string      `xml:"resumptionToken"`
	} `xml:"ListRecords"`
}

type oaiRecord struct {
	Header struct {
		Status     string `xml:"status,attr"`
		Identifier string `xml:"identifier"`
	} `xml:"header"`
	Metadata struct {
		DC oaiDC `xml:"dc"`
	} `xml:"metadata"`
}

type oaiDC struct {
	Titles      []string `xml:"title"`
	Creators    []string `xml:"creator"`
	Dates       []string `xml:"date"`
	Identifiers []string `xml:"identifier"`
	Subjects    []string `xml:"subject"`
	Rights      []string `xml:"rights"`
	Relations   []string `xml:"relation"`
}

// normalizeDC maps one Dublin Core record to a Record, or nil when the
// record is deleted or carries no Zenodo DOI.
func normalizeDC(r oaiRecord) *types.Record {
	if r.Header.Status == "deleted" {
		return nil
	}

	var doi string
	for _, id := range r.Metadata.DC.Identifiers {
		if m := doiPattern.FindString(id); m != "" {
			doi = m
			break
		}
	}
	if doi == "" {
		return nil
	}

	rec := &types.Record{
		DOI:      doi,
		Keywords: r.Metadata.DC.Subjects,
	}
	if len(r.Metadata.DC.Titles) > 0 {
		rec.Title = strings.TrimSpace(r.Metadata.DC.Titles[0])
	}
	for _, c := range r.Metadata.DC.Creators {
		if c = strings.TrimSpace(c); c != "" {
			rec.Creators = append(rec.Creators, c)
		}
	}
	for _, d := range r.Metadata.DC.Dates {
		if len(d) >= 4 {
			if y, err := strconv.Atoi(d[:4]); err == nil {
				rec.Year = y
				break
			}
		}
	}
	for _, rt := range r.Metadata.DC.Rights {
		if rt == closedAccessURI {
			rec.ClosedAccess = true
		} else if rec.License == "" && !strings.HasPrefix(rt, "info:") {
			rec.License = rt
		}
	}
	// dc:relation lists the concept DOI as the isVersionOf target.
	for _, rel := range r.Metadata.DC.Relations {
		if m := doiPattern.FindString(rel); m != "" && m != doi {
			rec.ConceptDOI = m
			break
		}
	}
	return rec
}
