// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package zenodo queries the Zenodo REST API and normalizes deposit
// metadata into Records. It covers the four lookup paths: direct DOI,
// concept DOI plus version tag, community listing, and keyword search.
package zenodo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/clld/cldfzenodo/pkg/types"
)

const (
	defaultBaseURL  = "https://zenodo.org/api"
	defaultPageSize = 100
)

// Client performs single synchronous GET requests against the Zenodo REST
// API. No retries, no response caching beyond the community identifier
// cache below.
type Client struct {
	httpClient *http.Client
	cfg        types.APIConfig

	// communities caches community name → identifier, one REST call per
	// name per Client.
	communities map[string]string
}

// NewClient returns a Client for the given configuration. Zero config
// fields fall back to defaults.
func NewClient(cfg types.APIConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		cfg:         cfg,
		communities: make(map[string]string),
	}
}

// get issues one GET against resource (e.g. "records") with params and
// decodes the JSON response into v.
func (c *Client) get(ctx context.Context, resource string, params url.Values, v any) error {
	if params == nil {
		params = url.Values{}
	}
	if c.cfg.AccessToken != "" {
		params.Set("access_token", c.cfg.AccessToken)
	}
	reqURL := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + resource
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrNetwork, reqURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, resource)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: HTTP %d from %s", ErrNetwork, resp.StatusCode, reqURL)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: parsing response from %s: %v", ErrNetwork, reqURL, err)
	}
	return nil
}

// communityID resolves a community name to its identifier, consulting the
// cache first.
func (c *Client) communityID(ctx context.Context, name string) (string, error) {
	if id, ok := c.communities[name]; ok {
		return id, nil
	}
	var cr communitiesResponse
	if err := c.get(ctx, "communities", url.Values{"q": {name}}, &cr); err != nil {
		return "", err
	}
	if len(cr.Hits.Hits) == 0 {
		return "", fmt.Errorf("%w: community %q", ErrNotFound, name)
	}
	id := cr.Hits.Hits[0].ID
	c.communities[name] = id
	return id, nil
}

type communitiesResponse struct {
	Hits struct {
		Hits []struct {
			ID string `json:"id"`
		} `json:"hits"`
	} `json:"hits"`
}

// Query builds a Zenodo search query string from field/value pairs, e.g.
// Query("doi", "10.5281/zenodo.4762034") → `doi:"10.5281/zenodo.4762034"`.
func Query(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, fmt.Sprintf("%s:%q", pairs[i], pairs[i+1]))
	}
	return strings.Join(parts, " ")
}

// ParseDOI extracts a bare DOI from a plain DOI or a doi.org URL.
func ParseDOI(doiOrURL string) string {
	s := strings.TrimSpace(doiOrURL)
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}
	if u.Host == "doi.org" || u.Host == "dx.doi.org" {
		return strings.TrimPrefix(u.Path, "/")
	}
	return s
}
