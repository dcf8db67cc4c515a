// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "cldfzenodo/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// APIConfig holds settings for the Zenodo REST API client.
type APIConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the API root (default "https://zenodo.org/api").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// PageSize is the number of hits requested per search page (default 100).
	PageSize int `json:"page_size" yaml:"page_size"`

	// AccessToken is an optional Zenodo access token for higher rate limits
	// and restricted records. Sent as the access_token query parameter.
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
}

// OAIConfig holds settings for the OAI-PMH harvesting client.
type OAIConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the OAI-PMH endpoint (default "https://zenodo.org/oai2d").
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// DownloadConfig holds settings for the downloader.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// Delay is the pause between consecutive file downloads (default 0).
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// CatalogConfig holds settings for the local download catalog.
type CatalogConfig struct {
	// Dir is the directory holding the catalog database
	// (default "~/.cache/cldfzenodo").
	Dir string `json:"dir" yaml:"dir"`
}
