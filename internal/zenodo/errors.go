// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import "errors"

// Error kinds surfaced by the client. Callers test with errors.Is; every
// error returned from this package wraps exactly one of these (local
// filesystem failures in the downloader wrap os errors instead).
var (
	// ErrNetwork covers transport failures, non-2xx responses, and
	// malformed payloads.
	ErrNetwork = errors.New("zenodo: network error")

	// ErrNotFound is returned when an identifier resolves to nothing.
	ErrNotFound = errors.New("zenodo: not found")

	// ErrMetadata is returned when a payload lacks required identifying
	// fields (the DOI).
	ErrMetadata = errors.New("zenodo: missing required metadata")
)
