// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"net/url"
	"strings"
)

// DOIPrefix is Zenodo's DOI prefix. Every deposit DOI has the form
// "10.5281/zenodo.<recid>".
const DOIPrefix = "10.5281/zenodo."

// Publisher is the fixed publisher name used in derived citations.
const Publisher = "Zenodo"

// GithubRepo identifies the GitHub repository a deposit was archived from
// via the GitHub-Zenodo bridge, including the release tag that was
// deposited. Deposits carrying this allow downloading the release zip from
// GitHub instead of Zenodo, which sidesteps Zenodo's rate limiting.
type GithubRepo struct {
	// Org is the GitHub organization or user owning the repository.
	Org string `json:"org" yaml:"org"`

	// Name is the repository name.
	Name string `json:"name" yaml:"name"`

	// Tag is the release tag that was deposited. May be empty.
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// ParseGithubURL extracts a GithubRepo from a github.com URL, e.g.
// "https://github.com/lexibank/petersonsouthasia/tree/v1.1". Returns nil
// when the URL does not point at a GitHub repository.
func ParseGithubURL(rawURL string) *GithubRepo {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host != "github.com" {
		return nil
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}
	repo := &GithubRepo{Org: parts[0], Name: parts[1]}
	if len(parts) >= 4 && parts[2] == "tree" {
		repo.Tag = parts[3]
	}
	return repo
}

// CloneURL returns a URL suitable for git clone.
func (g *GithubRepo) CloneURL() string {
	return "https://github.com/" + g.Org + "/" + g.Name + ".git"
}

// ReleaseURL returns the URL of the zipped release on GitHub, or "" when
// no release tag is known.
func (g *GithubRepo) ReleaseURL() string {
	if g.Tag == "" {
		return ""
	}
	return "https://github.com/" + g.Org + "/" + g.Name + "/archive/refs/tags/" + g.Tag + ".zip"
}

// DepositFile describes one file of a deposit.
type DepositFile struct {
	// Name is the filename as stored in the deposit (no directories).
	Name string `json:"name" yaml:"name"`

	// URL is the direct download link for the file.
	URL string `json:"url" yaml:"url"`

	// Size is the file size in bytes as reported by the API.
	Size int64 `json:"size" yaml:"size"`

	// Checksum is the checksum string reported by the API (e.g. "md5:...").
	Checksum string `json:"checksum,omitempty" yaml:"checksum,omitempty"`
}

// Record holds the normalized metadata of one Zenodo deposit version.
// A Record is built fresh from each fetch and is not mutated afterwards.
type Record struct {
	// DOI identifies exactly one deposit version (e.g. "10.5281/zenodo.4762034").
	DOI string `json:"doi" yaml:"doi"`

	// ConceptDOI identifies the version-independent lineage of the deposit.
	// Empty when the service reports none; never equal to DOI.
	ConceptDOI string `json:"concept_doi,omitempty" yaml:"concept_doi,omitempty"`

	// Version is the human-assigned version tag (e.g. "v4.5"). May be empty.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Title is the deposit title. Empty when missing upstream.
	Title string `json:"title" yaml:"title"`

	// Creators lists the creator names in source order.
	Creators []string `json:"creators" yaml:"creators"`

	// Year is the publication year, 0 when missing upstream.
	Year int `json:"year" yaml:"year"`

	// Keywords lists the keywords attached to the deposit.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// License is the license or copyright identifier (e.g. "CC-BY-4.0").
	License string `json:"license,omitempty" yaml:"license,omitempty"`

	// Communities lists the identifiers of communities the deposit belongs to.
	Communities []string `json:"communities,omitempty" yaml:"communities,omitempty"`

	// ClosedAccess reports whether the deposit files are access-restricted.
	ClosedAccess bool `json:"closed_access,omitempty" yaml:"closed_access,omitempty"`

	// Github identifies the source repository for deposits made through
	// the GitHub-Zenodo bridge. Nil for deposits uploaded directly.
	Github *GithubRepo `json:"github,omitempty" yaml:"github,omitempty"`

	// Files is the deposit's file manifest. Records harvested over OAI-PMH
	// carry an empty manifest until re-resolved through the REST API.
	Files []DepositFile `json:"files,omitempty" yaml:"files,omitempty"`
}

// RecordID returns the numeric Zenodo record identifier embedded in the DOI,
// or "" when the DOI does not carry the Zenodo prefix.
func (r *Record) RecordID() string {
	if !strings.HasPrefix(r.DOI, DOIPrefix) {
		return ""
	}
	return strings.TrimPrefix(r.DOI, DOIPrefix)
}

// VersionTag returns the version tag with any leading "v" stripped, the
// form used for version comparison. Deposits without an explicit version
// fall back to the GitHub release tag when one is known.
func (r *Record) VersionTag() string {
	tag := r.Version
	if tag == "" && r.Github != nil {
		tag = r.Github.Tag
	}
	return strings.TrimPrefix(tag, "v")
}
