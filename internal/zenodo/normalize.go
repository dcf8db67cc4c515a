// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import (
	"fmt"
	"strconv"

	"github.com/clld/cldfzenodo/pkg/types"
)

// Zenodo records API JSON structures. The same hit shape is returned by
// the direct records resource, community listings, and keyword search, so
// one normalizer serves all lookup paths.
type searchResponse struct {
	Hits struct {
		Hits  []recordHit `json:"hits"`
		Total int         `json:"total"`
	} `json:"hits"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type recordHit struct {
	DOI        string      `json:"doi"`
	ConceptDOI string      `json:"conceptdoi"`
	Metadata   hitMetadata `json:"metadata"`
	Files      []hitFile   `json:"files"`
}

type hitMetadata struct {
	Title              string                 `json:"title"`
	Version            string                 `json:"version"`
	PublicationDate    string                 `json:"publication_date"`
	Creators           []hitCreator           `json:"creators"`
	Keywords           []string               `json:"keywords"`
	License            hitLicense             `json:"license"`
	AccessRight        string                 `json:"access_right"`
	Communities        []hitCommunity         `json:"communities"`
	RelatedIdentifiers []hitRelatedIdentifier `json:"related_identifiers"`
}

type hitRelatedIdentifier struct {
	Identifier string `json:"identifier"`
	Relation   string `json:"relation"`
}

type hitCreator struct {
	Name string `json:"name"`
}

type hitLicense struct {
	ID string `json:"id"`
}

type hitCommunity struct {
	ID string `json:"id"`
	// Identifier is the field name used by older API responses.
	Identifier string `json:"identifier"`
}

type hitFile struct {
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	Checksum string `json:"checksum"`
	Links    struct {
		Self string `json:"self"`
	} `json:"links"`
}

// normalize maps one raw API hit to a Record. A hit without a DOI is
// rejected with ErrMetadata; every descriptive field degrades to its zero
// value when missing so that bulk iteration survives sparse metadata.
func normalize(h recordHit) (*types.Record, error) {
	if h.DOI == "" {
		return nil, fmt.Errorf("%w: hit has no DOI", ErrMetadata)
	}

	rec := &types.Record{
		DOI:          h.DOI,
		Title:        h.Metadata.Title,
		Version:      h.Metadata.Version,
		Keywords:     h.Metadata.Keywords,
		License:      h.Metadata.License.ID,
		ClosedAccess: h.Metadata.AccessRight == "closed",
	}

	// The concept DOI spans the whole lineage; a value equal to the
	// version DOI carries no information and is dropped.
	if h.ConceptDOI != "" && h.ConceptDOI != h.DOI {
		rec.ConceptDOI = h.ConceptDOI
	}

	for _, c := range h.Metadata.Creators {
		if c.Name != "" {
			rec.Creators = append(rec.Creators, c.Name)
		}
	}

	for _, cm := range h.Metadata.Communities {
		id := cm.ID
		if id == "" {
			id = cm.Identifier
		}
		if id != "" {
			rec.Communities = append(rec.Communities, id)
		}
	}

	// Deposits made through the GitHub-Zenodo bridge link their source
	// repository as an isSupplementTo related identifier.
	for _, ri := range h.Metadata.RelatedIdentifiers {
		if ri.Relation != "isSupplementTo" {
			continue
		}
		if repo := types.ParseGithubURL(ri.Identifier); repo != nil {
			rec.Github = repo
			break
		}
	}

	// publication_date is "YYYY-MM-DD" or just "YYYY".
	if d := h.Metadata.PublicationDate; len(d) >= 4 {
		if y, err := strconv.Atoi(d[:4]); err == nil {
			rec.Year = y
		}
	}

	for _, f := range h.Files {
		rec.Files = append(rec.Files, types.DepositFile{
			Name:     f.Key,
			URL:      f.Links.Self,
			Size:     f.Size,
			Checksum: f.Checksum,
		})
	}

	return rec, nil
}
