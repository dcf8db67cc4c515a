// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package zenodo

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/clld/cldfzenodo/pkg/types"
)

const sampleHitJSON = `{
  "doi": "10.5281/zenodo.4762034",
  "conceptdoi": "10.5281/zenodo.4762033",
  "metadata": {
    "title": "lexibank/petersonsouthasia: Towards a linguistic prehistory of South Asia",
    "version": "v1.1",
    "publication_date": "2021-05-12",
    "creators": [
      {"name": "Peterson, John"},
      {"name": "Forkel, Robert"}
    ],
    "keywords": ["cldf:StructureDataset", "linguistics"],
    "license": {"id": "CC-BY-4.0"},
    "access_right": "open",
    "communities": [{"id": "lexibank"}, {"identifier": "cldf-datasets"}],
    "related_identifiers": [
      {"identifier": "https://doi.org/10.5281/zenodo.4762033", "relation": "isVersionOf"},
      {"identifier": "https://github.com/lexibank/petersonsouthasia/tree/v1.1", "relation": "isSupplementTo"}
    ]
  },
  "files": [
    {
      "key": "petersonsouthasia-v1.1.zip",
      "size": 33842,
      "checksum": "md5:c9d0b8e4a2f1",
      "links": {"self": "https://zenodo.org/api/files/abc/petersonsouthasia-v1.1.zip"}
    }
  ]
}`

func TestNormalize(t *testing.T) {
	var h recordHit
	if err := json.Unmarshal([]byte(sampleHitJSON), &h); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}

	rec, err := normalize(h)
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}

	if rec.DOI != "10.5281/zenodo.4762034" {
		t.Errorf("DOI = %q", rec.DOI)
	}
	if rec.ConceptDOI != "10.5281/zenodo.4762033" {
		t.Errorf("ConceptDOI = %q", rec.ConceptDOI)
	}
	if rec.Version != "v1.1" {
		t.Errorf("Version = %q", rec.Version)
	}
	if rec.Year != 2021 {
		t.Errorf("Year = %d, want 2021", rec.Year)
	}
	if len(rec.Creators) != 2 || rec.Creators[0] != "Peterson, John" {
		t.Errorf("Creators = %v", rec.Creators)
	}
	if rec.License != "CC-BY-4.0" {
		t.Errorf("License = %q", rec.License)
	}
	if rec.ClosedAccess {
		t.Error("ClosedAccess = true, want false")
	}
	if len(rec.Communities) != 2 || rec.Communities[1] != "cldf-datasets" {
		t.Errorf("Communities = %v", rec.Communities)
	}
	if rec.Github == nil {
		t.Fatal("Github = nil, want bridge repository")
	}
	if rec.Github.Org != "lexibank" || rec.Github.Name != "petersonsouthasia" || rec.Github.Tag != "v1.1" {
		t.Errorf("Github = %+v", rec.Github)
	}
	if len(rec.Files) != 1 {
		t.Fatalf("Files = %v", rec.Files)
	}
	f := rec.Files[0]
	if f.Name != "petersonsouthasia-v1.1.zip" || f.Size != 33842 || f.URL == "" {
		t.Errorf("file = %+v", f)
	}
}

func TestNormalizeMissingDOI(t *testing.T) {
	_, err := normalize(recordHit{})
	if !errors.Is(err, ErrMetadata) {
		t.Errorf("normalize() error = %v, want ErrMetadata", err)
	}
}

func TestNormalizeSparseMetadata(t *testing.T) {
	// A deposit missing title, creators, and date still yields a Record.
	rec, err := normalize(recordHit{DOI: "10.5281/zenodo.99"})
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if rec.Title != "" || len(rec.Creators) != 0 || rec.Year != 0 {
		t.Errorf("expected zero-valued descriptive fields, got %+v", rec)
	}
}

func TestNormalizeConceptDOIEqualToDOI(t *testing.T) {
	rec, err := normalize(recordHit{
		DOI:        "10.5281/zenodo.7",
		ConceptDOI: "10.5281/zenodo.7",
	})
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if rec.ConceptDOI != "" {
		t.Errorf("ConceptDOI = %q, want empty when equal to DOI", rec.ConceptDOI)
	}
}

func TestNormalizeClosedAccess(t *testing.T) {
	rec, err := normalize(recordHit{
		DOI:      "10.5281/zenodo.8",
		Metadata: hitMetadata{AccessRight: "closed"},
	})
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if !rec.ClosedAccess {
		t.Error("ClosedAccess = false, want true")
	}
}

func TestNormalizeRelatedIdentifiers(t *testing.T) {
	tests := []struct {
		name    string
		related []hitRelatedIdentifier
		want    *types.GithubRepo
	}{
		{
			"supplement without release tag",
			[]hitRelatedIdentifier{
				{Identifier: "https://github.com/lexibank/abvd", Relation: "isSupplementTo"},
			},
			&types.GithubRepo{Org: "lexibank", Name: "abvd"},
		},
		{
			"github URL with a different relation is ignored",
			[]hitRelatedIdentifier{
				{Identifier: "https://github.com/lexibank/abvd/tree/v1.0", Relation: "cites"},
			},
			nil,
		},
		{
			"non-github supplement is ignored",
			[]hitRelatedIdentifier{
				{Identifier: "https://example.com/lexibank/abvd", Relation: "isSupplementTo"},
			},
			nil,
		},
		{"no related identifiers", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := normalize(recordHit{
				DOI:      "10.5281/zenodo.10",
				Metadata: hitMetadata{RelatedIdentifiers: tt.related},
			})
			if err != nil {
				t.Fatalf("normalize() error = %v", err)
			}
			if (rec.Github == nil) != (tt.want == nil) {
				t.Fatalf("Github = %+v, want %+v", rec.Github, tt.want)
			}
			if rec.Github != nil && *rec.Github != *tt.want {
				t.Errorf("Github = %+v, want %+v", rec.Github, tt.want)
			}
		})
	}
}

func TestNormalizeYearOnlyDate(t *testing.T) {
	rec, err := normalize(recordHit{
		DOI:      "10.5281/zenodo.9",
		Metadata: hitMetadata{PublicationDate: "2019"},
	})
	if err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if rec.Year != 2019 {
		t.Errorf("Year = %d, want 2019", rec.Year)
	}
}
