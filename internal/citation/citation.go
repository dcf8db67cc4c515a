// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation derives bibliographic strings from a Record at access
// time. Nothing is stored on the Record, so the output can never drift
// out of sync with the metadata. Missing fields degrade gracefully;
// formatting never fails.
package citation

import (
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/clld/cldfzenodo/pkg/types"
)

// Format returns a human-readable citation in the style Zenodo displays
// on deposit pages:
//
//	Creator1, & Creator2. (2021). Title (v1.1) [Data set]. Zenodo. https://doi.org/...
//
// The result is never empty: a missing year becomes "n.d." and a missing
// author list omits the author segment.
func Format(rec *types.Record) string {
	var b strings.Builder

	if len(rec.Creators) > 0 {
		b.WriteString(joinCreators(rec.Creators))
		b.WriteString(". ")
	}

	year := "n.d."
	if rec.Year > 0 {
		year = fmt.Sprintf("%d", rec.Year)
	}
	fmt.Fprintf(&b, "(%s).", year)

	if rec.Title != "" {
		b.WriteString(" " + rec.Title)
		if rec.Version != "" {
			fmt.Fprintf(&b, " (%s)", rec.Version)
		}
		b.WriteString(" [Data set].")
	}

	fmt.Fprintf(&b, " %s. https://doi.org/%s", types.Publisher, rec.DOI)
	return b.String()
}

// joinCreators renders "A", "A, & B", "A, B, & C".
func joinCreators(names []string) string {
	switch len(names) {
	case 1:
		return names[0]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", & " + names[len(names)-1]
	}
}

// BibTeX returns a @misc entry for the record. The entry key is derived
// from the DOI suffix (e.g. "zenodo-4762034").
func BibTeX(rec *types.Record) string {
	key := rec.DOI
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		key = key[idx+1:]
	}
	key = strings.ReplaceAll(key, ".", "-")

	var b strings.Builder
	fmt.Fprintf(&b, "@misc{%s,\n", key)
	writeField := func(name, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %s = {%s},\n", name, value)
		}
	}
	writeField("author", strings.Join(rec.Creators, " and "))
	writeField("title", rec.Title)
	writeField("keywords", strings.Join(rec.Keywords, ", "))
	writeField("publisher", types.Publisher)
	if rec.Year > 0 {
		writeField("year", fmt.Sprintf("%d", rec.Year))
	}
	if rec.Version != "" {
		writeField("edition", rec.Version)
	}
	writeField("copyright", rec.License)
	writeField("doi", rec.DOI)
	writeField("url", "https://doi.org/"+rec.DOI)
	b.WriteString("}\n")
	return b.String()
}

// CSLItem represents a bibliographic entry in CSL (Citation Style
// Language) format. The field names follow the CSL-YAML schema so that
// output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID        string    `yaml:"id"`
	Type      string    `yaml:"type"`
	Title     string    `yaml:"title"`
	Author    []CSLName `yaml:"author,omitempty"`
	Publisher string    `yaml:"publisher"`
	Issued    *CSLDate  `yaml:"issued,omitempty"`
	Version   string    `yaml:"version,omitempty"`
	DOI       string    `yaml:"DOI,omitempty"`
	URL       string    `yaml:"URL,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// CSL converts a Record to a CSLItem.
func CSL(rec *types.Record) CSLItem {
	item := CSLItem{
		ID:        rec.RecordID(),
		Type:      "dataset",
		Title:     rec.Title,
		Publisher: types.Publisher,
		Version:   rec.Version,
		DOI:       rec.DOI,
		URL:       "https://doi.org/" + rec.DOI,
	}
	if item.ID == "" {
		item.ID = rec.DOI
	}
	for _, c := range rec.Creators {
		item.Author = append(item.Author, parseName(c))
	}
	if rec.Year > 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{rec.Year}}}
	}
	return item
}

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(recs []*types.Record, w io.Writer) error {
	items := make([]CSLItem, len(recs))
	for i, r := range recs {
		items[i] = CSL(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// parseName splits a name into CSL family/given parts. Zenodo creator
// names usually come as "Family, Given"; names without a comma split on
// the last space, and single-token names use the literal field.
func parseName(name string) CSLName {
	name = strings.TrimSpace(name)
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{
			Family: strings.TrimSpace(family),
			Given:  strings.TrimSpace(given),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{Given: name[:idx], Family: name[idx+1:]}
}
