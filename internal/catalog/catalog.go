// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps a local SQLite ledger of downloaded deposits for
// the CLI. The library's lookup and download paths never consult it; it
// exists so "cldfzenodo list" can show what lives where on disk.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/clld/cldfzenodo/pkg/types"
)

const dbFile = "catalog.db"

// Entry is one catalog row: a deposit version downloaded to a directory.
type Entry struct {
	DOI          string
	ConceptDOI   string
	Title        string
	Version      string
	Creators     []string
	Dir          string
	DownloadedAt time.Time
}

// Store manages the catalog database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the catalog database at cfg.Dir/catalog.db,
// creating the schema if it does not exist.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS deposits (
		doi TEXT PRIMARY KEY,
		concept_doi TEXT,
		title TEXT,
		version TEXT,
		creators TEXT,
		dir TEXT NOT NULL,
		downloaded_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Add upserts a catalog row for a downloaded record. A re-download of the
// same DOI replaces the previous row.
func (s *Store) Add(ctx context.Context, rec *types.Record, dir string) error {
	creatorsJSON, _ := json.Marshal(rec.Creators)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deposits (doi, concept_doi, title, version, creators, dir, downloaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(doi) DO UPDATE SET
			concept_doi=excluded.concept_doi, title=excluded.title,
			version=excluded.version, creators=excluded.creators,
			dir=excluded.dir, downloaded_at=excluded.downloaded_at`,
		rec.DOI, rec.ConceptDOI, rec.Title, rec.Version,
		string(creatorsJSON), dir, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting deposit %s: %w", rec.DOI, err)
	}
	return nil
}

// List returns all catalog entries, newest download first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doi, concept_doi, title, version, creators, dir, downloaded_at
		 FROM deposits ORDER BY downloaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying deposits: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var creatorsJSON, downloadedAt string
		if err := rows.Scan(&e.DOI, &e.ConceptDOI, &e.Title, &e.Version,
			&creatorsJSON, &e.Dir, &downloadedAt); err != nil {
			return nil, fmt.Errorf("scanning deposit row: %w", err)
		}
		json.Unmarshal([]byte(creatorsJSON), &e.Creators)
		if t, parseErr := time.Parse(time.RFC3339, downloadedAt); parseErr == nil {
			e.DownloadedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
