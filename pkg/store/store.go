// Package store caches computed accent.WordResult values in SQLite,
// adapting the teacher's migration-on-connect + prepared-statement CRUD
// pattern (pkg/db) to accent data instead of dictionary-word occurrences.
// It sits entirely behind the core's public WordResult type: the core
// accent pipeline never imports this package, since persistence is purely a
// downstream concern of it.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/pitchaccent/pkg/accent"
)

const migrationSQL = `
CREATE TABLE IF NOT EXISTS word_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	surface TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	reading TEXT NOT NULL,
	accent_type INTEGER NOT NULL,
	mora_count INTEGER NOT NULL,
	pattern TEXT NOT NULL,
	is_compound INTEGER NOT NULL DEFAULT 0,
	compound_rules TEXT NOT NULL DEFAULT '[]',
	definitions TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(surface, context)
);
`

// Store caches WordResults in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite database at path and runs its
// migration.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("store: enable foreign keys: %w", err)
	}
	if _, err := db.Exec(migrationSQL); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// DB exposes the underlying connection so callers can drive their own
// transactions (pkg/ingest's BatchWriter batches PutTx calls this way).
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Put upserts a WordResult keyed by (surface, context).
func (s *Store) Put(surface, context string, wr accent.WordResult) error {
	return putWith(s.db, surface, context, wr)
}

// PutTx is Put run against an existing transaction, for batched ingestion.
func PutTx(tx *sql.Tx, surface, context string, wr accent.WordResult) error {
	return putWith(tx, surface, context, wr)
}

func putWith(x execer, surface, context string, wr accent.WordResult) error {
	rulesJSON, err := json.Marshal(wr.CompoundRules)
	if err != nil {
		return fmt.Errorf("store: marshal compound rules: %w", err)
	}
	isCompound := 0
	if wr.IsCompound {
		isCompound = 1
	}
	_, err = x.Exec(`
		INSERT INTO word_results (surface, context, reading, accent_type, mora_count, pattern, is_compound, compound_rules, definitions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(surface, context) DO UPDATE SET
			reading = excluded.reading,
			accent_type = excluded.accent_type,
			mora_count = excluded.mora_count,
			pattern = excluded.pattern,
			is_compound = excluded.is_compound,
			compound_rules = excluded.compound_rules,
			definitions = CASE WHEN excluded.definitions = '' THEN word_results.definitions ELSE excluded.definitions END
	`, surface, context, wr.Reading, wr.AccentType, wr.MoraCount, wr.Pattern, isCompound, string(rulesJSON), wr.Definitions)
	if err != nil {
		return fmt.Errorf("store: upsert %q: %w", surface, err)
	}
	return nil
}

// Get retrieves a cached WordResult, returning ok=false on a cache miss.
func (s *Store) Get(surface, context string) (accent.WordResult, bool, error) {
	var wr accent.WordResult
	var isCompound int
	var rulesJSON string

	row := s.db.QueryRow(`
		SELECT reading, accent_type, mora_count, pattern, is_compound, compound_rules, definitions
		FROM word_results WHERE surface = ? AND context = ?
	`, surface, context)

	if err := row.Scan(&wr.Reading, &wr.AccentType, &wr.MoraCount, &wr.Pattern, &isCompound, &rulesJSON, &wr.Definitions); err != nil {
		if err == sql.ErrNoRows {
			return accent.WordResult{}, false, nil
		}
		return accent.WordResult{}, false, fmt.Errorf("store: get %q: %w", surface, err)
	}

	wr.Surface = surface
	wr.IsCompound = isCompound != 0
	wr.IsContent = true
	if rulesJSON != "" && rulesJSON != "[]" {
		if err := json.Unmarshal([]byte(rulesJSON), &wr.CompoundRules); err != nil {
			return accent.WordResult{}, false, fmt.Errorf("store: unmarshal compound rules for %q: %w", surface, err)
		}
	}
	return wr, true, nil
}

// Vocabulary returns every distinct surface cached so far, sorted by
// surface.
func (s *Store) Vocabulary() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT surface FROM word_results ORDER BY surface`)
	if err != nil {
		return nil, fmt.Errorf("store: vocabulary: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var surface string
		if err := rows.Scan(&surface); err != nil {
			return nil, fmt.Errorf("store: scan vocabulary row: %w", err)
		}
		out = append(out, surface)
	}
	return out, rows.Err()
}

// Row identifies one cached word for the dictionary-enrichment pass.
type Row struct {
	ID      int64
	Surface string
	Reading string
}

// MissingDefinitions returns every row whose definitions column is still
// empty, for dictionary.Importer to fill in (adapted from the teacher's
// Importer.ProcessUpdates, which ran the equivalent query against pkg/db's
// words table).
func (s *Store) MissingDefinitions() ([]Row, error) {
	rows, err := s.db.Query(`SELECT id, surface, reading FROM word_results WHERE definitions = ''`)
	if err != nil {
		return nil, fmt.Errorf("store: missing definitions: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Surface, &r.Reading); err != nil {
			return nil, fmt.Errorf("store: scan missing-definitions row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SetDefinitions writes a JSON-encoded gloss list onto a cached row by id.
func (s *Store) SetDefinitions(id int64, definitionsJSON string) error {
	_, err := s.db.Exec(`UPDATE word_results SET definitions = ? WHERE id = ?`, definitionsJSON, id)
	if err != nil {
		return fmt.Errorf("store: set definitions for id=%d: %w", id, err)
	}
	return nil
}
