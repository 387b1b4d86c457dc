// Package scriptstore keeps a library of named scripts and a cache of
// their generated sources in a SQLite database. The cache key is a hash
// of the script source, model and procedure name, so an unchanged
// script reuses its generated code.
package scriptstore

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	model      TEXT NOT NULL,
	source     TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS generated (
	key        TEXT PRIMARY KEY,
	go_source  TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// Script is one stored script.
type Script struct {
	ID        string
	Name      string
	Model     string
	Source    string
	CreatedAt time.Time
}

// ErrNotFound is returned when a named script does not exist.
var ErrNotFound = errors.New("script not found")

type Store struct {
	db *sql.DB
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening script store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing script store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save stores a script under a unique name, replacing any previous
// version, and returns its id.
func (s *Store) Save(name, model, source string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO scripts (id, name, model, source, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET model = excluded.model,
			source = excluded.source, created_at = excluded.created_at`,
		id, name, model, source, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("saving script %q: %w", name, err)
	}
	return id, nil
}

// Get returns a stored script by name.
func (s *Store) Get(name string) (*Script, error) {
	row := s.db.QueryRow(
		`SELECT id, name, model, source, created_at FROM scripts WHERE name = ?`, name)
	var sc Script
	err := row.Scan(&sc.ID, &sc.Name, &sc.Model, &sc.Source, &sc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading script %q: %w", name, err)
	}
	return &sc, nil
}

// List returns all stored scripts ordered by name.
func (s *Store) List() ([]Script, error) {
	rows, err := s.db.Query(
		`SELECT id, name, model, source, created_at FROM scripts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing scripts: %w", err)
	}
	defer rows.Close()

	var scripts []Script
	for rows.Next() {
		var sc Script
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Model, &sc.Source, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("listing scripts: %w", err)
		}
		scripts = append(scripts, sc)
	}
	return scripts, rows.Err()
}

// CacheGenerated stores the generated Go source for a compilation.
func (s *Store) CacheGenerated(source, model, name, goSource string) error {
	_, err := s.db.Exec(`
		INSERT INTO generated (key, go_source, created_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET go_source = excluded.go_source,
			created_at = excluded.created_at`,
		cacheKey(source, model, name), goSource, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("caching generated source: %w", err)
	}
	return nil
}

// LookupGenerated returns the cached generated source for a
// compilation, if present.
func (s *Store) LookupGenerated(source, model, name string) (string, bool, error) {
	row := s.db.QueryRow(`SELECT go_source FROM generated WHERE key = ?`,
		cacheKey(source, model, name))
	var goSource string
	err := row.Scan(&goSource)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("looking up generated source: %w", err)
	}
	return goSource, true, nil
}

func cacheKey(source, model, name string) string {
	h := sha256.New()
	for _, part := range []string{source, model, name} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
