// Package sqlite persists entity data to a local SQLite database. Values
// are stored as JSON documents keyed by identity name, so anything written
// through this store must be JSON-serialisable.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"railwatch/server/internal/host"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS entity_data (
	name    TEXT PRIMARY KEY,
	payload TEXT NOT NULL
);
`

// Store implements host.EntityStore on a SQLite database.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(id host.Identity) (any, bool, error) {
	if !id.Valid() {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var payload string
	err := s.db.QueryRow("SELECT payload FROM entity_data WHERE name = ?", id.Name()).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: get %s: %w", id.Name(), err)
	}

	var value any
	if err := json.Unmarshal([]byte(payload), &value); err != nil {
		return nil, false, fmt.Errorf("sqlite: decode %s: %w", id.Name(), err)
	}
	return value, true, nil
}

func (s *Store) Set(id host.Identity, value any) error {
	if !id.Valid() {
		return fmt.Errorf("sqlite: cannot attach data to invalid identity %q", id.Name())
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("sqlite: encode %s: %w", id.Name(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		"INSERT INTO entity_data (name, payload) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET payload = excluded.payload",
		id.Name(), string(payload),
	)
	if err != nil {
		return fmt.Errorf("sqlite: set %s: %w", id.Name(), err)
	}
	return nil
}

func (s *Store) Delete(id host.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec("DELETE FROM entity_data WHERE name = ?", id.Name()); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", id.Name(), err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
