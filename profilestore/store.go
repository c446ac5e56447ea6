// Package profilestore is the SQLite-backed profile store. It satisfies
// the pipeline's store contract: one profile per owner, read once
// pre-merge, written once post-merge, plus a scrape audit log.
package profilestore

import (
	"database/sql"

	"github.com/hazyhaar/siteintel/idgen"
)

// Store wraps an already-opened database (see dbopen.Open with Schema).
type Store struct {
	DB    *sql.DB
	newID idgen.Generator
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator sets a custom ID generator for profile and log rows.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store from an open database connection.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		DB:    db,
		newID: idgen.Prefixed("prof_", idgen.Default),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
