package state

import "io"

// Migrator handles database schema migrations.
type Migrator interface {
	// Migrate applies all pending schema migrations.
	Migrate() error
}

// HistoryStore defines the interface for round history persistence.
// The game records through it without depending on the SQLite implementation.
type HistoryStore interface {
	io.Closer
	Migrator
	Record(r *Round) error
	Recent(limit int) ([]Round, error)
	Summary() (*Summary, error)
}

// Compile-time verification that DB implements all interfaces.
var (
	_ HistoryStore = (*DB)(nil)
	_ Migrator     = (*DB)(nil)
)
