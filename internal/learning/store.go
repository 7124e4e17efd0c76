package learning

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// Dialect identifies the SQL database behind a SQLStore.
type Dialect string

const (
	// DialectSQLite is an embedded SQLite file (modernc.org/sqlite).
	DialectSQLite Dialect = "sqlite"
	// DialectPostgres is a PostgreSQL server (github.com/lib/pq).
	DialectPostgres Dialect = "postgres"
)

// Record is a stored entity with its storage metadata.
type Record struct {
	ID        string        // Unique identifier (en-xxxxxxxx)
	Entity    models.Entity // The entity itself
	Position  int           // Order within the knowledge base
	CreatedAt time.Time     // When the entity was first stored
}

// SQLStore provides SQL-backed storage for the knowledge base.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	source  string
	mu      sync.RWMutex
}

// GlobalDBPath returns the path to the global knowledge base database.
func GlobalDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "adivina", "adivina.db")
}

// NewSQLiteStore opens a SQLite knowledge base at dbPath.
// It creates the parent directories if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for concurrent reads
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &SQLStore{
		db:      conn,
		dialect: DialectSQLite,
		source:  dbPath,
	}, nil
}

// NewPostgresStore opens a PostgreSQL knowledge base.
func NewPostgresStore(dsn string) (*SQLStore, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLStore{
		db:      conn,
		dialect: DialectPostgres,
		source:  dsn,
	}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// Path returns the database file path, or the DSN for PostgreSQL.
func (s *SQLStore) Path() string {
	return s.source
}

// Dialect returns the SQL dialect of the store.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

// rebind rewrites ? placeholders into the dialect's form.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Helper functions

// newEntityID returns a fresh entity identifier.
func newEntityID() string {
	return fmt.Sprintf("en-%s", uuid.New().String()[:8])
}

// formatTime formats a time.Time for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses a stored time string.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
