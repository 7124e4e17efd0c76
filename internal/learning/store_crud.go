package learning

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Load returns the knowledge base in stored order.
func (s *SQLStore) Load() ([]models.Entity, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}

	out := make([]models.Entity, len(records))
	for i, r := range records {
		out[i] = r.Entity
	}
	return out, nil
}

// List returns every stored record in knowledge base order.
func (s *SQLStore) List() ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, name, position, created_at
		FROM entities
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("list entities: %w", err)
	}

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}
	if err := s.fillCharacteristics(records); err != nil {
		return nil, err
	}
	return records, nil
}

// Save replaces the stored knowledge base with entities, in order.
// Rows whose position and name are unchanged keep their ID and creation time.
func (s *SQLStore) Save(entities []models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	type existing struct {
		id        string
		name      string
		createdAt string
	}
	prev := make(map[int]existing)

	rows, err := s.db.Query("SELECT id, name, position, created_at FROM entities")
	if err != nil {
		return fmt.Errorf("read existing entities: %w", err)
	}
	for rows.Next() {
		var e existing
		var pos int
		if err := rows.Scan(&e.id, &e.name, &pos, &e.createdAt); err != nil {
			rows.Close()
			return fmt.Errorf("scan entity: %w", err)
		}
		prev[pos] = e
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterate entities: %w", err)
	}
	rows.Close()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := s.clear(tx); err != nil {
		tx.Rollback()
		return err
	}

	now := formatTime(time.Now())
	for i, e := range entities {
		if err := e.Validate(); err != nil {
			tx.Rollback()
			return fmt.Errorf("entity %d: %w", i, err)
		}
		id, createdAt := newEntityID(), now
		if p, ok := prev[i]; ok && p.name == e.Name {
			id, createdAt = p.id, p.createdAt
		}
		if err := s.insert(tx, id, e, i, createdAt); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit knowledge base: %w", err)
	}
	return nil
}

// Create appends a single entity to the end of the knowledge base.
func (s *SQLStore) Create(e models.Entity) (*Record, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	var pos int
	if err := tx.QueryRow("SELECT COALESCE(MAX(position), -1) + 1 FROM entities").Scan(&pos); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("next position: %w", err)
	}

	r := &Record{
		ID:        newEntityID(),
		Entity:    models.NewEntity(e.Name, e.Characteristics...),
		Position:  pos,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.insert(tx, r.ID, r.Entity, r.Position, formatTime(r.CreatedAt)); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entity: %w", err)
	}
	return r, nil
}

// Get retrieves an entity by its ID. It returns nil, nil when not found.
func (s *SQLStore) Get(id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		r         Record
		createdAt string
	)
	err := s.db.QueryRow(s.rebind(`
		SELECT id, name, position, created_at
		FROM entities WHERE id = ?
	`), id).Scan(&r.ID, &r.Entity.Name, &r.Position, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query entity: %w", err)
	}

	ca, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	r.CreatedAt = ca

	records := []*Record{&r}
	if err := s.fillCharacteristics(records); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes an entity from the store.
func (s *SQLStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Characteristics go first so PostgreSQL and SQLite behave the same
	// whether or not foreign keys are enforced.
	if _, err := tx.Exec(s.rebind("DELETE FROM entity_characteristics WHERE entity_id = ?"), id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete characteristics: %w", err)
	}

	result, err := tx.Exec(s.rebind("DELETE FROM entities WHERE id = ?"), id)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("delete entity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("entity not found: %s", id)
	}

	if s.dialect == DialectSQLite {
		if _, err := tx.Exec("DELETE FROM entities_fts WHERE entity_id = ?", id); err != nil {
			tx.Rollback()
			return fmt.Errorf("delete search entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// clear removes every entity.
func (s *SQLStore) clear(tx execer) error {
	stmts := []string{"DELETE FROM entity_characteristics", "DELETE FROM entities"}
	if s.dialect == DialectSQLite {
		stmts = append(stmts, "DELETE FROM entities_fts")
	}
	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("clear knowledge base: %w", err)
		}
	}
	return nil
}

// insert writes one entity, its characteristics and its search entry.
func (s *SQLStore) insert(tx execer, id string, e models.Entity, position int, createdAt string) error {
	e = models.NewEntity(e.Name, e.Characteristics...)

	_, err := tx.Exec(s.rebind(`
		INSERT INTO entities (id, name, position, created_at)
		VALUES (?, ?, ?, ?)
	`), id, e.Name, position, createdAt)
	if err != nil {
		return fmt.Errorf("insert entity: %w", err)
	}

	for i, c := range e.Characteristics {
		_, err := tx.Exec(s.rebind(`
			INSERT INTO entity_characteristics (entity_id, characteristic, position)
			VALUES (?, ?, ?)
		`), id, c, i)
		if err != nil {
			return fmt.Errorf("insert characteristic %q: %w", c, err)
		}
	}

	if s.dialect == DialectSQLite {
		_, err := tx.Exec(`
			INSERT INTO entities_fts (entity_id, name, characteristics)
			VALUES (?, ?, ?)
		`, id, e.Name, strings.Join(e.Characteristics, "\n"))
		if err != nil {
			return fmt.Errorf("index entity: %w", err)
		}
	}
	return nil
}
