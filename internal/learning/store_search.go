package learning

import (
	"database/sql"
	"fmt"
	"strings"
)

// Search finds entities whose name or characteristics match the query.
// SQLite uses the FTS5 index; PostgreSQL falls back to a substring match.
func (s *SQLStore) Search(query string) ([]*Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		rows *sql.Rows
		err  error
	)
	switch s.dialect {
	case DialectPostgres:
		rows, err = s.db.Query(`
			SELECT DISTINCT e.id, e.name, e.position, e.created_at
			FROM entities e
			LEFT JOIN entity_characteristics c ON c.entity_id = e.id
			WHERE e.name ILIKE '%' || $1::text || '%' OR c.characteristic ILIKE '%' || $1::text || '%'
			ORDER BY e.position
		`, query)
	default:
		rows, err = s.db.Query(`
			SELECT e.id, e.name, e.position, e.created_at
			FROM entities e
			JOIN entities_fts fts ON e.id = fts.entity_id
			WHERE entities_fts MATCH ?
			ORDER BY rank
		`, ftsPhrase(query))
	}
	if err != nil {
		return nil, fmt.Errorf("search entities: %w", err)
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

// ListByCharacteristic returns the entities that hold the exact characteristic.
func (s *SQLStore) ListByCharacteristic(characteristic string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(s.rebind(`
		SELECT e.id, e.name, e.position, e.created_at
		FROM entities e
		JOIN entity_characteristics c ON c.entity_id = e.id
		WHERE c.characteristic = ?
		ORDER BY e.position
	`), characteristic)
	if err != nil {
		return nil, fmt.Errorf("list by characteristic: %w", err)
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

// scanRecords reads id, name, position, created_at rows and closes them.
func scanRecords(rows *sql.Rows) ([]*Record, error) {
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			r         Record
			createdAt string
		)
		if err := rows.Scan(&r.ID, &r.Entity.Name, &r.Position, &createdAt); err != nil {
			return nil, fmt.Errorf("scan entity: %w", err)
		}
		ca, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		r.CreatedAt = ca
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entities: %w", err)
	}
	return records, nil
}

// fillCharacteristics loads the characteristics of each record in stored order.
// Callers must hold the store lock.
func (s *SQLStore) fillCharacteristics(records []*Record) error {
	query := s.rebind(`
		SELECT characteristic FROM entity_characteristics
		WHERE entity_id = ?
		ORDER BY position
	`)
	for _, r := range records {
		rows, err := s.db.Query(query, r.ID)
		if err != nil {
			return fmt.Errorf("query characteristics: %w", err)
		}
		chars := []string{}
		for rows.Next() {
			var c string
			if err := rows.Scan(&c); err != nil {
				rows.Close()
				return fmt.Errorf("scan characteristic: %w", err)
			}
			chars = append(chars, c)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return fmt.Errorf("iterate characteristics: %w", err)
		}
		r.Entity.Characteristics = chars
	}
	return nil
}

// ftsPhrase quotes user input as a single FTS5 phrase.
func ftsPhrase(query string) string {
	return `"` + strings.ReplaceAll(query, `"`, `""`) + `"`
}
