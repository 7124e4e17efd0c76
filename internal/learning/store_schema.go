package learning

// Migrate creates the necessary tables and indexes if they don't exist.
func (s *SQLStore) Migrate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS kb_schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM kb_schema_version")
	if err := row.Scan(&currentVersion); err != nil {
		return err
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1Entities},
		{2, migrationV2SearchSQLite},
	}
	if s.dialect == DialectPostgres {
		migrations[1].sql = migrationV2SearchPostgres
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}

		tx, err := s.db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return err
		}

		if _, err := tx.Exec(s.rebind("INSERT INTO kb_schema_version (version) VALUES (?)"), m.version); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// Migration SQL statements
const migrationV1Entities = `
CREATE TABLE IF NOT EXISTS entities (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	position INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entities_position ON entities(position);
CREATE INDEX IF NOT EXISTS idx_entities_name ON entities(name);

CREATE TABLE IF NOT EXISTS entity_characteristics (
	entity_id TEXT NOT NULL,
	characteristic TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (entity_id, characteristic),
	FOREIGN KEY (entity_id) REFERENCES entities(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_entity_characteristics_characteristic ON entity_characteristics(characteristic);
`

// Full-text search over names and characteristics. The table is kept in
// sync by the store, not by triggers, because characteristics live in a
// child table.
const migrationV2SearchSQLite = `
CREATE VIRTUAL TABLE IF NOT EXISTS entities_fts USING fts5(
	entity_id UNINDEXED,
	name,
	characteristics
);
`

const migrationV2SearchPostgres = `
CREATE INDEX IF NOT EXISTS idx_entity_characteristics_lower ON entity_characteristics(LOWER(characteristic));
CREATE INDEX IF NOT EXISTS idx_entities_name_lower ON entities(LOWER(name));
`
