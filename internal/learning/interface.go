package learning

import (
	"fmt"
	"path/filepath"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// Store persists the knowledge base between processes.
// The game loads it once at startup and saves it after every learning event.
type Store interface {
	// Load returns the stored entities in knowledge base order.
	Load() ([]models.Entity, error)

	// Save replaces the stored knowledge base with entities.
	Save(entities []models.Entity) error

	// Close releases any resources held by the store.
	Close() error
}

// Verify implementations satisfy Store at compile time.
var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*FileStore)(nil)
)

// Store drivers accepted by OpenStore.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverJSON     = "json"
	DriverYAML     = "yaml"
)

// OpenStore opens the knowledge base store for driver. path is used by the
// sqlite, json and yaml drivers; dsn by postgres. SQL stores are migrated
// before being returned.
func OpenStore(driver, path, dsn string) (Store, error) {
	switch driver {
	case DriverSQLite, "":
		if path == "" {
			path = GlobalDBPath()
		}
		s, err := NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("open knowledge base: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrate knowledge base: %w", err)
		}
		return s, nil
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("postgres driver requires store.dsn")
		}
		s, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, fmt.Errorf("open knowledge base: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrate knowledge base: %w", err)
		}
		return s, nil
	case DriverJSON, DriverYAML:
		if path == "" {
			path = filepath.Join(filepath.Dir(GlobalDBPath()), "adivina."+driver)
		}
		return NewFileStore(path, Format(driver)), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", driver)
	}
}
