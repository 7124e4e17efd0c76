package learning

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// Format is the encoding of a file-backed knowledge base.
type Format string

const (
	// FormatJSON stores the knowledge base as a JSON array.
	FormatJSON Format = "json"
	// FormatYAML stores the knowledge base as a YAML sequence.
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileStore keeps the knowledge base in a single JSON or YAML file:
//
//	[{"name": "Gato", "characteristics": ["Es una mascota", "Ronronea"]}]
//
// A missing file loads as an empty knowledge base.
type FileStore struct {
	path   string
	format Format
	mu     sync.Mutex
}

// NewFileStore creates a store for path in the given format.
func NewFileStore(path string, format Format) *FileStore {
	return &FileStore{path: path, format: format}
}

// Path returns the file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the knowledge base from disk.
func (s *FileStore) Load() ([]models.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.Entity{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	entities, err := Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return entities, nil
}

// Save writes the knowledge base atomically: it writes a temp file in the
// same directory and renames it over the target.
func (s *FileStore) Save(entities []models.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := Encode(entities, s.format)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create knowledge base directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write knowledge base: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace knowledge base: %w", err)
	}
	return nil
}

// Close is a no-op; it satisfies Store.
func (s *FileStore) Close() error {
	return nil
}

// Encode serializes entities in the given format.
func Encode(entities []models.Entity, format Format) ([]byte, error) {
	// Empty characteristic lists encode as [] rather than null.
	out := make([]models.Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
		if out[i].Characteristics == nil {
			out[i].Characteristics = []string{}
		}
	}

	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return data, nil
	case FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

// Decode parses entities in the given format and validates each one.
func Decode(data []byte, format Format) ([]models.Entity, error) {
	var raw []models.Entity
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			return []models.Entity{}, nil
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	out := make([]models.Entity, 0, len(raw))
	for i, e := range raw {
		e = models.NewEntity(e.Name, e.Characteristics...)
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}
