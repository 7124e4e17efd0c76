package learning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/ShayCichocki/adivina/pkg/models"
)

// newTestStore creates a migrated SQLite store in a temp directory.
func newTestStore(t *testing.T) *SQLStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Migrate())
	return store
}

func TestNewSQLiteStore_CreatesDir(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "path", "test.db")
	store, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	if store.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", store.Path(), dbPath)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("NewSQLiteStore() did not create parent directory")
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Migrate())

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM kb_schema_version").Scan(&version))
	if version != 2 {
		t.Errorf("schema version = %d, want 2", version)
	}
}

func TestSQLStore_LoadEmpty(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Load()
	require.NoError(t, err)
	if len(got) != 0 {
		t.Errorf("Load() = %v, want empty", got)
	}
}

func TestSQLStore_SaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	want := append(models.DefaultEntities(), models.NewEntity("Ballena"))
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLStore_SaveKeepsIDsOfUnchangedRows(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(models.DefaultEntities()))
	before, err := store.List()
	require.NoError(t, err)

	grown := append(models.DefaultEntities(), models.NewEntity("Lince", "Es un animal salvaje"))
	require.NoError(t, store.Save(grown))
	after, err := store.List()
	require.NoError(t, err)

	require.Len(t, after, 5)
	for i := range before {
		if before[i].ID != after[i].ID {
			t.Errorf("record %d ID changed: %s -> %s", i, before[i].ID, after[i].ID)
		}
	}
	if after[4].Entity.Name != "Lince" || after[4].Position != 4 {
		t.Errorf("last record = %+v", after[4])
	}
}

func TestSQLStore_SaveRejectsInvalid(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(models.DefaultEntities()))

	err := store.Save([]models.Entity{models.NewEntity("Gato"), {Name: ""}})
	require.ErrorIs(t, err, models.ErrInvalidEntity)

	// The failed save is rolled back.
	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got, 4)
}

func TestSQLStore_CreateGetDelete(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(models.DefaultEntities()))

	rec, err := store.Create(models.NewEntity("Jirafa", "Cuello largo", "Cuello largo"))
	require.NoError(t, err)
	if rec.Position != 4 {
		t.Errorf("Position = %d, want 4", rec.Position)
	}

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	if diff := cmp.Diff([]string{"Cuello largo"}, got.Entity.Characteristics); diff != "" {
		t.Errorf("Characteristics mismatch (-want +got):\n%s", diff)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
	}

	require.NoError(t, store.Delete(rec.ID))

	gone, err := store.Get(rec.ID)
	require.NoError(t, err)
	if gone != nil {
		t.Errorf("Get() after Delete = %+v, want nil", gone)
	}
	if err := store.Delete(rec.ID); err == nil {
		t.Error("Delete() of missing entity should fail")
	}

	results, err := store.Search("Jirafa")
	require.NoError(t, err)
	if len(results) != 0 {
		t.Errorf("Search() after Delete = %d results, want 0", len(results))
	}
}

func TestSQLStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get("en-missing")
	require.NoError(t, err)
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestSQLStore_CorruptCreatedAt(t *testing.T) {
	store := newTestStore(t)
	r, err := store.Create(models.NewEntity("Gato", "Ronronea"))
	require.NoError(t, err)

	_, err = store.db.Exec("UPDATE entities SET created_at = 'ayer' WHERE id = ?", r.ID)
	require.NoError(t, err)

	_, err = store.Get(r.ID)
	require.ErrorContains(t, err, "parse created_at")

	_, err = store.List()
	require.ErrorContains(t, err, "parse created_at")

	_, err = store.Load()
	require.ErrorContains(t, err, "parse created_at")
}

func TestSQLStore_Search(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(models.DefaultEntities()))

	tests := []struct {
		query string
		want  []string
	}{
		{"Ruge", []string{"León", "Tigre"}},
		{"gato", []string{"Gato"}},
		{"leon", []string{"León"}},
		{"manchas", []string{"Tigre"}},
		{"unicornio", nil},
		{`"raro`, nil},
		{"   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results, err := store.Search(tt.query)
			require.NoError(t, err)

			var names []string
			for _, r := range results {
				names = append(names, r.Entity.Name)
			}
			if diff := cmp.Diff(tt.want, names, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
				t.Errorf("Search(%q) mismatch (-want +got):\n%s", tt.query, diff)
			}
		})
	}
}

func TestSQLStore_ListByCharacteristic(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(models.DefaultEntities()))

	results, err := store.ListByCharacteristic("Es una mascota")
	require.NoError(t, err)

	var names []string
	for _, r := range results {
		names = append(names, r.Entity.Name)
	}
	if diff := cmp.Diff([]string{"Gato", "Perro"}, names); diff != "" {
		t.Errorf("ListByCharacteristic() mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLStore_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "kb.db")

	first, err := OpenStore(DriverSQLite, dbPath, "")
	require.NoError(t, err)
	require.NoError(t, first.Save(models.DefaultEntities()))
	require.NoError(t, first.Close())

	second, err := OpenStore(DriverSQLite, dbPath, "")
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Load()
	require.NoError(t, err)
	if diff := cmp.Diff(models.DefaultEntities(), got); diff != "" {
		t.Errorf("Load() after reopen mismatch (-want +got):\n%s", diff)
	}
}

func TestRebind(t *testing.T) {
	pg := &SQLStore{dialect: DialectPostgres}
	lite := &SQLStore{dialect: DialectSQLite}

	q := "SELECT * FROM entities WHERE id = ? AND name = ?"
	if got := pg.rebind(q); got != "SELECT * FROM entities WHERE id = $1 AND name = $2" {
		t.Errorf("postgres rebind = %q", got)
	}
	if got := lite.rebind(q); got != q {
		t.Errorf("sqlite rebind = %q", got)
	}
}

func TestOpenStore_Drivers(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		driver  string
		path    string
		wantErr bool
	}{
		{DriverSQLite, filepath.Join(dir, "kb.db"), false},
		{DriverJSON, filepath.Join(dir, "kb.json"), false},
		{DriverYAML, filepath.Join(dir, "kb.yaml"), false},
		{DriverPostgres, "", true},
		{"mongo", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			s, err := OpenStore(tt.driver, tt.path, "")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()

			require.NoError(t, s.Save(models.DefaultEntities()))
			got, err := s.Load()
			require.NoError(t, err)
			require.Len(t, got, 4)
		})
	}
}
