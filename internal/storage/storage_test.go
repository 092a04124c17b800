package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqliteStore, err := Open("sqlite", filepath.Join(dir, "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	diskStore, err := Open("disk", filepath.Join(dir, "store"))
	require.NoError(t, err)
	t.Cleanup(func() { diskStore.Close() })

	return map[string]Store{
		"sqlite": sqliteStore,
		"disk":   diskStore,
		"memory": NewMemory(),
	}
}

func TestStore_GetMissingKeepsDefault(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			got := []record{{Name: "default"}}
			ok, err := s.Get("todos", &got)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, []record{{Name: "default"}}, got)
		})
	}
}

func TestStore_SetOverwritesAndDeletes(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			want := []record{{Name: "a", Count: 1, Tags: []string{"x"}}, {Name: "b", Count: 2}}
			require.NoError(t, s.Set("todos", []record{{Name: "old"}}))
			require.NoError(t, s.Set("todos", want))

			var got []record
			ok, err := s.Get("todos", &got)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, want, got)

			require.NoError(t, s.Delete("todos"))
			ok, err = s.Get("todos", &got)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Delete("never-written"))
		})
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daily.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("auth.session", record{Name: "token", Count: 7}))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	var got record
	ok, err := s.Get("auth.session", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record{Name: "token", Count: 7}, got)
}

func TestSQLite_MigratesLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := sql.Open("sqlite", sqliteDSN(path))
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv (key, value) VALUES ('todos', '[{"name":"kept"}]');`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	var got []record
	ok, err := s.Get("todos", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []record{{Name: "kept"}}, got)
	require.NoError(t, s.Set("todos", []record{{Name: "new"}}))
	assert.Contains(t, kvColumnNames(t, s), "updated_at")
}

func TestSQLite_FreshTableHasAllColumns(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, []string{"key", "value", "updated_at"}, kvColumnNames(t, s))
}

func kvColumnNames(t *testing.T, s *SQLite) []string {
	t.Helper()
	rows, err := s.db.Query(`SELECT name FROM pragma_table_info('kv');`)
	require.NoError(t, err)
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())
	return names
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:memdb?mode=memory", sqliteDSN("file:memdb?mode=memory"))
	dsn := sqliteDSN("/var/lib/daily.db")
	assert.Contains(t, dsn, "file:///var/lib/daily.db")
	assert.Contains(t, dsn, "mode=rwc")
}
