package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behavior every backend must share
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "nextup-favorites", []byte(`[{"id":"8503000"}]`)))
	got, err := s.Get(ctx, "nextup-favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"8503000"}]`, string(got))

	// Overwrite replaces the whole value
	require.NoError(t, s.Put(ctx, "nextup-favorites", []byte(`[]`)))
	got, err = s.Get(ctx, "nextup-favorites")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "nextup-favorites"))
	_, err = s.Get(ctx, "nextup-favorites")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is not an error
	assert.NoError(t, s.Delete(ctx, "nextup-favorites"))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemory()
	value := []byte(`{"a":1}`)
	require.NoError(t, s.Put(context.Background(), "k", value))
	value[0] = 'X'

	got, err := s.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	s, err := OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestFileStore_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	ctx := context.Background()

	s, err := OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "nextup-preferences", []byte(`{"german":true}`)))

	_, err = os.Stat(path)
	require.NoError(t, err, "expected state file to be created on first write")

	reopened, err := OpenFile(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "nextup-preferences")
	require.NoError(t, err)
	assert.JSONEq(t, `{"german":true}`, string(got))
}

func TestFileStore_RejectsNonJSON(t *testing.T) {
	s, err := OpenFile(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	assert.Error(t, s.Put(context.Background(), "k", []byte("not json")))
}

func TestFileStore_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("invalid json { content"), 0644))

	_, err := OpenFile(path)
	assert.Error(t, err)
}

func TestFileStore_NullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("null"), 0644))

	s, err := OpenFile(path)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "nextup.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("NEXTUP_TEST_POSTGRES")
	if testing.Short() || dsn == "" {
		t.Skip("Skipping postgres store test: set NEXTUP_TEST_POSTGRES to a database URL")
	}

	s, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(ctx, "memory:")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(ctx, "file://"+filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, filepath.Join(dir, "b.json"))
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	s, err = Open(ctx, "sqlite://"+filepath.Join(dir, "c.db"))
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, s)
	s.Close()

	_, err = Open(ctx, "")
	assert.Error(t, err)
}
