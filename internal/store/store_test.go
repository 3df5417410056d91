package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "abhyasa.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should exist after creating store")
	assert.Equal(t, dbPath, s.Path())
}

func TestNewStore_RunsMigrations(t *testing.T) {
	s := newTestStore(t)

	var name string
	err := s.db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='settings'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "settings", name)
}

func TestNewStore_Reopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Settings().Set("difficulty", "1.4"))
	require.NoError(t, s.Close())

	s, err = New(dbPath)
	require.NoError(t, err, "migrations are idempotent")
	defer s.Close()

	v, err := s.Settings().Get("difficulty")
	require.NoError(t, err)
	assert.Equal(t, "1.4", v)
}

func TestSettingsRepository(t *testing.T) {
	repo := newTestStore(t).Settings()

	_, err := repo.Get("error-margin")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.Set("error-margin", "0.3"))
	require.NoError(t, repo.Set("repetitions", "12"))
	require.NoError(t, repo.Set("error-margin", "0.4"))

	v, err := repo.Get("error-margin")
	require.NoError(t, err)
	assert.Equal(t, "0.4", v)

	all, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"error-margin": "0.4", "repetitions": "12"}, all)

	require.NoError(t, repo.Delete("repetitions"))
	assert.ErrorIs(t, repo.Delete("repetitions"), ErrNotFound)
}

func TestNewStore_Memory(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Settings().Set("k", "v"))
	v, err := s.Settings().Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
