package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenInMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.DB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='nodes'").Scan(&name)
	require.NoError(t, err)
	require.Equal(t, "nodes", name)
}

func TestOpenFileCreatesDirAndLocksFile(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "proj", "hermes.db")

	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	// A second Open on the same path must fail: single-writer lock.
	_, err = Open(dbPath)
	require.Error(t, err)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.migrate())
	require.NoError(t, s.migrate())

	var version int
	err = s.DB().QueryRow("SELECT version FROM schema_version").Scan(&version)
	require.NoError(t, err)
	require.Equal(t, schemaVersion, version)
}
