package main

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverMigrations(t *testing.T) {
	dir := fstest.MapFS{
		"002_indexes.sql":      {Data: []byte("CREATE INDEX a ON t (x);")},
		"001_approved_bom.sql": {Data: []byte("CREATE TABLE t (x int);")},
		"README.md":            {Data: []byte("notes")},
	}

	got, err := discoverMigrations(dir)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001", got[0].version)
	assert.Equal(t, "001_approved_bom.sql", got[0].filename)
	assert.Len(t, got[0].checksum, 64)
	assert.NotEqual(t, got[0].checksum, got[1].checksum)
}

func TestDiscoverMigrations_Rejects(t *testing.T) {
	_, err := discoverMigrations(fstest.MapFS{
		"001_a.sql": {Data: []byte("SELECT 1;")},
		"001_b.sql": {Data: []byte("SELECT 2;")},
	})
	assert.ErrorContains(t, err, "duplicate")

	_, err = discoverMigrations(fstest.MapFS{"schema.sql": {Data: []byte("SELECT 1;")}})
	assert.ErrorContains(t, err, "NNN_description.sql")
}

func TestDiscoverMigrations_RepoFiles(t *testing.T) {
	got, err := discoverMigrations(os.DirFS("../../migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "001", got[0].version)
}
