package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bracket.db")

	files, err := dbFiles(path)
	require.NoError(t, err)
	assert.Empty(t, files)

	require.NoError(t, os.WriteFile(path, []byte("main"), 0o644))
	require.NoError(t, os.WriteFile(path+"-wal", []byte("journal"), 0o644))

	files, err = dbFiles(path)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, dbFile{path: path, size: 4}, files[0])
	assert.Equal(t, dbFile{path: path + "-wal", size: 7}, files[1])
}
