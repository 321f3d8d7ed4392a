package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func TestSourceFS_ReadFileCapsSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	require.NoError(t, os.WriteFile(path, []byte("0123456789"), 0o644))

	fs := NewLocalSourceFSAdapter()

	content, err := fs.ReadFile(m.Path(path), 4)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(content))

	full, err := fs.ReadFile(m.Path(path), 100)
	require.NoError(t, err)
	assert.Equal(t, "0123456789", string(full))
}

func TestSourceFS_RelReturnsSlashedPaths(t *testing.T) {
	fs := NewLocalSourceFSAdapter()

	dir := t.TempDir()
	sub := filepath.Join(dir, "a", "b", "c.txt")

	rel, err := fs.Rel(m.Path(dir), m.Path(sub))
	require.NoError(t, err)
	assert.Equal(t, "a/b/c.txt", rel)
}

func TestSourceFS_WalkVisitsTree(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "f.txt"), []byte("x"), 0o644))

	fs := NewLocalSourceFSAdapter()

	var seen []string

	err := fs.Walk(m.Path(dir), func(p string, _ os.DirEntry, err error) error {
		require.NoError(t, err)

		rel, relErr := fs.Rel(m.Path(dir), m.Path(p))
		require.NoError(t, relErr)

		seen = append(seen, rel)

		return nil
	})
	require.NoError(t, err)

	assert.Contains(t, seen, "sub")
	assert.Contains(t, seen, "sub/f.txt")
}
