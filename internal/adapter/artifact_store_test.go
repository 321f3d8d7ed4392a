package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

func testEnvelope(runID string) m.ArtifactEnvelope {
	return m.ArtifactEnvelope{
		Meta: m.ArtifactMeta{
			Tool:        "pack",
			RunID:       runID,
			GeneratedAt: "2026-01-02T03:04:05Z",
		},
		XML:    "<pack />",
		JSON:   "{}",
		Prompt: "do things",
	}
}

func TestArtifactStore_Write(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalArtifactStore()

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	artifactPath, latestPath, err := store.Write(dir, "PACK", testEnvelope("run-1"), at)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "PACK_20260102_030405Z.txt"), artifactPath)
	assert.Equal(t, filepath.Join(dir, "PACK_latest.txt"), latestPath)

	content, err := os.ReadFile(artifactPath)
	require.NoError(t, err)
	assert.Equal(t, testEnvelope("run-1").Render(), string(content))

	pointer, err := os.ReadFile(latestPath)
	require.NoError(t, err)
	assert.Equal(t, "PACK_20260102_030405Z.txt\n", string(pointer))
}

func TestArtifactStore_LatestPointerFollowsNewestWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalArtifactStore()

	_, _, err := store.Write(dir, "DIAG", testEnvelope("run-1"), time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	_, latestPath, err := store.Write(dir, "DIAG", testEnvelope("run-2"), time.Date(2026, 1, 2, 4, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	pointer, err := os.ReadFile(latestPath)
	require.NoError(t, err)
	assert.Equal(t, "DIAG_20260102_040000Z.txt\n", string(pointer))

	// Both timestamped artifacts remain on disk.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name()] = true
	}

	assert.True(t, names["DIAG_20260102_030405Z.txt"])
	assert.True(t, names["DIAG_20260102_040000Z.txt"])
}

func TestArtifactStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	store := NewLocalArtifactStore()

	_, _, err := store.Write(dir, "DOC", testEnvelope("run-1"), time.Now())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestArtifactStore_RejectsEmptyArgs(t *testing.T) {
	store := NewLocalArtifactStore()

	_, _, err := store.Write("", "PACK", testEnvelope("run-1"), time.Now())
	assert.Error(t, err)

	_, _, err = store.Write(t.TempDir(), "", testEnvelope("run-1"), time.Now())
	assert.Error(t, err)
}
