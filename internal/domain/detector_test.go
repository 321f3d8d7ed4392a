package domain

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack.dev/pkg/promptpack/internal/adapter"
	m "promptpack.dev/pkg/promptpack/internal/model"
)

func newTestDetector() *Detector {
	return NewDetector(adapter.NewLocalSourceFSAdapter())
}

func TestDetect_GoProjectByMarker(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":         "module example.com/demo\n",
		"main.go":        "package main\n",
		"pkg/util/u.go":  "package util\n",
		"docs/README.md": "# demo\n",
	})

	profile, err := newTestDetector().Detect(m.Path(root))
	require.NoError(t, err)

	assert.True(t, profile.IsCodeProject)
	assert.Contains(t, profile.Languages, "go")
	assert.Contains(t, profile.Markers, "go.mod")
	assert.NotEmpty(t, profile.Evidence)
}

func TestDetect_CensusWithoutMarkers(t *testing.T) {
	root := t.TempDir()

	files := map[string]string{}
	for i := 0; i < DefaultMinSourceFiles; i++ {
		files[fmt.Sprintf("lib/mod%d.py", i)] = "x = 1\n"
	}

	writeTree(t, root, files)

	profile, err := newTestDetector().Detect(m.Path(root))
	require.NoError(t, err)

	assert.True(t, profile.IsCodeProject)
	assert.Contains(t, profile.Languages, "python")
	assert.Empty(t, profile.Markers)
}

func TestDetect_NotACodeProject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"notes.txt":    "shopping list\n",
		"photos/a.py":  "x\n",
		"photos/b.py":  "y\n",
	})

	_, err := newTestDetector().Detect(m.Path(root))
	require.Error(t, err)

	var notCode *m.NotCodeProjectError
	require.True(t, errors.As(err, &notCode))

	assert.False(t, notCode.Profile.IsCodeProject)
	assert.NotEmpty(t, notCode.Profile.Evidence)
}

func TestDetect_TargetIsAFile(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"go.mod": "module x\n"})

	_, err := newTestDetector().Detect(m.Path(filepath.Join(root, "go.mod")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, m.ErrNotDirectory))
}

func TestDetect_SkipsVendoredTrees(t *testing.T) {
	root := t.TempDir()

	files := map[string]string{"README.txt": "hi\n"}
	for i := 0; i < 20; i++ {
		files[fmt.Sprintf("node_modules/dep/f%d.js", i)] = "x\n"
	}

	writeTree(t, root, files)

	// The vendored census must not turn a non-project into a project.
	_, err := newTestDetector().Detect(m.Path(root))

	var notCode *m.NotCodeProjectError
	require.True(t, errors.As(err, &notCode))
	assert.False(t, notCode.Profile.IsCodeProject)
}

func TestDetect_MinSourceFilesOverride(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.rs": "fn main() {}\n",
		"b.rs": "fn helper() {}\n",
	})

	det := newTestDetector()
	det.MinSourceFiles = 2

	profile, err := det.Detect(m.Path(root))
	require.NoError(t, err)
	assert.True(t, profile.IsCodeProject)
	assert.Contains(t, profile.Languages, "rust")
}
