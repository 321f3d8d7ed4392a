// Package adapter contains infrastructure adapters for the promptpack CLI.
package adapter

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// WalkFunc mirrors the callback shape of filepath.WalkDir. It is defined
// here so the domain layer does not depend on io/fs directly.
type WalkFunc func(path string, entry fs.DirEntry, err error) error

// SkipDir instructs Walk to skip the current directory's subtree.
var SkipDir = fs.SkipDir

// SourceFSAdapter abstracts the filesystem operations the domain layer
// relies on when detecting and scanning user projects. It hides direct `os`
// access so scanner and detector logic can be tested against temp trees
// without caring about platform path separators.
type SourceFSAdapter interface {
	// Walk traverses root depth-first, visiting directories before their
	// contents. Returning SkipDir from fn prunes the subtree.
	Walk(root m.Path, fn WalkFunc) error

	// ReadFile loads at most maxBytes of the file at path. maxBytes <= 0
	// means no limit.
	ReadFile(path m.Path, maxBytes int64) ([]byte, error)

	// Stat returns metadata for a path.
	Stat(path m.Path) (os.FileInfo, error)

	// Abs resolves a path to an absolute one.
	Abs(path m.Path) (m.Path, error)

	// Rel returns target relative to base, in POSIX form.
	Rel(base, target m.Path) (string, error)

	// Join joins path elements into a single OS path.
	Join(elem ...string) m.Path
}

// LocalSourceFSAdapter is the os-backed implementation of SourceFSAdapter.
type LocalSourceFSAdapter struct{}

// NewLocalSourceFSAdapter constructs a LocalSourceFSAdapter ready to be
// wired into the domain services.
func NewLocalSourceFSAdapter() *LocalSourceFSAdapter {
	return &LocalSourceFSAdapter{}
}

// Walk traverses the tree rooted at root using filepath.WalkDir.
func (a *LocalSourceFSAdapter) Walk(root m.Path, fn WalkFunc) error {
	return filepath.WalkDir(string(root), func(path string, entry fs.DirEntry, err error) error {
		return fn(path, entry, err)
	})
}

// ReadFile loads file contents from disk, bounded by maxBytes.
func (a *LocalSourceFSAdapter) ReadFile(path m.Path, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		return os.ReadFile(string(path))
	}

	f, err := os.Open(string(path))
	if err != nil {
		return nil, err
	}

	defer func() { _ = f.Close() }()

	return io.ReadAll(io.LimitReader(f, maxBytes))
}

// Stat returns os.FileInfo metadata for the given path.
func (a *LocalSourceFSAdapter) Stat(path m.Path) (os.FileInfo, error) {
	return os.Stat(string(path))
}

// Abs resolves path to an absolute path.
func (a *LocalSourceFSAdapter) Abs(path m.Path) (m.Path, error) {
	abs, err := filepath.Abs(string(path))
	if err != nil {
		return "", err
	}

	return m.Path(abs), nil
}

// Rel returns the POSIX-style relative path from base to target.
func (a *LocalSourceFSAdapter) Rel(base, target m.Path) (string, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return filepath.ToSlash(rel), nil
}

// Join joins path elements into a single path.
func (a *LocalSourceFSAdapter) Join(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}
