package adapter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	m "promptpack.dev/pkg/promptpack/internal/model"
)

// lockAcquireTimeout bounds how long a writer waits for a concurrent run to
// finish updating the artifact directory.
const lockAcquireTimeout = 10 * time.Second

// ArtifactStore persists tool artifacts and their "latest" pointer files.
type ArtifactStore interface {
	// Write renders the envelope to <PREFIX>_YYYYMMDD_HHMMSSZ.txt inside
	// dir and updates <PREFIX>_latest.txt to name it. It returns both
	// paths.
	Write(dir string, prefix string, env m.ArtifactEnvelope, at time.Time) (artifactPath, latestPath string, err error)
}

// LocalArtifactStore writes artifacts to the local filesystem, serialized
// with a file lock so concurrent runs cannot interleave pointer updates.
type LocalArtifactStore struct{}

// NewLocalArtifactStore constructs a LocalArtifactStore.
func NewLocalArtifactStore() *LocalArtifactStore {
	return &LocalArtifactStore{}
}

// Write persists the artifact and the latest pointer file.
func (s *LocalArtifactStore) Write(dir string, prefix string, env m.ArtifactEnvelope, at time.Time) (string, string, error) {
	if dir == "" {
		return "", "", fmt.Errorf("artifact directory is empty")
	}

	if prefix == "" {
		return "", "", fmt.Errorf("artifact prefix is empty")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create artifact directory: %w", err)
	}

	lock := flock.New(filepath.Join(dir, "."+prefix+".lock"))

	locked, err := tryLockWithTimeout(lock)
	if err != nil {
		return "", "", fmt.Errorf("lock artifact directory: %w", err)
	}

	if locked {
		defer func() { _ = lock.Unlock() }()
	} else {
		// Proceed without the lock rather than fail the run; the pointer
		// update is a single small write.
		slog.Warn("artifact directory lock not acquired, writing anyway", "dir", dir)
	}

	name := fmt.Sprintf("%s_%s.txt", prefix, at.UTC().Format("20060102_150405Z"))
	artifactPath := filepath.Join(dir, name)

	if err := os.WriteFile(artifactPath, []byte(env.Render()), 0o644); err != nil {
		return "", "", fmt.Errorf("write artifact: %w", err)
	}

	latestPath := filepath.Join(dir, prefix+"_latest.txt")
	if err := os.WriteFile(latestPath, []byte(name+"\n"), 0o644); err != nil {
		return artifactPath, "", fmt.Errorf("write latest pointer: %w", err)
	}

	slog.Debug("artifact written", "path", artifactPath, "run_id", env.Meta.RunID)

	return artifactPath, latestPath, nil
}

func tryLockWithTimeout(lock *flock.Flock) (bool, error) {
	deadline := time.Now().Add(lockAcquireTimeout)

	for {
		locked, err := lock.TryLock()
		if err != nil {
			return false, err
		}

		if locked {
			return true, nil
		}

		if time.Now().After(deadline) {
			return false, nil
		}

		time.Sleep(100 * time.Millisecond)
	}
}
