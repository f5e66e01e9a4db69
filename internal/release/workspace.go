package release

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/brunnerj/Transtector-cme-init/internal/paths"
)

const (

	// Name of the ephemeral staging directory under the invocation directory.
	stagingDirName = "staging"

	// Name of the ephemeral distribution directory under the invocation
	// directory.
	distDirName = "dist"

	// Name of the artifact cache subdirectory inside the distribution
	// directory. The package builder is pointed here via its environment.
	cacheDirName = "wheelhouse"

	// Name of the lock file guarding the workspace for the run's lifetime.
	lockFilename = ".cme-build.lock"
)

// An ephemeral pair of directories owned exclusively by one run.
//
// The staging directory receives a clean copy of the buildable sources.
// The distribution directory collects the version file and the builder's
// artifact cache, and its contents become the archive payload. Both are
// created together and destroyed together; no other component may delete
// them. A file lock in the invocation directory is held for the workspace
// lifetime so concurrent runs in the same directory fail fast instead of
// trampling each other's paths.
type workspace struct {
	staging string       // Clean copy of buildable sources.
	dist    string       // Collected build outputs, archived at the end.
	cache   string       // Artifact cache subdirectory inside dist.
	lock    *flock.Flock // Held from creation until destroy.
}

// Creates the staging and distribution directories under dir.
//
// Fails with [ErrWorkspaceLocked] when another run holds the lock, and with
// [ErrWorkspaceExists] when either directory pre-exists, so a run never
// silently merges into stale state from a crashed or concurrent run.
func createWorkspace(dir string) (*workspace, error) {
	lock := flock.New(filepath.Join(dir, lockFilename))

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkspaceLocked, err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrWorkspaceLocked, lock.Path())
	}

	ws := &workspace{
		staging: filepath.Join(dir, stagingDirName),
		dist:    filepath.Join(dir, distDirName),
		cache:   filepath.Join(dir, distDirName, cacheDirName),
		lock:    lock,
	}

	for _, p := range []string{ws.staging, ws.dist} {
		if _, err := os.Stat(p); err == nil {
			releaseLock(lock)
			return nil, fmt.Errorf("%w: %s", ErrWorkspaceExists, p)
		}
	}

	for _, p := range []string{ws.staging, ws.cache} {
		if err := os.MkdirAll(p, paths.DefaultDirMode); err != nil {
			releaseLock(lock)
			return nil, fmt.Errorf("creating workspace: %w", err)
		}
	}

	return ws, nil
}

// Recursively removes both workspace directories and releases the lock.
//
// Safe to call regardless of what the package builder left behind; partial
// builder output is removed along with everything else. Removal errors are
// collected and reported as a single [ErrCleanup], but the lock is always
// released.
func (w *workspace) destroy() error {
	err := errors.Join(
		os.RemoveAll(w.staging),
		os.RemoveAll(w.dist),
	)

	releaseLock(w.lock)

	if err != nil {
		return fmt.Errorf("%w: %w", ErrCleanup, err)
	}
	return nil
}

// Releases a held lock and removes its file.
//
// Only ever called by the lock's holder, so removing the file cannot race
// another run's live lock.
func releaseLock(lock *flock.Flock) {
	lock.Unlock()
	os.Remove(lock.Path())
}
