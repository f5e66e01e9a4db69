package release

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/brunnerj/Transtector-cme-init/internal/paths"
)

const (

	// Name of the buildable source package tree at the project root.
	sourceDirName = "cmeinit"

	// Name of the project descriptor file consumed by the package builder.
	descriptorFilename = "setup.py"
)

// Copies the buildable inputs from the project root into staging.
//
// The copy set is an explicit allow-list: the source package tree
// (recursively), the version file, and the project descriptor. Nothing
// else from the repository is copied, so the package builder never sees
// version control metadata, virtual environments, or prior build output,
// and the set stays correct as the repository grows. Any missing or
// unreadable input yields [ErrStagingCopy].
func stageSources(root, staging string) error {
	slog.Debug("staging sources", "root", root, "staging", staging)

	tree := filepath.Join(root, sourceDirName)
	if err := copyTree(tree, filepath.Join(staging, sourceDirName)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrStagingCopy, tree, err)
	}

	for _, name := range []string{versionFilename, descriptorFilename} {
		src := filepath.Join(root, name)
		if err := copyFile(src, filepath.Join(staging, name)); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrStagingCopy, src, err)
		}
	}

	return nil
}

// Copies a directory tree, preserving file modes.
//
// Only directories and regular files are copied. Other entries (sockets,
// device nodes, symlinks) have no place in a buildable source tree and are
// skipped with a debug log.
func copyTree(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, relPath)

		if d.IsDir() {
			return os.MkdirAll(target, paths.DefaultDirMode)
		}

		if !d.Type().IsRegular() {
			slog.Debug("skipping irregular entry", "path", path)
			return nil
		}

		return copyFile(path, target)
	})
}

// Copies a single regular file, preserving its mode.
func copyFile(src, dest string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
