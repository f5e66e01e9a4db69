package release

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Returns the deterministic archive name for a release.
//
// The version token is used verbatim; no normalization is applied.
func archiveName(projectID, version, suffix string) string {
	return fmt.Sprintf("%s-v%s-%s.tgz", projectID, version, suffix)
}

// Compresses the distribution directory's contents into a .tgz at destPath.
//
// The archive is rooted at the directory's contents, not the directory
// itself, so unpacking yields the version file and the cache subdirectory
// without an extra path prefix. The archive is written to a temporary name
// in the destination directory and renamed into place only after a clean
// close, so a failed compression never leaves a truncated file that could
// be mistaken for a finished release. Any I/O error yields
// [ErrArchiveWrite].
func writeArchive(distDir, destPath string) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), filepath.Base(destPath)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	if err := compressTree(tmp, distDir); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	if err := os.Rename(tmp.Name(), destPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	slog.Debug("archive written", "path", destPath)
	return nil
}

// Writes a gzip-compressed tar of dir's contents to w.
func compressTree(w io.Writer, dir string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	if err := writeDirToTar(tw, dir); err != nil {
		tw.Close()
		gz.Close()
		return err
	}

	if err := tw.Close(); err != nil {
		gz.Close()
		return err
	}
	return gz.Close()
}

// Writes a directory tree to a tar writer, rooted at the tree's contents.
func writeDirToTar(tw *tar.Writer, hostDir string) error {
	return filepath.WalkDir(hostDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(hostDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		return writeTarEntry(tw, path, filepath.ToSlash(relPath), d)
	})
}

// Writes a single file or directory entry to a tar writer.
func writeTarEntry(tw *tar.Writer, hostPath, archivePath string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = archivePath

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	if info.Mode().IsRegular() {
		f, err := os.Open(hostPath)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	}

	return nil
}
