package release

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/opencontainers/go-digest"

	"github.com/brunnerj/Transtector-cme-init/internal/paths"
)

// Filename of the artifact manifest written to the distribution root.
const manifestFilename = "manifest.json"

// Describes the contents of a release archive.
//
// The manifest travels inside the archive so the fleet-side installer can
// verify artifact integrity before installing. Artifact contents are not
// otherwise validated by the pipeline.
type Manifest struct {
	Version   string     `json:"version"`
	Created   time.Time  `json:"created"`
	Artifacts []Artifact `json:"artifacts"`
}

// A single file produced by the package builder.
type Artifact struct {
	Name   string        `json:"name"` // Path relative to the cache directory, slash-separated.
	Size   int64         `json:"size"`
	Digest digest.Digest `json:"digest"` // Canonical (sha256) digest of the file contents.
}

// Collects the builder's output files from the cache directory.
//
// Every regular file under cacheDir is recorded with its size and content
// digest. An empty result means the builder exited zero without producing
// anything; the caller treats that as a build failure.
func collectArtifacts(cacheDir string) ([]Artifact, error) {
	var artifacts []Artifact

	err := filepath.WalkDir(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(cacheDir, path)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		dgst, err := digestFile(path)
		if err != nil {
			return err
		}

		artifacts = append(artifacts, Artifact{
			Name:   filepath.ToSlash(relPath),
			Size:   info.Size(),
			Digest: dgst,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return artifacts, nil
}

// Computes the canonical digest of a file's contents.
func digestFile(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return digest.FromReader(f)
}

// Writes the manifest to the distribution root.
func writeManifest(distDir, version string, artifacts []Artifact) error {
	m := Manifest{
		Version:   version,
		Created:   time.Now().UTC(),
		Artifacts: artifacts,
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	path := filepath.Join(distDir, manifestFilename)
	if err := os.WriteFile(path, b, paths.DefaultFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}
	return nil
}
