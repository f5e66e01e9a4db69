package release

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/opencontainers/go-digest"
)

func TestCollectArtifacts(t *testing.T) {
	cache := t.TempDir()
	writeFile(t, filepath.Join(cache, "cmeinit-2.3.1-py3-none-any.whl"), "wheel-bytes")
	writeFile(t, filepath.Join(cache, "deps", "semver-2.13.0-py2.py3-none-any.whl"), "dep-bytes")

	artifacts, err := collectArtifacts(cache)
	if err != nil {
		t.Fatalf("collectArtifacts: %v", err)
	}

	if len(artifacts) != 2 {
		t.Fatalf("len(artifacts) = %d, want 2", len(artifacts))
	}

	byName := make(map[string]Artifact, len(artifacts))
	for _, a := range artifacts {
		byName[a.Name] = a
	}

	wheel, ok := byName["cmeinit-2.3.1-py3-none-any.whl"]
	if !ok {
		t.Fatalf("wheel not collected: %v", artifacts)
	}
	if wheel.Size != int64(len("wheel-bytes")) {
		t.Fatalf("size = %d, want %d", wheel.Size, len("wheel-bytes"))
	}
	if wheel.Digest != digest.FromString("wheel-bytes") {
		t.Fatalf("digest = %s, want digest of contents", wheel.Digest)
	}

	if _, ok := byName["deps/semver-2.13.0-py2.py3-none-any.whl"]; !ok {
		t.Fatalf("nested artifact not collected with slash path: %v", artifacts)
	}
}

func TestCollectArtifactsEmptyCache(t *testing.T) {
	artifacts, err := collectArtifacts(t.TempDir())
	if err != nil {
		t.Fatalf("collectArtifacts: %v", err)
	}
	if len(artifacts) != 0 {
		t.Fatalf("artifacts = %v, want none", artifacts)
	}
}

func TestWriteManifest(t *testing.T) {
	dist := t.TempDir()
	artifacts := []Artifact{
		{Name: "cmeinit-2.3.1-py3-none-any.whl", Size: 11, Digest: digest.FromString("wheel-bytes")},
	}

	if err := writeManifest(dist, "2.3.1", artifacts); err != nil {
		t.Fatalf("writeManifest: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dist, manifestFilename))
	if err != nil {
		t.Fatal(err)
	}

	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}

	if m.Version != "2.3.1" {
		t.Fatalf("version = %q, want 2.3.1", m.Version)
	}
	if m.Created.IsZero() {
		t.Fatal("created timestamp not set")
	}
	if len(m.Artifacts) != 1 || m.Artifacts[0] != artifacts[0] {
		t.Fatalf("artifacts = %+v, want %+v", m.Artifacts, artifacts)
	}
}
