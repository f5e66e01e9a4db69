package release

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Name of the version file at the project root.
const versionFilename = "VERSION"

// Reads the release version token from the project root.
//
// The token is the first line of the VERSION file, trimmed of surrounding
// whitespace. It is treated as an opaque string and used verbatim in the
// archive name; no format is imposed. A missing, unreadable, or empty file
// yields [ErrMissingVersionFile].
func readVersion(root string) (string, error) {
	path := filepath.Join(root, versionFilename)

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMissingVersionFile, err)
	}

	version, _, _ := strings.Cut(string(b), "\n")
	version = strings.TrimSpace(version)
	if version == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingVersionFile, path)
	}

	return version, nil
}
