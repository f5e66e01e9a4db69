package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory and file naming.
	toolName = "cme-build"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the directory for persistent run records (logs).
//
//	Linux:   ~/.local/state/cme-build
//	macOS:   ~/Library/Application Support/cme-build
func State() string {
	return filepath.Join(xdg.StateHome, toolName)
}

// Default path to the run log.
//
// Every invocation appends its pipeline log here, in addition to the
// console output, so a failed fleet build can be diagnosed after the fact.
//
//	Linux:   ~/.local/state/cme-build/build.log
func RunLog() string {
	return filepath.Join(State(), "build.log")
}
