package release

import "errors"

var (
	ErrMissingVersionFile = errors.New("missing version file")
	ErrWorkspaceExists    = errors.New("workspace already exists")
	ErrWorkspaceLocked    = errors.New("workspace locked by another run")
	ErrStagingCopy        = errors.New("staging copy failed")
	ErrBuild              = errors.New("package build failed")
	ErrArchiveWrite       = errors.New("archive write failed")
	ErrCleanup            = errors.New("workspace cleanup failed")
)
