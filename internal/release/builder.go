package release

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Environment variables that redirect the package builder's artifact cache
// and discovery search path into the run's cache subdirectory. Pointing all
// three at the workspace keeps runs from polluting a shared global cache.
const (
	envPipCacheDir  = "PIP_CACHE_DIR"
	envPipFindLinks = "PIP_FIND_LINKS"
	envPipWheelDir  = "PIP_WHEEL_DIR"
)

// Default builder invocation when none is configured.
var defaultBuilderCommand = []string{"pip", "wheel", "--no-deps", "."}

// Configures the external package-builder invocation.
//
// The builder is a black box to the pipeline: a host command run against
// the staging directory that reads the project descriptor and version file
// and emits artifacts into the cache directory it is handed. All
// configuration is explicit and scoped to the child process; the pipeline
// never mutates its own environment or working directory.
type BuilderConfig struct {

	// Command and arguments. Defaults to "pip wheel --no-deps .".
	Command []string

	// Optional virtualenv root selecting the build toolchain. Its bin
	// directory is prepended to the child's PATH and VIRTUAL_ENV is set,
	// replacing the shell-sourced activate step.
	Venv string
}

// Output of a package-builder invocation.
type ExecResult struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Runs the package builder against the staging directory.
//
// The working directory is set to staging and the child environment is the
// parent's with the three cache-redirect variables pointed at cacheDir and
// the toolchain overrides applied. A non-zero exit, a missing executable,
// or a cancelled context all yield [ErrBuild].
func runBuilder(ctx context.Context, cfg BuilderConfig, staging, cacheDir string) (*ExecResult, error) {
	argv := cfg.Command
	if len(argv) == 0 {
		argv = defaultBuilderCommand
	}

	slog.Info("invoking package builder", "command", strings.Join(argv, " "), "workdir", staging)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = staging
	cmd.Env = cfg.environ(cacheDir)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("%w: builder did not complete: %w", ErrBuild, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result := &ExecResult{
			ExitCode: exitErr.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
		return result, fmt.Errorf("%w: exit code %d: %s", ErrBuild, result.ExitCode, strings.TrimSpace(result.Stderr))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}

	return &ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// Builds the child environment for the builder process.
//
// Starts from the parent environment and overlays the cache-redirect
// variables, plus the virtualenv toolchain selection when configured. The
// overrides exist only in the returned slice, never in this process's
// environment, so sequential runs cannot leak configuration into each
// other.
func (c BuilderConfig) environ(cacheDir string) []string {
	overrides := []string{
		envPipCacheDir + "=" + cacheDir,
		envPipFindLinks + "=" + cacheDir,
		envPipWheelDir + "=" + cacheDir,
	}

	if c.Venv != "" {
		overrides = append(overrides,
			"VIRTUAL_ENV="+c.Venv,
			"PATH="+filepath.Join(c.Venv, "bin")+string(os.PathListSeparator)+os.Getenv("PATH"),
		)
	}

	return mergeEnv(os.Environ(), overrides)
}

// Merges override env vars on top of a base env slice.
func mergeEnv(base, overrides []string) []string {
	merged := make(map[string]string, len(base)+len(overrides))
	for _, entry := range base {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}
	for _, entry := range overrides {
		if k, v, ok := strings.Cut(entry, "="); ok {
			merged[k] = v
		}
	}

	result := make([]string, 0, len(merged))
	for k, v := range merged {
		result = append(result, k+"="+v)
	}
	return result
}
