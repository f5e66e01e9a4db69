package release

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Returns a builder config that runs script with /bin/sh in the staging
// directory.
func shellBuilder(script string) BuilderConfig {
	return BuilderConfig{Command: []string{"/bin/sh", "-c", script}}
}

func TestRunBuilderRedirectsCache(t *testing.T) {
	staging := t.TempDir()
	cache := t.TempDir()

	script := `printf '%s\n%s\n%s\n' "$PIP_CACHE_DIR" "$PIP_FIND_LINKS" "$PIP_WHEEL_DIR" > env.txt`
	if _, err := runBuilder(context.Background(), shellBuilder(script), staging, cache); err != nil {
		t.Fatalf("runBuilder: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(staging, "env.txt"))
	if err != nil {
		t.Fatalf("builder did not run in staging: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 3 {
		t.Fatalf("env.txt = %q, want 3 lines", string(b))
	}
	for i, line := range lines {
		if line != cache {
			t.Fatalf("redirect var %d = %q, want %q", i+1, line, cache)
		}
	}
}

func TestRunBuilderProcessEnvUntouched(t *testing.T) {
	cache := t.TempDir()

	if _, err := runBuilder(context.Background(), shellBuilder("true"), t.TempDir(), cache); err != nil {
		t.Fatalf("runBuilder: %v", err)
	}

	for _, name := range []string{envPipCacheDir, envPipFindLinks, envPipWheelDir} {
		if os.Getenv(name) == cache {
			t.Fatalf("%s leaked into the parent environment", name)
		}
	}
}

func TestRunBuilderVenvToolchain(t *testing.T) {
	staging := t.TempDir()
	venv := t.TempDir()

	cfg := shellBuilder(`printf '%s\n%s\n' "$VIRTUAL_ENV" "$PATH" > toolchain.txt`)
	cfg.Venv = venv

	if _, err := runBuilder(context.Background(), cfg, staging, t.TempDir()); err != nil {
		t.Fatalf("runBuilder: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(staging, "toolchain.txt"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.SplitN(strings.TrimSpace(string(b)), "\n", 2)

	if lines[0] != venv {
		t.Fatalf("VIRTUAL_ENV = %q, want %q", lines[0], venv)
	}
	wantPrefix := filepath.Join(venv, "bin") + string(os.PathListSeparator)
	if !strings.HasPrefix(lines[1], wantPrefix) {
		t.Fatalf("PATH = %q, want prefix %q", lines[1], wantPrefix)
	}
}

func TestRunBuilderCapturesOutput(t *testing.T) {
	result, err := runBuilder(context.Background(),
		shellBuilder(`echo built; echo warning >&2`), t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("runBuilder: %v", err)
	}

	if strings.TrimSpace(result.Stdout) != "built" {
		t.Fatalf("stdout = %q, want built", result.Stdout)
	}
	if strings.TrimSpace(result.Stderr) != "warning" {
		t.Fatalf("stderr = %q, want warning", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Fatalf("exit code = %d, want 0", result.ExitCode)
	}
}

func TestRunBuilderNonZeroExit(t *testing.T) {
	result, err := runBuilder(context.Background(),
		shellBuilder(`echo boom >&2; exit 3`), t.TempDir(), t.TempDir())

	if !errors.Is(err, ErrBuild) {
		t.Fatalf("err = %v, want ErrBuild", err)
	}
	if !strings.Contains(err.Error(), "exit code 3") {
		t.Fatalf("err = %v, want exit code in message", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want stderr in message", err)
	}
	if result == nil || result.ExitCode != 3 {
		t.Fatalf("result = %+v, want exit code 3", result)
	}
}

func TestRunBuilderMissingExecutable(t *testing.T) {
	cfg := BuilderConfig{Command: []string{"/nonexistent/builder"}}
	_, err := runBuilder(context.Background(), cfg, t.TempDir(), t.TempDir())
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("err = %v, want ErrBuild", err)
	}
}

func TestRunBuilderTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := runBuilder(ctx, shellBuilder("sleep 10"), t.TempDir(), t.TempDir())
	if !errors.Is(err, ErrBuild) {
		t.Fatalf("err = %v, want ErrBuild", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded in chain", err)
	}
}

func TestMergeEnv(t *testing.T) {
	base := []string{"PATH=/usr/bin", "HOME=/root"}
	overrides := []string{"PATH=/opt/bin", "EXTRA=1"}

	merged := mergeEnv(base, overrides)

	got := make(map[string]string, len(merged))
	for _, entry := range merged {
		k, v, _ := strings.Cut(entry, "=")
		got[k] = v
	}

	if got["PATH"] != "/opt/bin" {
		t.Fatalf("PATH = %q, want override to win", got["PATH"])
	}
	if got["HOME"] != "/root" {
		t.Fatalf("HOME = %q, want base value preserved", got["HOME"])
	}
	if got["EXTRA"] != "1" {
		t.Fatalf("EXTRA = %q, want 1", got["EXTRA"])
	}
	if len(got) != 3 {
		t.Fatalf("merged = %v, want 3 entries", merged)
	}
}
