package release

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"
)

// Default deliverable identity, per the 1500-004 release convention.
const (
	defaultProjectID = "1500-004"
	defaultSuffix    = "SWARE-CME_INIT"
)

// Controls a packaging run.
type Options struct {
	Root         string        // Project root containing VERSION, setup.py, and the cmeinit tree.
	Output       string        // Invocation directory receiving the archive. Defaults to Root.
	ProjectID    string        // Deliverable part number used in the archive name.
	Suffix       string        // Deliverable suffix used in the archive name.
	Builder      BuilderConfig // External package-builder invocation.
	BuildTimeout time.Duration // Abort the builder after this long. Zero means no limit.
}

// Returned after a successful packaging run.
type Result struct {
	Archive   string     // Path to the release archive.
	Version   string     // Version token the archive was named with.
	Artifacts []Artifact // Builder outputs recorded in the manifest.
}

// Applies defaults for unset fields.
func (o Options) withDefaults() Options {
	if o.Output == "" {
		o.Output = o.Root
	}
	if o.ProjectID == "" {
		o.ProjectID = defaultProjectID
	}
	if o.Suffix == "" {
		o.Suffix = defaultSuffix
	}
	return o
}

// Executes the packaging pipeline.
//
// The flow is strictly linear: read the version token, create the
// workspace, stage the buildable sources, invoke the package builder,
// archive the distribution directory, and clean up. The first stage error
// aborts the run. Once the workspace exists it is destroyed on every exit
// path, success or failure, so the archive is the run's only persisted
// output.
func Run(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	slog.Info("packaging release",
		"root", opts.Root,
		"output", opts.Output,
		"project", opts.ProjectID,
	)

	return newPipeline(opts).run(ctx)
}

// Holds state shared across the phases of one run.
type pipeline struct {
	opts    Options
	phase   Phase
	version string     // Version token, immutable once read.
	ws      *workspace // Nil until the workspace is created.
}

// Creates a new [pipeline] from the given options.
func newPipeline(opts Options) *pipeline {
	return &pipeline{opts: opts, phase: PhaseInit}
}

// Drives the pipeline from version read through archival.
//
// Workspace teardown is deferred the moment creation succeeds, covering
// every subsequent exit path. Teardown failure is logged and never masks
// the pipeline error.
func (p *pipeline) run(ctx context.Context) (result *Result, err error) {
	if p.version, err = readVersion(p.opts.Root); err != nil {
		p.phase.advance(PhaseFailed)
		return nil, err
	}
	p.phase.advance(PhaseVersionRead)
	slog.Info("read release version", "version", p.version)

	if p.ws, err = createWorkspace(p.opts.Output); err != nil {
		p.phase.advance(PhaseFailed)
		return nil, err
	}
	p.phase.advance(PhaseWorkspaceCreated)
	defer p.cleanup(&err)

	if err = stageSources(p.opts.Root, p.ws.staging); err != nil {
		return nil, err
	}
	p.phase.advance(PhaseStaged)

	artifacts, err := p.build(ctx)
	if err != nil {
		return nil, err
	}
	p.phase.advance(PhaseBuilt)

	archive, err := p.archive(artifacts)
	if err != nil {
		return nil, err
	}
	p.phase.advance(PhaseArchived)

	return &Result{
		Archive:   archive,
		Version:   p.version,
		Artifacts: artifacts,
	}, nil
}

// Invokes the package builder and collects its artifacts.
//
// The builder's cache and discovery paths are redirected into the
// workspace's cache subdirectory. A builder that exits zero without
// producing any artifact is a build failure; the expected postcondition is
// at least one file in the cache.
func (p *pipeline) build(ctx context.Context) ([]Artifact, error) {
	if p.opts.BuildTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.BuildTimeout)
		defer cancel()
	}

	if _, err := runBuilder(ctx, p.opts.Builder, p.ws.staging, p.ws.cache); err != nil {
		return nil, err
	}

	artifacts, err := collectArtifacts(p.ws.cache)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuild, err)
	}
	if len(artifacts) == 0 {
		return nil, fmt.Errorf("%w: builder produced no artifacts in %s", ErrBuild, p.ws.cache)
	}

	slog.Info("package built", "artifacts", len(artifacts))
	return artifacts, nil
}

// Assembles the distribution payload and writes the release archive.
//
// The version file and artifact manifest are placed at the distribution
// root next to the cache subdirectory, then the directory's contents are
// compressed to the deterministically named archive in the invocation
// directory.
func (p *pipeline) archive(artifacts []Artifact) (string, error) {
	src := filepath.Join(p.ws.staging, versionFilename)
	if err := copyFile(src, filepath.Join(p.ws.dist, versionFilename)); err != nil {
		return "", fmt.Errorf("%w: %w", ErrArchiveWrite, err)
	}

	if err := writeManifest(p.ws.dist, p.version, artifacts); err != nil {
		return "", err
	}

	dest := filepath.Join(p.opts.Output, archiveName(p.opts.ProjectID, p.version, p.opts.Suffix))
	if err := writeArchive(p.ws.dist, dest); err != nil {
		return "", err
	}

	slog.Info("release archived", "archive", dest)
	return dest, nil
}

// Destroys the workspace after the run, recording the terminal phase.
//
// Called via defer on every exit path once the workspace exists. A
// teardown failure is logged as a warning and never replaces the pipeline
// error.
func (p *pipeline) cleanup(runErr *error) {
	if *runErr != nil {
		p.phase.advance(PhaseFailed)
	}

	if err := p.ws.destroy(); err != nil {
		slog.Warn("workspace cleanup failed", "error", err)
		return
	}

	p.phase.advance(PhaseCleaned)
	p.phase.advance(PhaseDone)
}
