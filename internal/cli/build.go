package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/brunnerj/Transtector-cme-init/internal/release"
)

// Represents the 'cme-build build' command.
type BuildCmd struct {
	Root         string        `help:"Project root containing VERSION, setup.py, and the cmeinit package tree." default:"." type:"existingdir"`
	Output       string        `help:"Directory that receives the archive. Defaults to the project root." placeholder:"DIR"`
	ProjectID    string        `help:"Deliverable part number used in the archive name." default:"1500-004"`
	Suffix       string        `help:"Deliverable suffix used in the archive name." default:"SWARE-CME_INIT"`
	Builder      []string      `help:"Package builder command run against the staging directory." default:"pip,wheel,--no-deps,."`
	Venv         string        `help:"Virtualenv root providing the build toolchain." placeholder:"DIR"`
	BuildTimeout time.Duration `help:"Abort the package builder after this long. Zero means no limit."`
}

// Executes the build command.
//
// Runs the packaging pipeline and prints the completion message with the
// archive name. Any stage failure is returned as-is and surfaces as a
// non-zero exit.
func (c *BuildCmd) Run(ctx context.Context) error {
	result, err := release.Run(ctx, release.Options{
		Root:      c.Root,
		Output:    c.Output,
		ProjectID: c.ProjectID,
		Suffix:    c.Suffix,
		Builder: release.BuilderConfig{
			Command: c.Builder,
			Venv:    c.Venv,
		},
		BuildTimeout: c.BuildTimeout,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Release packaging complete: %s\n", result.Archive)
	return nil
}
