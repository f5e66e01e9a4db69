package cli

import (
	"context"
	"os"

	"github.com/brunnerj/Transtector-cme-init/internal/provision"
)

// Represents the 'cme-build provision' command.
type ProvisionCmd struct {
	Output string `short:"o" help:"Write the script to PATH instead of stdout." placeholder:"PATH"`
}

// Executes the provision command.
//
// Renders the embedded base-image provisioning plan as a shell script for
// the image provisioning host.
func (c *ProvisionCmd) Run(ctx context.Context) error {
	plan, err := provision.Load()
	if err != nil {
		return err
	}

	if c.Output == "" {
		return plan.Render(os.Stdout)
	}

	f, err := os.Create(c.Output)
	if err != nil {
		return err
	}

	if err := plan.Render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
