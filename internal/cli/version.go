package cli

import (
	"context"
	"fmt"

	"github.com/brunnerj/Transtector-cme-init/internal"
)

// Represents the 'cme-build version' command.
type VersionCmd struct{}

// Executes the version command.
func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
