package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"

	"github.com/brunnerj/Transtector-cme-init/internal"
	"github.com/brunnerj/Transtector-cme-init/internal/paths"
)

// Represents the root command for the cme-build tool.
var RootCmd struct {
	Quiet     bool         `short:"q" help:"Suppress informational output."`
	Verbose   bool         `short:"v" help:"Enable verbose output."`
	Debug     bool         `short:"d" help:"Enable debug output."`
	Build     BuildCmd     `cmd:"" default:"1" help:"Package a release archive for the device fleet."`
	Provision ProvisionCmd `cmd:"" help:"Render the base-image provisioning script."`
	Version   VersionCmd   `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("The CME release packaging tool.\n\nBuilds the cmeinit sources into installable artifacts and bundles them into a versioned archive."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Console output stays on stderr; when the run log under the state
// directory can be opened, output is teed there as well so failed fleet
// builds can be diagnosed later.
func configureLogger() {
	handler, ok := slog.Default().Handler().(*charmlog.Logger)
	if !ok {
		return // Not the expected handler, nothing to configure
	}

	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()
	verbose := RootCmd.Verbose || internal.IsVerbose()

	if debug {
		handler.SetLevel(charmlog.DebugLevel)
	} else if quiet {
		handler.SetLevel(charmlog.WarnLevel)
	} else {
		handler.SetLevel(charmlog.InfoLevel)
	}

	handler.SetReportCaller(verbose)

	if w := runLogWriter(); w != nil {
		handler.SetOutput(io.MultiWriter(os.Stderr, w))
	}
}

// Opens the persistent run log for appending.
//
// Returns nil when the state directory is unavailable; console logging
// alone is fine in that case.
func runLogWriter() io.Writer {
	path := paths.RunLog()
	if err := os.MkdirAll(filepath.Dir(path), paths.DefaultDirMode); err != nil {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, paths.DefaultFileMode)
	if err != nil {
		return nil
	}
	return f
}
