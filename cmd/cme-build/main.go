package main

import (
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"

	"github.com/brunnerj/Transtector-cme-init/internal"
	"github.com/brunnerj/Transtector-cme-init/internal/cli"
)

// The entry point for the cme-build tool.
//
// Initializes logging, displays startup information, and executes the root
// command. If any error occurs during execution, it exits with a non-zero
// code.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("cme-build is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// Creates a logger seeded from build-time linker flags.
//
// The logger is reconfigured after flag parsing via cli.Execute.
func logger() *slog.Logger {
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Prefix:          internal.Name,
	})
	handler.SetLevel(logLevel())
	return slog.New(handler)
}

// Returns the log level derived from build-time linker flags.
func logLevel() charmlog.Level {
	if internal.IsDebug() {
		return charmlog.DebugLevel
	}
	if internal.IsQuiet() {
		return charmlog.WarnLevel
	}
	return charmlog.InfoLevel
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
