// Parses flags and configures logging for the cme-build tool.
//
// The tool accepts the following global flags:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Enable verbose output.
//	-d, --debug     Enable debug output.
//
// The build subcommand is the default, so a bare invocation packages a
// release from the current directory. Flags override build-time defaults
// set via linker flags. After parsing, the global logger is reconfigured
// to reflect the final level before the pipeline starts.
package cli
