// Package provision describes the minimal base operating-system image the
// release archive installs into.
//
// The plan is a static, declarative sequence of OS-package install steps,
// embedded at build time. It carries no process state and is never
// executed by this tool; it is rendered as a shell script for the image
// provisioning host. Its only coupling to the packaging pipeline is the
// contract that the archived artifacts must be installable inside the
// runtime the plan produces.
package provision
