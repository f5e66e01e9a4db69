// Package release orchestrates the CME release-packaging pipeline.
//
// A run reads the release version token, creates an ephemeral workspace
// (a staging directory holding a clean copy of the buildable sources and
// a distribution directory collecting build outputs), invokes the external
// package builder against the staging tree with its artifact cache
// redirected into the distribution tree, and bundles the result into a
// single versioned .tgz archive in the invocation directory. The workspace
// is destroyed on every exit path once it exists, so a failed build never
// leaves half-built directories behind.
//
// The pipeline is strictly linear and fails fast: the first stage error
// aborts the run, and the surviving side effect of a successful run is
// exactly one archive.
//
// Example usage:
//
//	result, err := release.Run(ctx, release.Options{
//	    Root:      ".",
//	    ProjectID: "1500-004",
//	    Suffix:    "SWARE-CME_INIT",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Archive)
package release
