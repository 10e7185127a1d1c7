// Package version is set at build time with -ldflags.
package version

var (
	Version   = "v0.0.0-dev"
	GitCommit = "unknown"
)
