// Package version carries build identification stamped in via -ldflags.
package version

var (
	// Version is the release number.
	Version = "0.1.0"

	// BuildTime is when the binary was produced, UTC.
	BuildTime = "unknown"

	// GitCommit is the source revision.
	GitCommit = "unknown"
)
