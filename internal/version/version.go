// Package version carries the build identity stamped in at link time.
package version

// Overridden by -ldflags "-X ..." in release builds.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)
