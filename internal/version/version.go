package version

import "fmt"

var (
	// Version is the release of the patcher binary. Overridden via ldflags.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the release string.
func Short() string {
	return Version
}

// Full returns the release with commit and build time.
func Full() string {
	return fmt.Sprintf("workspace-patcher %s (commit %s, built %s)", Version, Commit, BuildTime)
}
