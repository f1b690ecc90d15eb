package version

import "fmt"

// Product is the name reported in user agents and version output.
const Product = "alert-router"

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.4.0"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("%s version: %s, commit: %s, built at: %s", Product, Version, Commit, BuildTime)
}

// UserAgent identifies a binary in outbound HTTP calls, e.g. "alert-router/0.4.0 (router)".
func UserAgent(binary string) string {
	if binary == "" {
		return Product + "/" + Version
	}

	return fmt.Sprintf("%s/%s (%s)", Product, Version, binary)
}
