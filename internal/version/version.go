// Package version holds build metadata for the deep search binary.
package version

//nolint:revive // Overridden with -ldflags "-X" at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the metadata as "version (commit, date)".
func String() string {
	return Version + " (" + Commit + ", " + Date + ")"
}
