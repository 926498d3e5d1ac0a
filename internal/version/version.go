// Package version holds build metadata, set with -ldflags "-X".
package version

var (
	Version = "dev"
	Commit  = ""
)

// String is "<version>" or "<version> (<commit>)".
func String() string {
	if Commit == "" {
		return Version
	}
	return Version + " (" + Commit + ")"
}
