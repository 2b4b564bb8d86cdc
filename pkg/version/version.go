// Package version holds build metadata, overridden at link time with
// -ldflags "-X github.com/Dicklesworthstone/winsize/pkg/version.Version=v0.2.0".
package version

var (
	Version = "v0.1.0"
	Commit  = "none"
	Date    = "unknown"
)
