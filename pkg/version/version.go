// Package version holds build information set with -ldflags, e.g.
//
//	-X github.com/sensorkit/bno055/pkg/version.Version=v0.3.0
package version

var (
	// Version is the released version of bno055.
	Version = "v0.0.0-dev"
	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)
