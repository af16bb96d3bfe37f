// Package version reports which build of the service is running.
package version

import "runtime"

// Stamped by the linker; see the -ldflags block in the Dockerfile.
// Builds without the stamp report dev/unknown.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the payload behind GET /version.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get combines the linker stamp with the Go runtime that produced it.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}
