// Package buildinfo exposes build-time properties injected via ldflags:
//
//	go build -ldflags "-X github.com/nomis52/mergington/buildinfo.version=v1.0.0 \
//	  -X github.com/nomis52/mergington/buildinfo.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/nomis52/mergington/buildinfo.buildTime=$(date -u +%FT%TZ)"
package buildinfo

import "runtime"

// Properties holds build-time properties.
type Properties struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
}

// Set by the linker.
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Get returns the current build properties.
func Get() Properties {
	return Properties{
		Version:   version,
		BuildTime: buildTime,
		GitCommit: gitCommit,
		GoVersion: runtime.Version(),
	}
}
