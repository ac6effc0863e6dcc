// Package buildinfo carries version details stamped in by the release build:
//
//	go build -ldflags "-X github.com/cleared-dev/autoshop/internal/buildinfo.Version=v1.2.0"
package buildinfo

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)
