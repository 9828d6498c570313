// Package buildinfo holds version information stamped in at link time:
//
//	go build -ldflags "-X github.com/matzehuels/fractaldraw/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/fractaldraw/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/fractaldraw/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/fractaldraw
//
// Builds without ldflags fall back to the module version recorded by
// `go install`, if there is one.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Resolved returns Version, or the main module version from the binary's
// build info when Version was not set at link time.
func Resolved() string {
	if Version != "dev" {
		return Version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return Version
}

// Template returns the version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Resolved(), Commit, Date)
}

// UserAgent identifies fractaldraw in the Server header of API responses.
func UserAgent() string {
	return "fractaldraw/" + Resolved()
}
