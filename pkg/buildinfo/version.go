// Package buildinfo reports which farelock build is running.
//
// Version, Commit and Date are stamped at link time:
//
//	go build -ldflags "-X github.com/matzehuels/farelock/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/farelock/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/farelock/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the build on one line, e.g.
// "v1.0.0 (commit 1a2b3c4, built 2025-01-02T03:04:05Z, go1.24.0)".
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", Version, Commit, Date, runtime.Version())
}

// Template is the cobra --version template.
func Template() string {
	return "{{.Name}} " + String() + "\n"
}
