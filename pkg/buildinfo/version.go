// Package buildinfo holds the driftgrid release stamp shown by
// `driftgrid --version`.
//
// Release builds stamp the three variables with the linker:
//
//	go build -ldflags "-X github.com/matzehuels/driftgrid/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/driftgrid/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/driftgrid/pkg/buildinfo.Date=$(date -u +%Y-%m-%d)" ./cmd/driftgrid
package buildinfo

import (
	"fmt"
	"strings"
)

// Stamped at link time; the defaults mark a local build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template is the cobra version template. Local builds print only the
// version since they carry no commit or date.
func Template() string {
	var b strings.Builder
	fmt.Fprintf(&b, "{{.Name}} %s\n", Version)
	if Commit != "none" {
		fmt.Fprintf(&b, "commit %s\n", Commit)
	}
	if Date != "unknown" {
		fmt.Fprintf(&b, "built %s\n", Date)
	}
	return b.String()
}
