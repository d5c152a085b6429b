// Package version holds the tool name and release version stamped into
// provenance lines and the version command.
package version

import "fmt"

// Name is the tool name used in provenance signatures.
const Name = "ccw"

// Version is the release version. Overridden at build time with -ldflags.
var Version = "0.1.0"

// String returns the formatted version line.
func String() string {
	return fmt.Sprintf("%s version %s", Name, Version)
}
