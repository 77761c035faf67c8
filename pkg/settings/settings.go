// Package settings holds build metadata and per-run options for the tabler
// CLI.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "tabler"

const (
	Author = "oakwood-commons"
	About  = "Display CSV, JSON and Excel files as tables in the terminal."
)

// VersionInformation is populated at build time via ldflags.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds the commit hash, version and build timestamp of the
// running binary.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the options of a single invocation.
type Run struct {
	MinLogLevel int8
	NoColor     bool
	// ConfigFile is the resolved user config path, empty when none applies.
	ConfigFile string
	// Interactive is set when stdout is a terminal.
	Interactive bool
}

// NewCliParams returns the defaults for a CLI invocation.
func NewCliParams() *Run {
	return &Run{}
}
