package buildinfo

import "runtime"

// Build-time variables (set via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = "unknown"
)

// Info carries the build identity of the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information. When the Go version was not
// injected at build time, the runtime's version is reported.
func Get() Info {
	gv := GoVersion
	if gv == "unknown" {
		gv = runtime.Version()
	}
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: gv,
	}
}

// String formats the build identity as "version (commit) built at time".
func String() string {
	return Version + " (" + Commit + ") built at " + BuildTime
}
