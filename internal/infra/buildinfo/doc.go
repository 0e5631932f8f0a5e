// Package buildinfo carries the build identity of a grcbridge binary.
//
// Version, Commit, BuildTime, and GoVersion are injected at build time:
//
//	go build -ldflags "-X buildinfo.Version=1.2.0 -X buildinfo.Commit=abc123"
//
// Binaries built without ldflags report "dev"/"unknown" and the
// runtime's Go version.
package buildinfo
