// Package command provides CLI command definitions for grcbridge.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command, global flags
//   - containers.go: Container subcommand group
//   - records.go: Record subcommand group
//   - stats.go: Field statistics command
//   - cache.go: Cache management subcommand group
//   - status.go: Server health checks
//
// Commands follow a consistent pattern of parsing flags,
// calling the server's REST API, and formatting output.
package command
