// Package command provides CLI command definitions for grcbridge-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and interactive REPL mode.
package command

import (
	"fmt"
	"net/url"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/connection"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "grcbridge-cli",
		Usage:   "grcbridge command-line management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			ContainerCommand(),
			RecordCommand(),
			StatsCommand(),
			CacheCommand(),
			StatusCommand(),
			MaskCommand(),
		},
		Before: func(c *cli.Context) error {
			// Initialize connection manager
			mgr := connection.NewManager()
			c.App.Metadata["connMgr"] = mgr
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "grcbridge server address (e.g., localhost:5080)",
			EnvVars: []string{"GRCBRIDGE_SERVER"},
			Value:   "localhost:5080",
		},
		&cli.StringFlag{
			Name:    "masking",
			Aliases: []string{"m"},
			Usage:   "Masking override: off, light, moderate, strict",
			EnvVars: []string{"GRCBRIDGE_MASKING"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   "table",
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	// Server connection
	Server string

	// Masking override passed through to the server
	Masking string

	// Output format
	Output string // table, json, yaml
	Wide   bool

	// Other
	Verbose bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	return &GlobalFlags{
		Server:  c.String("server"),
		Masking: c.String("masking"),
		Output:  c.String("output"),
		Wide:    c.Bool("wide"),
		Verbose: c.Bool("verbose"),
	}
}

// GetConnectionManager retrieves the connection manager from context.
func GetConnectionManager(c *cli.Context) *connection.Manager {
	if mgr, ok := c.App.Metadata["connMgr"].(*connection.Manager); ok {
		return mgr
	}
	return nil
}

// EnsureConnected checks if connected and returns the HTTP client.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, error) {
	flags := ParseGlobalFlags(c)

	if flags.Server == "" {
		return nil, fmt.Errorf("no server address; use --server or GRCBRIDGE_SERVER")
	}

	return connection.NewHTTPClient(flags.Server), nil
}

// buildQuery assembles a query string from key/value pairs, appending
// the global masking override when set. Empty values are skipped.
func buildQuery(c *cli.Context, params url.Values) string {
	if masking := c.String("masking"); masking != "" {
		params.Set("masking", masking)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
