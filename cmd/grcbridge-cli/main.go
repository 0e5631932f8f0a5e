// Package main provides the entry point for grcbridge-cli.
//
// grcbridge-cli is the command-line management tool for grcbridge,
// supporting both single-command mode and interactive REPL mode.
package main

import (
	"fmt"
	"os"

	"github.com/veridane/grcbridge/internal/cli/command"
	"github.com/veridane/grcbridge/internal/cli/repl"
)

func main() {
	app := command.App()

	// No arguments: interactive mode
	if len(os.Args) == 1 {
		r := repl.New(func(args []string) error {
			return app.Run(append([]string{os.Args[0]}, args...))
		})
		if err := r.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
