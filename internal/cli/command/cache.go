// Package command provides CLI command definitions for grcbridge-cli.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/connection"
)

// CacheCommand returns the cache subcommand group.
func CacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage server-side caches",
		Subcommands: []*cli.Command{
			{
				Name:  "invalidate",
				Usage: "Drop all cached topology and record data",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: cacheInvalidate,
			},
		},
	}
}

func cacheInvalidate(c *cli.Context) error {
	if !c.Bool("force") {
		fmt.Print("This will drop all cached data on the server. Continue? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/v1/caches/invalidate", nil)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	fmt.Println("Caches invalidated.")
	return nil
}
