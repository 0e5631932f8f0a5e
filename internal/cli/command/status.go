// Package command provides CLI command definitions for grcbridge-cli.
package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/connection"
	"github.com/veridane/grcbridge/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check server health and readiness",
		Action: statusShow,
	}
}

func statusShow(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	health, err := probe(ctx, client, "/health")
	if err != nil {
		return fmt.Errorf("server unreachable at %s: %w", client.BaseURL(), err)
	}
	ready, err := probe(ctx, client, "/ready")
	if err != nil {
		return fmt.Errorf("readiness probe failed: %w", err)
	}

	result := map[string]string{
		"server": client.BaseURL(),
		"health": health,
		"ready":  ready,
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Printf("Server: %s\n", client.BaseURL())
		fmt.Printf("Health: %s\n", health)
		fmt.Printf("Ready:  %s\n", ready)
		return nil
	}
}

func probe(ctx context.Context, client *connection.HTTPClient, path string) (string, error) {
	resp, err := client.Get(ctx, path)
	if err != nil {
		return "", err
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return "", err
	}
	return result.Status, nil
}
