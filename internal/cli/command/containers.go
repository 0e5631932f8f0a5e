// Package command provides CLI command definitions for grcbridge-cli.
package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/connection"
	"github.com/veridane/grcbridge/internal/cli/output"
)

// containerSummary mirrors the server's container listing entry.
type containerSummary struct {
	ID          int    `json:"id"`
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Alias       string `json:"alias,omitempty"`
	Status      string `json:"status"`
	Synthesized bool   `json:"synthesized,omitempty"`
}

// fieldSummary mirrors the server's field listing entry.
type fieldSummary struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Alias      string `json:"alias"`
	Type       string `json:"type"`
	Required   bool   `json:"required,omitempty"`
	Calculated bool   `json:"calculated,omitempty"`
	Key        bool   `json:"key,omitempty"`
}

// ContainerCommand returns the container subcommand group.
func ContainerCommand() *cli.Command {
	return &cli.Command{
		Name:    "container",
		Aliases: []string{"containers", "c"},
		Usage:   "Inspect record containers",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List all known containers",
				Action: containerList,
			},
			{
				Name:      "fields",
				Usage:     "List field definitions for a container",
				ArgsUsage: "CONTAINER",
				Action:    containerFields,
			},
		},
	}
}

func containerList(c *cli.Context) error {
	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/v1/containers"+buildQuery(c, url.Values{}))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Containers []containerSummary `json:"containers"`
		Count      int                `json:"count"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result.Containers)
	default:
		table := &output.Table{
			Headers: []string{"ID", "NAME", "ALIAS", "KIND", "STATUS"},
		}
		for _, ct := range result.Containers {
			name := ct.Name
			if ct.Synthesized {
				name += " *"
			}
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", ct.ID),
				name,
				ct.Alias,
				ct.Kind,
				ct.Status,
			})
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Printf("\nTotal: %d containers\n", result.Count)
		return nil
	}
}

func containerFields(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return fmt.Errorf("container name required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	path := "/v1/containers/" + url.PathEscape(name) + "/fields" + buildQuery(c, url.Values{})
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Fields []fieldSummary `json:"fields"`
		Count  int            `json:"count"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result.Fields)
	default:
		table := &output.Table{
			Headers: []string{"ID", "NAME", "ALIAS", "TYPE", "FLAGS"},
		}
		for _, f := range result.Fields {
			table.Rows = append(table.Rows, []string{
				fmt.Sprintf("%d", f.ID),
				f.Name,
				f.Alias,
				f.Type,
				fieldFlags(f),
			})
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}
		fmt.Printf("\nTotal: %d fields\n", result.Count)
		return nil
	}
}

// fieldFlags renders field attribute markers for table output.
func fieldFlags(f fieldSummary) string {
	flags := ""
	if f.Key {
		flags += "K"
	}
	if f.Required {
		flags += "R"
	}
	if f.Calculated {
		flags += "C"
	}
	return flags
}
