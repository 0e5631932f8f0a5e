// Package command provides CLI command definitions for grcbridge-cli.
package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/connection"
	"github.com/veridane/grcbridge/internal/cli/output"
)

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Show field population statistics for a container",
		ArgsUsage: "CONTAINER",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "sample",
				Value: 100,
				Usage: "Record sample size",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 10,
				Usage: "Number of top populated fields to report",
			},
		},
		Action: statsShow,
	}
}

func statsShow(c *cli.Context) error {
	container := c.Args().First()
	if container == "" {
		return fmt.Errorf("container name required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	params := url.Values{}
	if sample := c.Int("sample"); sample > 0 {
		params.Set("sample", strconv.Itoa(sample))
	}
	if top := c.Int("top"); top > 0 {
		params.Set("top", strconv.Itoa(top))
	}

	path := "/v1/containers/" + url.PathEscape(container) + "/stats" + buildQuery(c, params)
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Container  string `json:"container"`
		TotalCount int    `json:"total_count"`
		SampleSize int    `json:"sample_size"`
		Fields     []struct {
			Alias     string  `json:"alias"`
			Populated int     `json:"populated"`
			Total     int     `json:"total"`
			Rate      float64 `json:"rate"`
		} `json:"fields"`
		TopPopulated []string `json:"top_populated"`
		EmptyFields  []string `json:"empty_fields"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		fmt.Printf("Container:   %s\n", result.Container)
		fmt.Printf("Records:     %d\n", result.TotalCount)
		fmt.Printf("Sample size: %d\n\n", result.SampleSize)

		table := &output.Table{
			Headers: []string{"FIELD", "POPULATED", "RATE"},
		}
		for _, f := range result.Fields {
			table.Rows = append(table.Rows, []string{
				f.Alias,
				fmt.Sprintf("%d/%d", f.Populated, f.Total),
				fmt.Sprintf("%.0f%%", f.Rate*100),
			})
		}
		if err := table.Render(os.Stdout); err != nil {
			return err
		}

		if len(result.TopPopulated) > 0 {
			fmt.Printf("\nTop populated: %s\n", strings.Join(result.TopPopulated, ", "))
		}
		if len(result.EmptyFields) > 0 {
			fmt.Printf("Empty fields:  %s\n", strings.Join(result.EmptyFields, ", "))
		}
		return nil
	}
}
