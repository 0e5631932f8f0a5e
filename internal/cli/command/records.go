// Package command provides CLI command definitions for grcbridge-cli.
package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/connection"
	"github.com/veridane/grcbridge/internal/cli/output"
)

// Table output caps record columns unless --wide is given.
const maxRecordColumns = 5

// RecordCommand returns the record subcommand group.
func RecordCommand() *cli.Command {
	return &cli.Command{
		Name:    "record",
		Aliases: []string{"records", "r"},
		Usage:   "Retrieve records from a container",
		Subcommands: []*cli.Command{
			{
				Name:      "search",
				Usage:     "Retrieve a page of records",
				ArgsUsage: "CONTAINER",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "page",
						Value: 1,
						Usage: "Page number",
					},
					&cli.IntFlag{
						Name:  "page-size",
						Value: 50,
						Usage: "Page size (max 500)",
					},
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Fetch all pages instead of one",
					},
					&cli.BoolFlag{
						Name:  "include-empty",
						Usage: "Keep fields with empty values",
					},
				},
				Action: recordSearch,
			},
			{
				Name:      "top",
				Usage:     "Retrieve the top N records by a sort field",
				ArgsUsage: "CONTAINER",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "n",
						Aliases: []string{"limit"},
						Value:   10,
						Usage:   "Number of records",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort field (display name or alias)",
					},
				},
				Action: recordTop,
			},
			{
				Name:      "get",
				Usage:     "Retrieve one record by its tracking id",
				ArgsUsage: "CONTAINER RECORD_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "include-empty",
						Usage: "Keep fields with empty values",
					},
				},
				Action: recordGet,
			},
		},
	}
}

func recordSearch(c *cli.Context) error {
	container := c.Args().First()
	if container == "" {
		return fmt.Errorf("container name required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	params := url.Values{}
	if page := c.Int("page"); page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	if size := c.Int("page-size"); size > 0 {
		params.Set("page_size", strconv.Itoa(size))
	}
	if c.Bool("full") {
		params.Set("full", "true")
	}
	if c.Bool("include-empty") {
		params.Set("include_empty", "true")
	}

	flags := ParseGlobalFlags(c)

	// Full fetch walks every page server-side; show a spinner so the
	// terminal doesn't look stuck.
	var spin *output.Spinner
	if c.Bool("full") && output.Format(flags.Output) == output.FormatTable {
		spin = output.NewSpinner(os.Stderr, "Fetching all records...")
		spin.Start()
	}

	path := "/v1/containers/" + url.PathEscape(container) + "/records" + buildQuery(c, params)
	resp, err := client.Get(ctx, path)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Container  string           `json:"container"`
		Records    []map[string]any `json:"records"`
		TotalCount int              `json:"total_count"`
		Page       int              `json:"page"`
		PageSize   int              `json:"page_size"`
		HasMore    bool             `json:"has_more"`
		Capped     bool             `json:"capped"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result)
	default:
		if err := renderRecordTable(result.Records, flags.Wide); err != nil {
			return err
		}
		fmt.Printf("\nShowing %d of %d records (page %d)", len(result.Records), result.TotalCount, result.Page)
		if result.HasMore {
			fmt.Printf(", more available")
		}
		if result.Capped {
			fmt.Printf(" [capped]")
		}
		fmt.Println()
		return nil
	}
}

func recordTop(c *cli.Context) error {
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
	if n := c.Int("n"); n > 0 {
		params.Set("n", strconv.Itoa(n))
	}
	if sortField := c.String("sort"); sortField != "" {
		params.Set("sort", sortField)
	}

	path := "/v1/containers/" + url.PathEscape(container) + "/records/top" + buildQuery(c, params)
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Container string           `json:"container"`
		Records   []map[string]any `json:"records"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result.Records)
	default:
		if err := renderRecordTable(result.Records, flags.Wide); err != nil {
			return err
		}
		fmt.Printf("\nTotal: %d records\n", len(result.Records))
		return nil
	}
}

func recordGet(c *cli.Context) error {
	container := c.Args().First()
	recordID := c.Args().Get(1)
	if container == "" || recordID == "" {
		return fmt.Errorf("container name and record id required")
	}

	client, err := EnsureConnected(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	params := url.Values{}
	if c.Bool("include-empty") {
		params.Set("include_empty", "true")
	}

	path := "/v1/containers/" + url.PathEscape(container) + "/records/" + url.PathEscape(recordID) + buildQuery(c, params)
	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Container string         `json:"container"`
		Record    map[string]any `json:"record"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, result.Record)
	default:
		table := &output.Table{Headers: []string{"FIELD", "VALUE"}}
		for _, k := range sortedKeys(result.Record) {
			table.Rows = append(table.Rows, []string{k, cellValue(result.Record[k])})
		}
		return table.Render(os.Stdout)
	}
}

// renderRecordTable renders generic records as a table. Columns are
// the sorted union of field aliases, capped unless wide output is on.
func renderRecordTable(records []map[string]any, wide bool) error {
	if len(records) == 0 {
		fmt.Println("No records.")
		return nil
	}

	seen := make(map[string]bool)
	var columns []string
	for _, rec := range records {
		for k := range rec {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}
	sort.Strings(columns)
	if !wide && len(columns) > maxRecordColumns {
		columns = columns[:maxRecordColumns]
	}

	table := &output.Table{}
	for _, col := range columns {
		table.Headers = append(table.Headers, col)
	}
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = cellValue(rec[col])
		}
		table.Rows = append(table.Rows, row)
	}
	return table.Render(os.Stdout)
}

// cellValue renders one record value for table output.
func cellValue(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return truncateCell(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return truncateCell(fmt.Sprintf("%v", t))
	}
}

// truncateCell keeps table cells readable.
func truncateCell(s string) string {
	if len(s) <= 40 {
		return s
	}
	return s[:37] + "..."
}

// sortedKeys returns map keys in sorted order.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
