package command

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/veridane/grcbridge/internal/cli/output"
	"github.com/veridane/grcbridge/internal/core/domain"
	"github.com/veridane/grcbridge/internal/privacy"
)

// MaskCommand returns the mask command, a local masking check that
// needs no server connection.
func MaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "mask",
		Usage:     "Classify and mask values locally",
		ArgsUsage: "VALUE [VALUE...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "level",
				Value: "moderate",
				Usage: "Protection level (light, moderate, strict)",
			},
			&cli.StringFlag{
				Name:  "field",
				Usage: "Field name the values are classified under",
			},
			&cli.BoolFlag{
				Name:  "tokenize",
				Usage: "Substitute reversible tokens instead of character masks",
			},
		},
		Action: maskCheck,
	}
}

type maskResult struct {
	Value    string `json:"value"`
	Category string `json:"category"`
	Masked   string `json:"masked"`
}

func maskCheck(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one value required")
	}

	cfg := privacy.Config{
		Enabled:  true,
		Level:    privacy.ParseLevel(c.String("level")),
		Tokenize: c.Bool("tokenize"),
	}

	var store *privacy.TokenStore
	if cfg.Tokenize {
		var err error
		store, err = privacy.NewTokenStore()
		if err != nil {
			return fmt.Errorf("init token store: %w", err)
		}
	}

	protector := privacy.NewProtector(cfg, store)
	classifier := privacy.NewClassifier(nil)
	field := c.String("field")

	results := make([]maskResult, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		class := classifier.Field(field, arg)
		category := "-"
		if class.Sensitive && !class.Whitelisted {
			category = string(class.Category)
		}
		masked := protector.Value(domain.String(arg), field)
		results = append(results, maskResult{
			Value:    arg,
			Category: category,
			Masked:   masked.Text(),
		})
	}

	flags := ParseGlobalFlags(c)
	switch output.Format(flags.Output) {
	case output.FormatJSON, output.FormatYAML:
		formatter := output.NewFormatter(output.Format(flags.Output), flags.Wide)
		return formatter.Format(os.Stdout, results)
	default:
		table := &output.Table{Headers: []string{"VALUE", "CATEGORY", "MASKED"}}
		for _, r := range results {
			table.Rows = append(table.Rows, []string{truncateCell(r.Value), r.Category, truncateCell(r.Masked)})
		}
		return table.Render(os.Stdout)
	}
}
