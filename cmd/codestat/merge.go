package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/internal/output"
	"github.com/panbanda/codestat/internal/report"
	"github.com/panbanda/codestat/internal/service/analysis"
)

func mergeCmd() *cli.Command {
	return &cli.Command{
		Name:      "merge",
		Usage:     "Merge saved results into one",
		ArgsUsage: "<result.json...>",
		Description: `Combines results saved with "analyze --save" as if their files had
been analyzed together. Counts are summed and every ratio and score is
recomputed. The merged depth is the shallowest input depth.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, yaml, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.StringFlag{
				Name:  "save",
				Usage: "Also save the merged result as JSON",
			},
			&cli.IntFlag{
				Name:  "top",
				Value: 10,
				Usage: "Number of most complex functions to list",
			},
		},
		Action: runMerge,
	}
}

func runMerge(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("merge needs at least one result file")
	}
	cfg := configFrom(c)

	format, err := formatFor(c, cfg)
	if err != nil {
		return err
	}

	list, err := report.LoadAll(c.Args().Slice())
	if err != nil {
		return err
	}

	svc := analysis.New(
		analysis.WithConfig(cfg),
		analysis.WithLogger(loggerFrom(c)),
		analysis.WithVersion(version),
	)
	merged, err := svc.Merge(list)
	if err != nil {
		return err
	}

	if path := c.String("save"); path != "" {
		if err := report.Save(path, merged); err != nil {
			return err
		}
	}

	return emit(c, format, output.NewStatsReport(merged,
		output.WithTitle("Merged Code Statistics"),
		output.WithTopFunctions(c.Int("top")),
	))
}
