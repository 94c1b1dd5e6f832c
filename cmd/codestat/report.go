package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/internal/report"
)

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Validate saved results or render them as HTML",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Check saved results against the result schema",
				ArgsUsage: "<result.json...>",
				Action:    runReportValidate,
			},
			{
				Name:      "render",
				Usage:     "Render a saved result as a standalone HTML page",
				ArgsUsage: "<result.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Value:   "codestat-report.html",
						Usage:   "Output HTML file",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "Page title",
					},
					&cli.IntFlag{
						Name:  "top",
						Value: 10,
						Usage: "Number of most complex functions to list",
					},
				},
				Action: runReportRender,
			},
		},
	}
}

func runReportValidate(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("validate needs at least one result file")
	}

	failed := 0
	for _, path := range c.Args().Slice() {
		if _, err := report.Load(path); err != nil {
			fmt.Fprintf(errWriter(c), "Validation error: %v\n", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("validation failed with %d error(s)", failed)
	}

	color.New(color.FgGreen).Fprintln(c.App.Writer, "Validation passed")
	return nil
}

func runReportRender(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("render takes exactly one result file")
	}

	stats, err := report.Load(c.Args().First())
	if err != nil {
		return err
	}

	renderer, err := report.NewRenderer(c.Int("top"))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	outputPath := c.String("output")
	if err := renderer.RenderToFile(stats, c.String("title"), outputPath); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Report rendered: %s\n", outputPath)
	return nil
}
