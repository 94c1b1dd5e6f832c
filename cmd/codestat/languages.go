package main

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/internal/output"
	"github.com/panbanda/codestat/pkg/lang"
)

func languagesCmd() *cli.Command {
	return &cli.Command{
		Name:  "languages",
		Usage: "List supported languages and their extensions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown, yaml, toon",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
		},
		Action: runLanguages,
	}
}

// languageInfo is the serialized form of one supported language.
type languageInfo struct {
	Name       string   `json:"name" yaml:"name"`
	Family     string   `json:"family" yaml:"family"`
	Extensions []string `json:"extensions" yaml:"extensions"`
	Structural bool     `json:"structural" yaml:"structural"`
}

func runLanguages(c *cli.Context) error {
	format, err := output.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}

	var infos []languageInfo
	var rows [][]string
	for _, l := range lang.All() {
		info := languageInfo{
			Name:       l.Name,
			Family:     l.Family.String(),
			Extensions: l.Extensions,
			Structural: l.Structural(),
		}
		infos = append(infos, info)
		rows = append(rows, []string{info.Name, strings.Join(info.Extensions, " "), info.Family})
	}

	table := output.NewTable(
		"Supported Languages",
		[]string{"Language", "Extensions", "Structure"},
		rows,
		nil,
		infos,
	)
	return emit(c, format, table)
}
