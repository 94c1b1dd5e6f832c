package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/codestat/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes codestat's
analysis as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "codestat": {
        "command": "codestat",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_project   Line counts, ratios, complexity and quality scores
  - project_summary   Headline numbers only
  - merge_results     Merge saved results into one`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:   "manifest",
				Usage:  "Print the MCP registry server.json manifest",
				Action: runMCPManifest,
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version,
		mcpserver.WithConfig(configFrom(c)),
		mcpserver.WithLogger(loggerFrom(c)),
	)
	return server.Run(c.Context)
}

func runMCPManifest(c *cli.Context) error {
	v := version
	if v == "dev" {
		v = ""
	}
	data, err := mcpserver.GenerateManifest(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(data))
	return err
}
