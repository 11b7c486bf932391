package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/search-rug/cpptool-lib-metrics/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the QMOOD analysis
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "qmood": {
        "command": "qmood",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_qmood        Metrics and quality attributes for C++ sources
  - analyze_qmood_dump   The same analysis over a JSON or YAML declaration dump

Prompts:
  - design-review        Review class design against the quality attributes
  - hierarchy-audit      Audit inheritance depth, abstraction and polymorphism`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "manifest",
				Usage: "Print the server.json manifest and exit",
			},
		},
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	if c.Bool("manifest") {
		data, err := mcpserver.GenerateManifest(version)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
		return nil
	}
	return mcpserver.NewServer(version).Run(c.Context)
}
