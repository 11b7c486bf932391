package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "qmood",
		Usage:    "QMOOD design metrics for C++ class hierarchies",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `qmood extracts the class declarations of a C++ codebase and computes the
QMOOD design metrics (DSC, NOH, ANA, DAM, DCC, CAM, MOA, MFA, NOP, CIS, NOM)
and quality attributes (reusability, flexibility, understandability,
functionality, extendibility, effectiveness) of every class.

Declarations can also be read from a JSON or YAML dump produced by another tool.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"QMOOD_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before: setup,
		After: func(c *cli.Context) error {
			if logger := appLogger(c); logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			declsCmd(),
			dumpCmd(),
			configCmd(),
			initCmd(),
			mcpCmd(),
		},
	}
}
