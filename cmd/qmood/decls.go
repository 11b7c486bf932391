package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/search-rug/cpptool-lib-metrics/internal/progress"
	"github.com/search-rug/cpptool-lib-metrics/internal/service/analysis"
)

func declsCmd() *cli.Command {
	return &cli.Command{
		Name:      "decls",
		Usage:     "Compute QMOOD metrics from a declaration dump",
		ArgsUsage: "<file>",
		Description: `Reads a JSON or YAML declaration dump (as written by "qmood dump" or an
external tool) and analyzes it. The format is chosen by file extension.

Examples:
  qmood decls decls.json
  qmood decls --sort reusability --top 10 decls.yaml`,
		Flags:  append(viewFlags(), noProgressFlag()),
		Action: runDeclsCmd,
	}
}

func runDeclsCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("decls expects exactly one dump file")
	}
	cfg, err := viewConfig(c)
	if err != nil {
		return err
	}

	var spinner *progress.Tracker
	if !c.Bool("no-progress") {
		spinner = progress.NewSpinner("Loading declarations...")
	}
	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(appLogger(c)))
	a, err := svc.AnalyzeDump(c.Context, c.Args().First())
	if spinner != nil {
		if err != nil {
			spinner.FinishError(err)
		} else {
			spinner.FinishSuccess()
		}
	}
	if err != nil {
		return err
	}
	return render(c, cfg, a)
}
