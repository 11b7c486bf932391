package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/search-rug/cpptool-lib-metrics/internal/service/analysis"
	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

func dumpCmd() *cli.Command {
	return &cli.Command{
		Name:      "dump",
		Usage:     "Write the declarations extracted from C++ sources as a dump",
		ArgsUsage: "[path...]",
		Description: `Extracts class declarations and writes them in the dump format read by
"qmood decls". The dump is JSON unless --yaml is given or --output ends in
.yaml or .yml.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "yaml",
				Usage: "Write YAML instead of JSON",
			},
		},
		Action: runDumpCmd,
	}
}

func runDumpCmd(c *cli.Context) error {
	svc := analysis.New(analysis.WithConfig(appConfig(c)), analysis.WithLogger(appLogger(c)))
	files, err := svc.ScanPaths(getPaths(c))
	if errors.Is(err, analysis.ErrNoSources) {
		messages(c, c.App.ErrWriter).Warning("No C++ source files found")
		return nil
	}
	if err != nil {
		return err
	}

	extracted, err := svc.Extract(c.Context, files)
	if err != nil {
		return err
	}

	format := decl.FormatJSON
	var w io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		format = decl.FormatFromPath(path)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if c.Bool("yaml") {
		format = decl.FormatYAML
	}
	return decl.Encode(w, extracted.Set, format)
}
