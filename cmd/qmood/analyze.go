package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/search-rug/cpptool-lib-metrics/internal/output"
	"github.com/search-rug/cpptool-lib-metrics/internal/progress"
	"github.com/search-rug/cpptool-lib-metrics/internal/service/analysis"
	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer"
	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
	"github.com/search-rug/cpptool-lib-metrics/pkg/config"
)

func viewFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:  "top",
			Usage: "Show only the first N classes (0 = config value, or all)",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Sort by reusability, flexibility, understandability, functionality, extendibility, effectiveness or name",
		},
		&cli.BoolFlag{
			Name:  "diagnostics",
			Usage: "List diagnostics (unresolved parents, cycles, missing class bodies)",
		},
	}
}

func noProgressFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:  "no-progress",
		Usage: "Disable progress output",
	}
}

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Compute QMOOD metrics for C++ sources",
		ArgsUsage: "[path...]",
		Flags:     append(viewFlags(), noProgressFlag()),
		Action:    runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	cfg, err := viewConfig(c)
	if err != nil {
		return err
	}
	showProgress := !c.Bool("no-progress")
	msg := messages(c, c.App.ErrWriter)

	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(appLogger(c)))
	var spinner *progress.Tracker
	if showProgress {
		spinner = progress.NewSpinner("Source scan")
	}
	files, err := svc.ScanPaths(getPaths(c))
	if errors.Is(err, analysis.ErrNoSources) {
		if spinner != nil {
			spinner.FinishSkipped("no C++ source files found")
		} else {
			msg.Warning("No C++ source files found")
		}
		return nil
	}
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

	ctx := c.Context
	var bar *progress.Tracker
	if showProgress {
		bar = progress.NewTracker("Parsing C++ files...", len(files))
		ctx = analyzer.WithTracker(ctx, analyzer.NewTracker(bar.Callback()))
	}
	extracted, err := svc.Extract(ctx, files)
	if bar != nil {
		if err != nil {
			bar.FinishError(err)
		} else {
			bar.FinishSuccess()
		}
	}
	if err != nil {
		return err
	}
	if n := len(extracted.Errors); n > 0 {
		msg.Warning("Skipped %d of %d files", n, len(files))
	}

	a, err := svc.Analyze(c.Context, extracted.Set)
	if err != nil {
		return err
	}
	return render(c, cfg, a)
}

// viewConfig applies the command's view flags over the loaded config.
func viewConfig(c *cli.Context) (*config.Config, error) {
	cfg := appConfig(c)
	if c.IsSet("top") {
		cfg.Output.Top = c.Int("top")
	}
	if c.IsSet("sort") {
		if err := validateSort(c.String("sort")); err != nil {
			return nil, err
		}
		cfg.Output.Sort = c.String("sort")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func render(c *cli.Context, cfg *config.Config, a *qmood.Analysis) error {
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	view := output.NewAnalysisView(a, output.AnalysisOptions{
		Top:         cfg.Output.Top,
		Thresholds:  thresholds(cfg),
		Diagnostics: c.Bool("diagnostics"),
	})
	return formatter.Output(view)
}
