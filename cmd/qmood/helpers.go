package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/search-rug/cpptool-lib-metrics/internal/output"
	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
	"github.com/search-rug/cpptool-lib-metrics/pkg/config"
)

const (
	metaConfig       = "config"
	metaConfigSource = "configSource"
	metaLogger       = "logger"
)

// setup loads the configuration and builds the logger before any command runs.
func setup(c *cli.Context) error {
	cfg, source, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if f := c.String("format"); f != "" {
		cfg.Output.Format = string(output.ParseFormat(f))
	}

	logger, err := newLogger(c.Bool("verbose"))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if source != "" {
		logger.Debug("configuration loaded", zap.String("path", source))
	}

	c.App.Metadata[metaConfig] = cfg
	c.App.Metadata[metaConfigSource] = source
	c.App.Metadata[metaLogger] = logger
	return nil
}

// loadConfig loads path, or the first config found in the default
// locations when path is empty. It returns the file actually read, which
// is empty when the defaults are used.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		path = config.Find()
	}
	if path == "" {
		return config.DefaultConfig(), "", nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newLogger builds a production logger on stderr. Only warnings are shown
// unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Level.SetLevel(zapcore.WarnLevel)
	if verbose {
		cfg.Level.SetLevel(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func appConfigSource(c *cli.Context) string {
	source, _ := c.App.Metadata[metaConfigSource].(string)
	return source
}

func appLogger(c *cli.Context) *zap.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*zap.Logger); ok {
		return logger
	}
	return nil
}

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// useColor follows the config and is off for non-terminals.
func useColor(cfg *config.Config) bool {
	return cfg.Output.Color && !color.NoColor
}

// newFormatter creates the formatter for the global --output flag and the
// configured format.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), useColor(cfg))
}

// messages returns a text formatter for status lines written to w, kept
// apart from the report so structured output stays clean.
func messages(c *cli.Context, w io.Writer) *output.Formatter {
	return output.NewWriterFormatter(output.FormatText, w, useColor(appConfig(c)))
}

// thresholds maps the configured warning levels for highlighting.
func thresholds(cfg *config.Config) map[qmood.Attribute]float64 {
	levels := make(map[qmood.Attribute]float64, len(qmood.Attributes()))
	for _, attr := range qmood.Attributes() {
		levels[attr] = cfg.Thresholds.Level(attr)
	}
	return levels
}

// validateSort checks a --sort value.
func validateSort(key string) error {
	if key == "name" {
		return nil
	}
	if _, ok := qmood.ParseAttribute(key); !ok {
		return fmt.Errorf("--sort must be a quality attribute or \"name\" (got %q)", key)
	}
	return nil
}
