package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
	"github.com/search-rug/cpptool-lib-metrics/pkg/cxx"
)

// Config holds all configuration options for qmood.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis"`

	// Thresholds below which a quality attribute is flagged
	Thresholds ThresholdConfig `koanf:"thresholds" toml:"thresholds"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`
}

// AnalysisConfig controls extraction and the metric policies.
type AnalysisConfig struct {
	// DSCCountAll counts records without methods in DSC.
	DSCCountAll bool `koanf:"dsc_count_all" toml:"dsc_count_all"`
	// StringTypesInDCC counts std::string and friends as coupled classes.
	StringTypesInDCC bool `koanf:"string_types_in_dcc" toml:"string_types_in_dcc"`
	// StringTypesInMOA counts string-typed fields as aggregation.
	StringTypesInMOA bool  `koanf:"string_types_in_moa" toml:"string_types_in_moa"`
	Workers          int   `koanf:"workers" toml:"workers"`             // 0 = 2x NumCPU
	MaxFileSize      int64 `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = no limit
}

// ThresholdConfig holds per-attribute warning levels. A class scoring below
// the level for an attribute is highlighted in text output.
type ThresholdConfig struct {
	Reusability       float64 `koanf:"reusability" toml:"reusability"`
	Flexibility       float64 `koanf:"flexibility" toml:"flexibility"`
	Understandability float64 `koanf:"understandability" toml:"understandability"`
	Functionality     float64 `koanf:"functionality" toml:"functionality"`
	Extendibility     float64 `koanf:"extendibility" toml:"extendibility"`
	Effectiveness     float64 `koanf:"effectiveness" toml:"effectiveness"`
}

// Level returns the warning level for attr.
func (t ThresholdConfig) Level(attr qmood.Attribute) float64 {
	return qmood.Quality{
		Reusability:       t.Reusability,
		Flexibility:       t.Flexibility,
		Understandability: t.Understandability,
		Functionality:     t.Functionality,
		Extendibility:     t.Extendibility,
		Effectiveness:     t.Effectiveness,
	}.Of(attr)
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns" toml:"patterns"`
	Extensions []string `koanf:"extensions" toml:"extensions"`
	Dirs       []string `koanf:"dirs" toml:"dirs"`
	Gitignore  bool     `koanf:"gitignore" toml:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon
	Color  bool   `koanf:"color" toml:"color"`
	Sort   string `koanf:"sort" toml:"sort"` // quality attribute or "name"
	Top    int    `koanf:"top" toml:"top"`   // 0 = all classes
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			StringTypesInDCC: true,
		},
		Thresholds: ThresholdConfig{
			Reusability:       0,
			Flexibility:       0,
			Understandability: -10,
			Functionality:     0,
			Extendibility:     -2,
			Effectiveness:     0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*_test.cpp",
				"*_test.cc",
				"*.pb.h",
				"*.pb.cc",
				"moc_*.cpp",
			},
			Dirs: []string{
				".git",
				".qmood",
				"build",
				"cmake-build-debug",
				"cmake-build-release",
				"third_party",
				"vendor",
				"external",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
			Sort:   "name",
		},
	}
}

// Load loads configuration from a file, layered over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}

	return cfg, nil
}

// ConfigNames lists the file names LoadOrDefault looks for.
var ConfigNames = []string{
	"qmood.toml",
	"qmood.yaml",
	"qmood.yml",
	"qmood.json",
	".qmood.toml",
	".qmood.yaml",
	".qmood.yml",
	".qmood.json",
}

// Find returns the first config file found in the current directory or in
// .qmood, or "" if there is none.
func Find() string {
	for _, dir := range []string{".", ".qmood"} {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// LoadOrDefault loads the first config found by Find, or returns defaults.
func LoadOrDefault() *Config {
	if path := Find(); path != "" {
		if cfg, err := Load(path); err == nil {
			return cfg
		}
	}
	return DefaultConfig()
}

var validFormats = map[string]bool{"text": true, "json": true, "markdown": true, "toon": true}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error
	if c.Analysis.Workers < 0 {
		errs = append(errs, fmt.Errorf("analysis.workers must be >= 0, got %d", c.Analysis.Workers))
	}
	if c.Analysis.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("analysis.max_file_size must be >= 0, got %d", c.Analysis.MaxFileSize))
	}
	if !validFormats[c.Output.Format] {
		errs = append(errs, fmt.Errorf("output.format %q is not one of text, json, markdown, toon", c.Output.Format))
	}
	if _, ok := qmood.ParseAttribute(c.Output.Sort); !ok && c.Output.Sort != "name" {
		errs = append(errs, fmt.Errorf("output.sort %q is not a quality attribute or \"name\"", c.Output.Sort))
	}
	if c.Output.Top < 0 {
		errs = append(errs, fmt.Errorf("output.top must be >= 0, got %d", c.Output.Top))
	}
	for _, p := range c.Exclude.Patterns {
		if _, err := filepath.Match(p, ""); err != nil {
			errs = append(errs, fmt.Errorf("exclude.patterns %q: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	sep := string(filepath.Separator)
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, sep+dir+sep) || strings.HasPrefix(path, dir+sep) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}

// AnalyzerOptions maps the analysis policies to qmood options.
func (c *Config) AnalyzerOptions() []qmood.Option {
	return []qmood.Option{
		qmood.WithDSCCountAll(c.Analysis.DSCCountAll),
		qmood.WithStringTypesInDCC(c.Analysis.StringTypesInDCC),
		qmood.WithStringTypesInMOA(c.Analysis.StringTypesInMOA),
	}
}

// ExtractorOptions maps the extraction settings to cxx options.
func (c *Config) ExtractorOptions() []cxx.Option {
	return []cxx.Option{
		cxx.WithWorkers(c.Analysis.Workers),
		cxx.WithMaxFileSize(c.Analysis.MaxFileSize),
	}
}
