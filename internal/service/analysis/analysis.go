package analysis

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/search-rug/cpptool-lib-metrics/internal/scanner"
	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer"
	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
	"github.com/search-rug/cpptool-lib-metrics/pkg/config"
	"github.com/search-rug/cpptool-lib-metrics/pkg/cxx"
	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

// ErrNoSources is returned when the given paths contain no C++ files.
var ErrNoSources = errors.New("no C++ source files found")

// Service orchestrates scanning, extraction and QMOOD analysis.
type Service struct {
	config *config.Config
	logger *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the configuration.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.config = cfg
		}
	}
}

// WithLogger sets the logger passed down to the extractor and analyzer.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new analysis service.
func New(opts ...Option) *Service {
	s := &Service{
		config: config.LoadOrDefault(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the configuration in use.
func (s *Service) Config() *config.Config {
	return s.config
}

// Result is the outcome of analyzing source paths.
type Result struct {
	Analysis *qmood.Analysis
	// Files is the number of files the declarations were extracted from.
	Files int
	// FileErrors lists files that were skipped.
	FileErrors []analyzer.FileError
}

// ScanPaths expands paths into the C++ files to analyze. No paths means the
// current directory.
func (s *Service) ScanPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	files, err := scanner.NewScanner(s.config).Scan(paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoSources
	}
	return files, nil
}

// Extract builds the declaration set of files. A progress tracker carried
// by ctx is ticked once per file.
func (s *Service) Extract(ctx context.Context, files []string) (*cxx.Result, error) {
	opts := append(s.config.ExtractorOptions(), cxx.WithLogger(s.logger))
	return cxx.Extract(ctx, files, opts...)
}

// Analyze runs QMOOD over set and orders the classes by the configured sort key.
func (s *Service) Analyze(ctx context.Context, set *decl.Set) (*qmood.Analysis, error) {
	opts := append(s.config.AnalyzerOptions(), qmood.WithLogger(s.logger))
	a, err := qmood.New(opts...).Analyze(ctx, set)
	if err != nil {
		return nil, err
	}
	a.SortBy(s.config.Output.Sort)
	return a, nil
}

// AnalyzePaths scans, extracts and analyzes in one step.
func (s *Service) AnalyzePaths(ctx context.Context, paths []string) (*Result, error) {
	files, err := s.ScanPaths(paths)
	if err != nil {
		return nil, err
	}
	extracted, err := s.Extract(ctx, files)
	if err != nil {
		return nil, err
	}
	a, err := s.Analyze(ctx, extracted.Set)
	if err != nil {
		return nil, err
	}
	return &Result{Analysis: a, Files: extracted.Files, FileErrors: extracted.Errors}, nil
}

// AnalyzeDump loads a declaration dump and analyzes it.
func (s *Service) AnalyzeDump(ctx context.Context, path string) (*qmood.Analysis, error) {
	set, err := decl.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading declarations: %w", err)
	}
	return s.Analyze(ctx, set)
}
