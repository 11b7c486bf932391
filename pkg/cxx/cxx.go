// Package cxx extracts class declarations from C++ sources with tree-sitter
// and links them into a declaration set.
//
// The extractor works on syntax alone: there is no preprocessor, no
// template instantiation and no overload resolution. Type references are
// resolved by name across all extracted files.
package cxx

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer"
	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
	"github.com/search-rug/cpptool-lib-metrics/pkg/parser"
)

// Ensure Extractor implements analyzer.FileAnalyzer.
var _ analyzer.FileAnalyzer[*Result] = (*Extractor)(nil)

// Result is the outcome of extracting declarations from a set of files.
type Result struct {
	Set *decl.Set
	// Files is the number of files that were extracted successfully.
	Files int
	// Errors lists files that could not be read or parsed.
	Errors []analyzer.FileError
}

// Extractor builds a declaration set from C++ files.
type Extractor struct {
	workers     int
	maxFileSize int64
	logger      *zap.Logger
}

// Option is a functional option for configuring Extractor.
type Option func(*Extractor)

// WithWorkers sets the number of files parsed concurrently (0 = default).
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		e.workers = n
	}
}

// WithMaxFileSize sets the maximum file size to parse (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(e *Extractor) {
		e.maxFileSize = maxSize
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates a new extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Analyze parses files in parallel and links the declarations found. Files
// that fail are listed in Result.Errors; only cancellation of ctx is
// returned as an error.
func (e *Extractor) Analyze(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()

	results, errs := analyzer.MapFiles(ctx, files, e.workers, e.extractFile)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	set := &decl.Set{}
	for _, r := range results {
		set.Top = append(set.Top, r.Value.records...)
		set.Types = append(set.Types, r.Value.types...)
	}
	link(set)

	for _, fe := range errs {
		e.logger.Warn("skipping file", zap.String("path", fe.Path), zap.Error(fe.Err))
	}
	e.logger.Debug("declarations extracted",
		zap.Int("files", len(results)),
		zap.Int("failed", len(errs)),
		zap.Int("records", len(set.Records())),
		zap.Int("types", len(set.Types)),
		zap.Duration("elapsed", time.Since(start)))

	return &Result{Set: set, Files: len(results), Errors: errs}, nil
}

func (e *Extractor) extractFile(ctx context.Context, p *parser.Parser, path string) (fileDecls, error) {
	if e.maxFileSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return fileDecls{}, err
		}
		if info.Size() > e.maxFileSize {
			return fileDecls{}, fmt.Errorf("file size %d exceeds limit %d", info.Size(), e.maxFileSize)
		}
	}

	result, err := p.ParseFile(ctx, path)
	if err != nil {
		return fileDecls{}, err
	}
	defer result.Close()

	if result.Tree.RootNode().HasError() {
		e.logger.Debug("syntax errors in file, extracting what parsed", zap.String("path", path))
	}
	return extractTree(result), nil
}

// Close releases resources held by the extractor.
func (e *Extractor) Close() {}

// Extract is a convenience wrapper around New(opts...).Analyze.
func Extract(ctx context.Context, files []string, opts ...Option) (*Result, error) {
	e := New(opts...)
	defer e.Close()
	return e.Analyze(ctx, files)
}

// ExtractSource extracts and links the declarations of a single in-memory
// source. path is only used for locations.
func ExtractSource(ctx context.Context, source []byte, path string) (*decl.Set, error) {
	p := parser.New()
	defer p.Close()

	result, err := p.Parse(ctx, source, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	fd := extractTree(result)
	set := &decl.Set{Top: fd.records, Types: fd.types}
	link(set)
	return set, nil
}
