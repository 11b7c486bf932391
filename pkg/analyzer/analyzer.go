// Package analyzer holds the plumbing shared by the analysis stages: the
// parallel file mapper and progress tracking.
package analyzer

import "context"

// FileAnalyzer is implemented by stages that consume a list of source files.
type FileAnalyzer[T any] interface {
	// Analyze processes a collection of files and returns the result.
	// The context is used for cancellation and progress reporting.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases any resources held by the analyzer.
	Close()
}
