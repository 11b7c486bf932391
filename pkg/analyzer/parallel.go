package analyzer

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/search-rug/cpptool-lib-metrics/pkg/parser"
)

// FileError records a file that could not be processed.
type FileError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error { return e.Err }

// FileResult pairs a per-file result with the file it came from.
type FileResult[T any] struct {
	Path  string
	Value T
}

// DefaultWorkers is the worker count used when none is configured:
// 2x NumCPU, which suits the mix of file I/O and CGO parsing.
func DefaultWorkers() int {
	return runtime.NumCPU() * 2
}

// MapFiles processes files in parallel, calling fn for each file with a
// dedicated parser. Results and errors are returned sorted by path so the
// output does not depend on scheduling. Files not yet started when ctx is
// done are reported with the context error. A Tracker carried by ctx is
// ticked once per file.
func MapFiles[T any](ctx context.Context, files []string, maxWorkers int, fn func(context.Context, *parser.Parser, string) (T, error)) ([]FileResult[T], []FileError) {
	if len(files) == 0 {
		return nil, nil
	}
	if maxWorkers <= 0 {
		maxWorkers = DefaultWorkers()
	}

	tracker := TrackerFromContext(ctx)
	tracker.Add(len(files))

	results := make([]FileResult[T], 0, len(files))
	var errs []FileError
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for _, path := range files {
		p.Go(func() {
			defer tracker.Tick(path)

			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs = append(errs, FileError{Path: path, Err: err})
				mu.Unlock()
				return
			}

			psr := parser.New()
			defer psr.Close()

			value, err := fn(ctx, psr, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, FileError{Path: path, Err: err})
				tracker.Fail()
				return
			}
			results = append(results, FileResult[T]{Path: path, Value: value})
		})
	}
	p.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
	return results, errs
}
