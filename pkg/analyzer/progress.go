package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc is called after each file is processed with the number of
// files done so far, the total, and the file just finished.
type ProgressFunc func(current, total int, path string)

// Tracker counts processed and failed files. It is safe for concurrent use,
// and a nil Tracker ignores all calls.
type Tracker struct {
	total    atomic.Int32
	current  atomic.Int32
	failed   atomic.Int32
	callback ProgressFunc
}

// NewTracker creates a tracker that reports each Tick to callback.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add increases the expected total by n.
func (t *Tracker) Add(n int) {
	if t == nil {
		return
	}
	t.total.Add(int32(n))
}

// Tick marks path as processed.
func (t *Tracker) Tick(path string) {
	if t == nil {
		return
	}
	current := int(t.current.Add(1))
	if t.callback != nil {
		t.callback(current, int(t.total.Load()), path)
	}
}

// Fail counts a file that could not be processed. It does not replace Tick.
func (t *Tracker) Fail() {
	if t == nil {
		return
	}
	t.failed.Add(1)
}

// Current returns the number of processed files.
func (t *Tracker) Current() int {
	if t == nil {
		return 0
	}
	return int(t.current.Load())
}

// Total returns the expected number of files.
func (t *Tracker) Total() int {
	if t == nil {
		return 0
	}
	return int(t.total.Load())
}

// Failed returns the number of files that failed.
func (t *Tracker) Failed() int {
	if t == nil {
		return 0
	}
	return int(t.failed.Load())
}

type trackerKey struct{}

// WithTracker returns a context that carries a progress tracker.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext extracts the progress tracker from the context.
// Returns nil if no tracker was set.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
