package progress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer"
)

func TestTrackerCallback(t *testing.T) {
	var buf bytes.Buffer
	tr := newTracker(&buf, "Parsing", 3)

	at := analyzer.NewTracker(tr.Callback())
	ctx := analyzer.WithTracker(context.Background(), at)
	analyzer.TrackerFromContext(ctx).Add(3)
	at.Tick("a.h")
	at.Tick("b.h")

	if at.Current() != 2 {
		t.Errorf("Current() = %d, want 2", at.Current())
	}
	if !strings.Contains(buf.String(), "Parsing") {
		t.Errorf("progress output missing label: %q", buf.String())
	}
	tr.FinishSuccess()
}

func TestTrackerFinishMessages(t *testing.T) {
	var buf bytes.Buffer
	tr := newTracker(&buf, "Parsing", 1)
	tr.FinishSkipped("no files")
	if !strings.Contains(buf.String(), "Parsing skipped (no files)") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	tr = newTracker(&buf, "Parsing", 1)
	tr.FinishError(errors.New("boom"))
	if !strings.Contains(buf.String(), "Parsing error: boom") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestSpinnerFinishSkipped(t *testing.T) {
	var buf bytes.Buffer
	sp := newSpinner(&buf, "Source scan")
	sp.Tick()
	sp.FinishSkipped("no C++ source files found")

	if !strings.Contains(buf.String(), "Source scan skipped (no C++ source files found)") {
		t.Errorf("output = %q", buf.String())
	}
}
