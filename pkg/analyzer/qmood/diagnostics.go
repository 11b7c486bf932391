package qmood

import "fmt"

// DiagnosticKind classifies a structural or data anomaly found during
// analysis. Diagnostics never abort a run.
type DiagnosticKind string

const (
	// DiagUnresolvedParent: a base class has no declaration in the analyzed
	// set. The edge is dropped; nothing is inherited through it.
	DiagUnresolvedParent DiagnosticKind = "unresolved_parent"
	// DiagCycle: an inheritance edge closes a cycle. The branch is not
	// traversed again.
	DiagCycle DiagnosticKind = "cycle"
	// DiagUnreachable: the class is reachable from no hierarchy root, which
	// only happens for classes caught in a cycle.
	DiagUnreachable DiagnosticKind = "unreachable"
	// DiagMissingScope: the member scope of the class is unavailable. Its
	// own-scope metrics are skipped and inheritance does not propagate
	// below it.
	DiagMissingScope DiagnosticKind = "missing_scope"
)

func (k DiagnosticKind) String() string { return string(k) }

// Diagnostic reports something that could not be computed.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Class    string         `json:"class"`
	Location string         `json:"location,omitempty"`
	Message  string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Location != "" {
		return fmt.Sprintf("%s: %s (%s): %s", d.Kind, d.Class, d.Location, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Kind, d.Class, d.Message)
}

// Diagnostics collects diagnostics in report order. A class visited along
// several paths reports the same diagnostic once; distinct classes with the
// same name each keep theirs.
type Diagnostics struct {
	items []Diagnostic
	seen  map[diagKey]bool
}

// diagKey identifies a diagnostic by the graph node it is about.
type diagKey struct {
	node int
	diag Diagnostic
}

// NewDiagnostics creates an empty collector.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{seen: make(map[diagKey]bool)}
}

// Add records diag about the class at node index node. A nil collector
// discards it.
func (d *Diagnostics) Add(node int, diag Diagnostic) {
	key := diagKey{node: node, diag: diag}
	if d == nil || d.seen[key] {
		return
	}
	d.seen[key] = true
	d.items = append(d.items, diag)
}

// Items returns the collected diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

// Count returns the number of diagnostics of the given kind.
func (d *Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, item := range d.Items() {
		if item.Kind == kind {
			n++
		}
	}
	return n
}
