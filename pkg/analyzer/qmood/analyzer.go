// Package qmood computes the QMOOD (Quality Model for Object-Oriented
// Design) metrics of Bansiya and Davis over a declaration tree: eleven
// design properties per class and the six quality attributes derived from
// them.
package qmood

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/search-rug/cpptool-lib-metrics/pkg/decl"
)

// Analyzer computes QMOOD metrics over a declaration set.
type Analyzer struct {
	logger           *zap.Logger
	dscCountAll      bool
	stringTypesInDCC bool
	stringTypesInMOA bool
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for diagnostics and pass timings.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithDSCCountAll makes DSC count every record, including those without
// methods. By default only records declaring at least one method count.
func WithDSCCountAll(all bool) Option {
	return func(a *Analyzer) {
		a.dscCountAll = all
	}
}

// WithStringTypesInDCC controls whether standard string types count as
// class coupling. Enabled by default.
func WithStringTypesInDCC(on bool) Option {
	return func(a *Analyzer) {
		a.stringTypesInDCC = on
	}
}

// WithStringTypesInMOA controls whether fields of standard string types
// count as aggregation. Disabled by default.
func WithStringTypesInMOA(on bool) Option {
	return func(a *Analyzer) {
		a.stringTypesInMOA = on
	}
}

// New creates a new QMOOD analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		logger:           zap.NewNop(),
		stringTypesInDCC: true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the three passes over set and returns per-class metrics and
// quality scores. Anomalies in the input are reported as diagnostics in the
// result; an error is only returned when ctx is done.
func (a *Analyzer) Analyze(ctx context.Context, set *decl.Set) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	records := set.Records()
	diags := NewDiagnostics()

	g := BuildGraph(records, diags)
	g.ComputeHeights(diags)
	g.ResolveInherited(diags)
	a.logger.Debug("hierarchy passes complete",
		zap.Int("classes", len(g.Nodes)),
		zap.Int("roots", len(g.Roots())),
		zap.Int("cycles", diags.Count(DiagCycle)),
		zap.Duration("elapsed", time.Since(start)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dsc := DSC(records, a.dscCountAll)
	analysis := &Analysis{
		GeneratedAt: time.Now().UTC(),
		Digest:      set.Digest(),
		DSC:         dsc,
		NOH:         NOH(g),
		Classes:     make([]ClassMetrics, 0, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		analysis.Classes = append(analysis.Classes, a.classMetrics(g, n, dsc))
	}
	analysis.Diagnostics = diags.Items()
	analysis.CalculateSummary()

	for _, d := range analysis.Diagnostics {
		a.logger.Warn("qmood diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.String("class", d.Class),
			zap.String("location", d.Location),
			zap.String("message", d.Message))
	}
	a.logger.Debug("qmood analysis complete",
		zap.Int("dsc", analysis.DSC),
		zap.Int("noh", analysis.NOH),
		zap.Int("diagnostics", len(analysis.Diagnostics)),
		zap.Duration("elapsed", time.Since(start)))

	return analysis, nil
}

func (a *Analyzer) classMetrics(g *Graph, n *ClassNode, dsc int) ClassMetrics {
	rec := n.Record
	cm := ClassMetrics{
		ID:       rec.ID,
		Name:     rec.Name,
		Variant:  string(rec.Variant),
		Location: rec.Location.String(),
		Heights:  n.Heights,
	}
	for _, e := range n.Parents {
		cm.Parents = append(cm.Parents, g.Nodes[e.Parent].Record.Name)
	}
	for _, m := range n.Inherited() {
		cm.Inherited = append(cm.Inherited, m.Name)
	}

	cm.ANA = ANA(n.Heights)
	if s := rec.Scope; s != nil {
		cm.DAM = DAM(s)
		cm.DCC = DCC(s, a.stringTypesInDCC)
		cm.CAM = CAM(s)
		cm.MOA = MOA(s, a.stringTypesInMOA)
		cm.NOP = NOP(s)
		cm.CIS = CIS(s)
		cm.NOM = NOM(s)
		if n.resolved {
			cm.MFA = MFA(len(n.Inherited()), cm.NOM)
		} else {
			cm.Skipped = append(cm.Skipped, MetricMFA)
		}
	} else {
		cm.Skipped = []string{MetricDAM, MetricDCC, MetricCAM, MetricMOA, MetricMFA, MetricNOP, MetricCIS, MetricNOM}
	}

	cm.Quality = ComputeQuality(cm.Metrics, dsc)
	return cm
}
