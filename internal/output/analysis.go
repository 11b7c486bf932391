package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/search-rug/cpptool-lib-metrics/pkg/analyzer/qmood"
)

// AnalysisOptions controls how an analysis is presented.
type AnalysisOptions struct {
	// Top limits the class tables to the first n classes; 0 shows all.
	Top int
	// Thresholds maps an attribute to the level below which a score is
	// highlighted. Attributes without an entry are never highlighted.
	Thresholds map[qmood.Attribute]float64
	// Diagnostics adds the diagnostics table to text and markdown output.
	Diagnostics bool
}

// AnalysisView renders a QMOOD analysis. Structured formats serialize the
// analysis itself; text and markdown lay it out as tables.
type AnalysisView struct {
	analysis *qmood.Analysis
	opts     AnalysisOptions
}

// NewAnalysisView wraps a for rendering.
func NewAnalysisView(a *qmood.Analysis, opts AnalysisOptions) *AnalysisView {
	return &AnalysisView{analysis: a, opts: opts}
}

func (v *AnalysisView) RenderData() any {
	trimmed := *v.analysis
	trimmed.Classes = v.analysis.Top(v.opts.Top)
	return &trimmed
}

func (v *AnalysisView) RenderText(w io.Writer, colored bool) error {
	return v.report(cellStyle{colored: colored}).RenderText(w, colored)
}

func (v *AnalysisView) RenderMarkdown(w io.Writer) error {
	return v.report(cellStyle{markdown: true}).RenderMarkdown(w)
}

// cellStyle decides how a highlighted score is marked.
type cellStyle struct {
	colored  bool
	markdown bool
}

func (s cellStyle) flag(text string) string {
	switch {
	case s.colored:
		return color.RedString(text)
	case s.markdown:
		return "**" + text + "**"
	default:
		return text + "!"
	}
}

func (v *AnalysisView) report(style cellStyle) *Report {
	a := v.analysis
	classes := a.Top(v.opts.Top)

	sections := []Renderable{
		v.summary(),
		NewTable("Design Metrics", metricHeaders(), metricRows(classes), metricFooter(a.Summary), nil),
		NewTable("Quality Attributes", qualityHeaders(), v.qualityRows(classes, style), nil, nil),
	}
	if v.opts.Diagnostics && len(a.Diagnostics) > 0 {
		sections = append(sections, DiagnosticsTable(a.Diagnostics))
	}

	return &Report{Title: "QMOOD Analysis", Sections: sections, Data: a}
}

func (v *AnalysisView) summary() *Section {
	a := v.analysis
	s := a.Summary
	var b strings.Builder
	fmt.Fprintf(&b, "Classes: %d (roots %d, hierarchies %d, max depth %d)\n", s.TotalClasses, s.Roots, s.Hierarchies, s.MaxDepth)
	fmt.Fprintf(&b, "DSC: %d  NOH: %d\n", a.DSC, a.NOH)
	fmt.Fprintf(&b, "Avg ANA: %s  Avg DAM: %s  Avg CAM: %s  Avg MFA: %s\n",
		formatFloat(s.AvgANA), formatFloat(s.AvgDAM), formatFloat(s.AvgCAM), formatFloat(s.AvgMFA))
	if s.Diagnostics > 0 {
		fmt.Fprintf(&b, "Diagnostics: %d\n", s.Diagnostics)
	}
	if a.Digest != "" {
		fmt.Fprintf(&b, "Digest: %s", a.Digest)
	}

	sec := &Section{Title: "Summary", Content: strings.TrimRight(b.String(), "\n")}
	if len(s.Quality) > 0 {
		var q strings.Builder
		for _, attr := range qmood.Attributes() {
			st := s.Quality[attr]
			fmt.Fprintf(&q, "%-18s mean %s  std %s  min %s  max %s\n", attr, formatFloat(st.Mean), formatFloat(st.StdDev), formatFloat(st.Min), formatFloat(st.Max))
		}
		sec.Sections = []Section{{Title: "Quality Distribution", Content: strings.TrimRight(q.String(), "\n")}}
	}
	return sec
}

func metricHeaders() []string {
	return []string{"Class", "Variant", "ANA", "DAM", "DCC", "CAM", "MOA", "MFA", "NOP", "CIS", "NOM"}
}

func metricRows(classes []qmood.ClassMetrics) [][]string {
	rows := make([][]string, len(classes))
	for i := range classes {
		c := &classes[i]
		skippedOr := func(metric, value string) string {
			if c.IsSkipped(metric) {
				return "-"
			}
			return value
		}
		rows[i] = []string{
			c.Name,
			c.Variant,
			formatFloat(c.ANA),
			skippedOr(qmood.MetricDAM, formatFloat(c.DAM)),
			skippedOr(qmood.MetricDCC, fmt.Sprint(c.DCC)),
			skippedOr(qmood.MetricCAM, formatFloat(c.CAM)),
			skippedOr(qmood.MetricMOA, fmt.Sprint(c.MOA)),
			skippedOr(qmood.MetricMFA, formatFloat(c.MFA)),
			skippedOr(qmood.MetricNOP, fmt.Sprint(c.NOP)),
			skippedOr(qmood.MetricCIS, fmt.Sprint(c.CIS)),
			skippedOr(qmood.MetricNOM, fmt.Sprint(c.NOM)),
		}
	}
	return rows
}

// metricFooter shows the averages over all classes, not only the rows shown.
func metricFooter(s qmood.Summary) []string {
	if s.TotalClasses == 0 {
		return nil
	}
	return []string{
		"Mean", "",
		formatFloat(s.AvgANA),
		formatFloat(s.AvgDAM),
		"",
		formatFloat(s.AvgCAM),
		"",
		formatFloat(s.AvgMFA),
		"", "", "",
	}
}

func qualityHeaders() []string {
	headers := []string{"Class"}
	for _, attr := range qmood.Attributes() {
		headers = append(headers, titleCase(string(attr)))
	}
	return headers
}

func (v *AnalysisView) qualityRows(classes []qmood.ClassMetrics, style cellStyle) [][]string {
	rows := make([][]string, len(classes))
	for i, c := range classes {
		row := []string{c.Name}
		for _, attr := range qmood.Attributes() {
			value := c.Quality.Of(attr)
			cell := formatFloat(value)
			if level, ok := v.opts.Thresholds[attr]; ok && value < level {
				cell = style.flag(cell)
			}
			row = append(row, cell)
		}
		rows[i] = row
	}
	return rows
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// DiagnosticsTable lists diagnostics one per row.
func DiagnosticsTable(diags []qmood.Diagnostic) *Table {
	rows := make([][]string, len(diags))
	for i, d := range diags {
		rows[i] = []string{string(d.Kind), d.Class, d.Location, d.Message}
	}
	return NewTable("Diagnostics", []string{"Kind", "Class", "Location", "Message"}, rows, nil, diags)
}
