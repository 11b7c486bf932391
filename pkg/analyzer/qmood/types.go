package qmood

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Metric names used in ClassMetrics.Skipped.
const (
	MetricDAM = "dam"
	MetricDCC = "dcc"
	MetricCAM = "cam"
	MetricMOA = "moa"
	MetricMFA = "mfa"
	MetricNOP = "nop"
	MetricCIS = "cis"
	MetricNOM = "nom"
)

// ClassMetrics is the result for a single class.
type ClassMetrics struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Variant  string   `json:"variant"`
	Location string   `json:"location,omitempty"`
	Parents  []string `json:"parents,omitempty"`
	Heights  []int    `json:"heights,omitempty"`

	Metrics
	Quality Quality `json:"quality"`

	// Inherited names the inherited-not-overridden methods.
	Inherited []string `json:"inherited,omitempty"`

	// Skipped lists metrics that could not be computed and are reported as 0.
	Skipped []string `json:"skipped,omitempty"`
}

// IsSkipped reports whether metric was not computed for the class.
func (c *ClassMetrics) IsSkipped(metric string) bool {
	for _, s := range c.Skipped {
		if s == metric {
			return true
		}
	}
	return false
}

// AttributeStats holds distribution statistics of one quality attribute.
type AttributeStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summary provides aggregate statistics over all classes.
type Summary struct {
	TotalClasses int                          `json:"total_classes"`
	Roots        int                          `json:"roots"`
	Hierarchies  int                          `json:"hierarchies"`
	MaxDepth     int                          `json:"max_depth"`
	AvgANA       float64                      `json:"avg_ana"`
	AvgDAM       float64                      `json:"avg_dam"`
	AvgCAM       float64                      `json:"avg_cam"`
	AvgMFA       float64                      `json:"avg_mfa"`
	Quality      map[Attribute]AttributeStats `json:"quality"`
	Diagnostics  int                          `json:"diagnostics"`
}

// Analysis is the full QMOOD result over a declaration set.
type Analysis struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Digest      string         `json:"digest"`
	DSC         int            `json:"dsc"`
	NOH         int            `json:"noh"`
	Classes     []ClassMetrics `json:"classes"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
	Summary     Summary        `json:"summary"`
}

// CalculateSummary computes summary statistics.
func (a *Analysis) CalculateSummary() {
	a.Summary = Summary{
		TotalClasses: len(a.Classes),
		Hierarchies:  a.NOH,
		Quality:      make(map[Attribute]AttributeStats),
		Diagnostics:  len(a.Diagnostics),
	}
	if len(a.Classes) == 0 {
		return
	}

	n := len(a.Classes)
	ana := make([]float64, n)
	dam := make([]float64, n)
	cam := make([]float64, n)
	mfa := make([]float64, n)
	for i, c := range a.Classes {
		if len(c.Parents) == 0 {
			a.Summary.Roots++
		}
		for _, h := range c.Heights {
			if h > a.Summary.MaxDepth {
				a.Summary.MaxDepth = h
			}
		}
		ana[i] = c.ANA
		dam[i] = c.DAM
		cam[i] = c.CAM
		mfa[i] = c.MFA
	}
	a.Summary.AvgANA = stat.Mean(ana, nil)
	a.Summary.AvgDAM = stat.Mean(dam, nil)
	a.Summary.AvgCAM = stat.Mean(cam, nil)
	a.Summary.AvgMFA = stat.Mean(mfa, nil)

	values := make([]float64, n)
	for _, attr := range Attributes() {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i, c := range a.Classes {
			v := c.Quality.Of(attr)
			values[i] = v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		mean, std := stat.MeanStdDev(values, nil)
		if n < 2 {
			std = 0
		}
		a.Summary.Quality[attr] = AttributeStats{Mean: mean, StdDev: std, Min: lo, Max: hi}
	}
}

// SortBy orders classes by the given attribute, highest first. Ties and the
// special key "name" fall back to name order.
func (a *Analysis) SortBy(key string) {
	attr, ok := ParseAttribute(key)
	sort.SliceStable(a.Classes, func(i, j int) bool {
		ci, cj := a.Classes[i], a.Classes[j]
		if ok {
			vi, vj := ci.Quality.Of(attr), cj.Quality.Of(attr)
			if vi != vj {
				return vi > vj
			}
		}
		if ci.Name != cj.Name {
			return ci.Name < cj.Name
		}
		return ci.Location < cj.Location
	})
}

// Top returns at most n classes in the current order; n <= 0 returns all.
func (a *Analysis) Top(n int) []ClassMetrics {
	if n <= 0 || n >= len(a.Classes) {
		return a.Classes
	}
	return a.Classes[:n]
}

// Class returns the first class with the given name, or nil.
func (a *Analysis) Class(name string) *ClassMetrics {
	for i := range a.Classes {
		if a.Classes[i].Name == name {
			return &a.Classes[i]
		}
	}
	return nil
}
