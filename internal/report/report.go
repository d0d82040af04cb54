// Package report shapes aggregated survey statistics into the minimal
// structures each presentation kind needs. Nothing here draws.
package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/KaramelBytes/sodash/internal/analysis"
)

// Kind selects the presentation shape.
type Kind string

const (
	RankedTable  Kind = "ranked-table"
	GroupedBar   Kind = "grouped-bar"
	SingleMetric Kind = "single-metric"
	PieShare     Kind = "pie-share"
	Unavailable  Kind = "unavailable"
)

// UnavailableText is shown in place of a failed question.
const UnavailableText = "data unavailable"

// Options carries per-question presentation parameters.
type Options struct {
	Question string
	Title    string
	// Policy documents which rows count toward percentages.
	Policy string
	// Limit truncates ranked rows and bar groups; 0 keeps all.
	Limit int
	// Primary and Baseline name the metric groups; empty picks the first
	// two groups in rank order.
	Primary  string
	Baseline string
	// ValueLabel names the secondary numeric field ("YearsCode").
	ValueLabel string
	// DeltaFallback reports a zero-baseline delta as unavailable instead of
	// failing with DivideByZeroError.
	DeltaFallback bool
}

// Renderable is one question's presentation-ready result.
type Renderable struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Question string `json:"question" yaml:"question"`
	Title    string `json:"title" yaml:"title"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Policy   string `json:"policy,omitempty" yaml:"policy,omitempty"`
	Total    int    `json:"total" yaml:"total"`

	Table  *Table  `json:"table,omitempty" yaml:"table,omitempty"`
	Bars   *Bars   `json:"bars,omitempty" yaml:"bars,omitempty"`
	Metric *Metric `json:"metric,omitempty" yaml:"metric,omitempty"`
	Pie    *Pie    `json:"pie,omitempty" yaml:"pie,omitempty"`
	Reason string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Table is a ranked list of groups.
type Table struct {
	ValueLabel string     `json:"value_label,omitempty" yaml:"value_label,omitempty"`
	Rows       []TableRow `json:"rows" yaml:"rows"`
	// Omitted counts groups dropped by Options.Limit.
	Omitted int `json:"omitted,omitempty" yaml:"omitted,omitempty"`
}

type TableRow struct {
	Rank       int                  `json:"rank" yaml:"rank"`
	Label      string               `json:"label" yaml:"label"`
	Count      int                  `json:"count" yaml:"count"`
	Percentage float64              `json:"percentage" yaml:"percentage"`
	Summary    *analysis.NumSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Bars holds three parallel series over one label axis.
type Bars struct {
	ValueLabel string    `json:"value_label,omitempty" yaml:"value_label,omitempty"`
	Labels     []string  `json:"labels" yaml:"labels"`
	Mean       []float64 `json:"mean" yaml:"mean"`
	Min        []float64 `json:"min" yaml:"min"`
	Max        []float64 `json:"max" yaml:"max"`
}

// Metric is a value compared against a baseline. Delta is nil when the
// baseline is zero and the caller asked for a fallback.
type Metric struct {
	Label         string   `json:"label" yaml:"label"`
	Value         float64  `json:"value" yaml:"value"`
	BaselineLabel string   `json:"baseline_label" yaml:"baseline_label"`
	Baseline      float64  `json:"baseline" yaml:"baseline"`
	Delta         *float64 `json:"delta,omitempty" yaml:"delta,omitempty"`
}

// Pie holds each label's share of the total.
type Pie struct {
	Slices []Slice `json:"slices" yaml:"slices"`
}

type Slice struct {
	Label  string  `json:"label" yaml:"label"`
	Share  float64 `json:"share" yaml:"share"`
	Legend string  `json:"legend" yaml:"legend"`
}

// Difference returns the percentage change of a relative to b.
func Difference(a, b float64) (float64, error) {
	if b == 0 {
		return 0, &DivideByZeroError{Numerator: a}
	}
	return (a - b) / b * 100, nil
}

// Render reshapes stat for kind.
func Render(stat *analysis.GroupStat, kind Kind, opt Options) (*Renderable, error) {
	if stat == nil {
		return nil, &analysis.EmptyInputError{Dimension: opt.Question}
	}
	r := &Renderable{Question: opt.Question, Title: opt.Title, Kind: kind, Policy: opt.Policy, Total: stat.Total}
	var err error
	if kind == RankedTable || kind == PieShare {
		if err := checkShares(stat); err != nil {
			return nil, err
		}
	}
	switch kind {
	case RankedTable:
		r.Table = rankedTable(stat, opt)
	case GroupedBar:
		r.Bars, err = groupedBars(stat, opt)
	case SingleMetric:
		r.Metric, err = metric(stat, opt)
	case PieShare:
		r.Pie = pie(stat)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// shareTolerance bounds the rounding drift of summed group percentages.
const shareTolerance = 1e-6

func checkShares(stat *analysis.GroupStat) error {
	if len(stat.Groups) == 0 {
		return nil
	}
	if sum := stat.PercentTotal(); math.Abs(sum-100) > shareTolerance {
		return fmt.Errorf("%w: %.6f", ErrShareTotal, sum)
	}
	return nil
}

// Placeholder stands in for a question that could not be computed.
func Placeholder(question, title, reason string) *Renderable {
	return &Renderable{Question: question, Title: title, Kind: Unavailable, Reason: reason}
}

func limited(groups []analysis.Group, limit int) ([]analysis.Group, int) {
	if limit > 0 && len(groups) > limit {
		return groups[:limit], len(groups) - limit
	}
	return groups, 0
}

func rankedTable(stat *analysis.GroupStat, opt Options) *Table {
	groups, omitted := limited(stat.Groups, opt.Limit)
	t := &Table{ValueLabel: opt.ValueLabel, Omitted: omitted, Rows: make([]TableRow, len(groups))}
	for i, g := range groups {
		t.Rows[i] = TableRow{Rank: i + 1, Label: g.Label, Count: g.Count, Percentage: g.Percentage, Summary: g.Summary}
	}
	return t
}

func groupedBars(stat *analysis.GroupStat, opt Options) (*Bars, error) {
	var numeric []analysis.Group
	for _, g := range stat.Groups {
		if g.Summary != nil {
			numeric = append(numeric, g)
		}
	}
	groups, _ := limited(numeric, opt.Limit)
	b := &Bars{ValueLabel: opt.ValueLabel}
	for _, g := range groups {
		b.Labels = append(b.Labels, g.Label)
		b.Mean = append(b.Mean, g.Summary.Mean)
		b.Min = append(b.Min, g.Summary.Min)
		b.Max = append(b.Max, g.Summary.Max)
	}
	if len(b.Labels) == 0 {
		return nil, ErrNoNumeric
	}
	return b, nil
}

func metric(stat *analysis.GroupStat, opt Options) (*Metric, error) {
	primary, baseline := opt.Primary, opt.Baseline
	if primary == "" || baseline == "" {
		if len(stat.Groups) < 2 {
			return nil, fmt.Errorf("%w: metric needs two groups, have %d", ErrUnknownLabel, len(stat.Groups))
		}
		primary, baseline = stat.Groups[0].Label, stat.Groups[1].Label
	}
	a, err := groupMean(stat, primary)
	if err != nil {
		return nil, err
	}
	b, err := groupMean(stat, baseline)
	if err != nil {
		return nil, err
	}
	m := &Metric{Label: primary, Value: a, BaselineLabel: baseline, Baseline: b}
	d, err := Difference(a, b)
	if err != nil {
		if opt.DeltaFallback {
			return m, nil
		}
		return nil, err
	}
	m.Delta = &d
	return m, nil
}

func groupMean(stat *analysis.GroupStat, label string) (float64, error) {
	g, ok := stat.Lookup(label)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	if g.Summary == nil {
		return 0, fmt.Errorf("%w for %q", ErrNoNumeric, label)
	}
	return g.Summary.Mean, nil
}

func pie(stat *analysis.GroupStat) *Pie {
	p := &Pie{Slices: make([]Slice, len(stat.Groups))}
	for i, g := range stat.Groups {
		p.Slices[i] = Slice{Label: g.Label, Share: g.Percentage, Legend: fmt.Sprintf("%s (%s%%)", g.Label, round2(g.Percentage))}
	}
	return p
}

func round2(x float64) string {
	return strconv.FormatFloat(math.Round(x*100)/100, 'f', -1, 64)
}
