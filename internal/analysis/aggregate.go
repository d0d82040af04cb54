package analysis

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"

	"github.com/KaramelBytes/sodash/internal/dataset"
)

// Number is an optional numeric survey value.
type Number struct {
	V     float64
	Valid bool
}

// Row is one respondent reduced to its canonical label and an optional
// secondary numeric field.
type Row struct {
	Label string
	Value Number
}

// Options controls aggregation.
type Options struct {
	// Numeric computes mean/min/max of Row.Value per group.
	Numeric bool
}

// GroupStat is the per-label summary of one aggregation, ranked by count
// descending and label ascending.
type GroupStat struct {
	Total  int     `json:"total" yaml:"total"`
	Groups []Group `json:"groups" yaml:"groups"`
}

// Group is one canonical label's share of the rows.
type Group struct {
	Label      string      `json:"label" yaml:"label"`
	Count      int         `json:"count" yaml:"count"`
	Percentage float64     `json:"percentage" yaml:"percentage"`
	Summary    *NumSummary `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// NumSummary describes the secondary numeric field of a group after missing
// entries were imputed with the group mean.
type NumSummary struct {
	Count   int     `json:"count" yaml:"count"`
	Imputed int     `json:"imputed" yaml:"imputed"`
	Mean    float64 `json:"mean" yaml:"mean"`
	Min     float64 `json:"min" yaml:"min"`
	Max     float64 `json:"max" yaml:"max"`
}

// EmptyInputError indicates aggregation over zero rows.
type EmptyInputError struct {
	Dimension string
}

func (e *EmptyInputError) Error() string {
	if e.Dimension != "" {
		return fmt.Sprintf("no rows to aggregate for %s", e.Dimension)
	}
	return "no rows to aggregate"
}

// Aggregate partitions rows by label and computes counts, percentages of the
// total and, with opt.Numeric, an imputed numeric summary per group.
func Aggregate(rows []Row, opt Options) (*GroupStat, error) {
	if len(rows) == 0 {
		return nil, &EmptyInputError{}
	}
	type acc struct {
		count   int
		present []float64
		missing int
	}
	groups := map[string]*acc{}
	for _, r := range rows {
		a := groups[r.Label]
		if a == nil {
			a = &acc{}
			groups[r.Label] = a
		}
		a.count++
		if !opt.Numeric {
			continue
		}
		if r.Value.Valid {
			a.present = append(a.present, r.Value.V)
		} else {
			a.missing++
		}
	}

	total := len(rows)
	out := &GroupStat{Total: total, Groups: make([]Group, 0, len(groups))}
	for label, a := range groups {
		g := Group{Label: label, Count: a.count, Percentage: 100 * float64(a.count) / float64(total)}
		if opt.Numeric {
			g.Summary = imputedSummary(a.present, a.missing)
		}
		out.Groups = append(out.Groups, g)
	}
	sort.Slice(out.Groups, func(i, j int) bool {
		if out.Groups[i].Count == out.Groups[j].Count {
			return out.Groups[i].Label < out.Groups[j].Label
		}
		return out.Groups[i].Count > out.Groups[j].Count
	})
	return out, nil
}

// Counts aggregates bare labels.
func Counts(labels []string) (*GroupStat, error) {
	return Aggregate(LabelRows(labels), Options{})
}

// imputedSummary runs the three passes: mean over present values, fill the
// missing ones with it, then mean/min/max over the completed column.
// A group without any present value has no summary.
func imputedSummary(present []float64, missing int) *NumSummary {
	if len(present) == 0 {
		return nil
	}
	fill, _ := stats.Mean(present)
	completed := make([]float64, 0, len(present)+missing)
	completed = append(completed, present...)
	for i := 0; i < missing; i++ {
		completed = append(completed, fill)
	}
	mean, _ := stats.Mean(completed)
	lo, _ := stats.Min(completed)
	hi, _ := stats.Max(completed)
	return &NumSummary{Count: len(completed), Imputed: missing, Mean: mean, Min: lo, Max: hi}
}

// Lookup returns the group for label.
func (s *GroupStat) Lookup(label string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return Group{}, false
}

// Top returns the labels of the first n groups, skipping any in exclude.
func (s *GroupStat) Top(n int, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}
	var out []string
	for _, g := range s.Groups {
		if len(out) == n {
			break
		}
		if !skip[g.Label] {
			out = append(out, g.Label)
		}
	}
	return out
}

// Labels returns group labels in rank order.
func (s *GroupStat) Labels() []string {
	out := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = g.Label
	}
	return out
}

// Percentages returns group percentages in rank order.
func (s *GroupStat) Percentages() []float64 {
	out := make([]float64, len(s.Groups))
	for i, g := range s.Groups {
		out[i] = g.Percentage
	}
	return out
}

// PercentTotal sums the group percentages; 100 up to rounding.
func (s *GroupStat) PercentTotal() float64 {
	return floats.Sum(s.Percentages())
}

// LabelRows wraps labels as rows without a numeric field.
func LabelRows(labels []string) []Row {
	rows := make([]Row, len(labels))
	for i, l := range labels {
		rows[i] = Row{Label: l}
	}
	return rows
}

// NumericRows pairs labels with coerced numeric cells. Malformed or absent
// cells become missing values.
func NumericRows(labels []string, values []dataset.Value) ([]Row, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("labels/values length mismatch: %d vs %d", len(labels), len(values))
	}
	rows := make([]Row, len(labels))
	for i, l := range labels {
		rows[i] = Row{Label: l, Value: Coerce(values[i])}
	}
	return rows, nil
}
