package analysis

import (
	"fmt"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/sodash/internal/dataset"
)

// Column kinds reported by Profile.
const (
	KindNumeric     = "numeric"
	KindCategorical = "categorical"
	KindMultiValue  = "multi-value"
	KindEmpty       = "empty"
)

// Profile is a markdown-friendly overview of a loaded snapshot.
type Profile struct {
	Name string          `json:"name" yaml:"name"`
	Rows int             `json:"rows" yaml:"rows"`
	Cols []ColumnProfile `json:"columns" yaml:"columns"`
}

// ColumnProfile captures inferred kind and statistics per column.
type ColumnProfile struct {
	Name    string `json:"name" yaml:"name"`
	Kind    string `json:"kind" yaml:"kind"`
	NonNull int    `json:"non_null" yaml:"non_null"`
	Missing int    `json:"missing" yaml:"missing"`
	Unique  int    `json:"unique" yaml:"unique"`
	// Numeric stats
	Min    float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max    float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Mean   float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Median float64 `json:"median,omitempty" yaml:"median,omitempty"`
	Std    float64 `json:"std,omitempty" yaml:"std,omitempty"`
	// Most frequent answers, or tokens for multi-value columns
	TopValues []CategoryCount `json:"top_values,omitempty" yaml:"top_values,omitempty"`
}

type CategoryCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// ProfileTable summarizes every column of t. topK bounds TopValues.
func ProfileTable(t *dataset.Table, topK int) (*Profile, error) {
	p := &Profile{Name: t.Name(), Rows: t.Len()}
	for _, c := range t.Columns() {
		vals, err := t.Values(c)
		if err != nil {
			return nil, err
		}
		p.Cols = append(p.Cols, profileColumn(c, vals, topK))
	}
	return p, nil
}

func profileColumn(name string, vals []dataset.Value, topK int) ColumnProfile {
	cp := ColumnProfile{Name: name}
	var present, tokens []string
	var nums []float64
	numeric, multi := true, false
	for _, v := range vals {
		raw := strings.TrimSpace(v.Raw)
		if v.Absent || raw == "" {
			cp.Missing++
			continue
		}
		cp.NonNull++
		present = append(present, raw)
		if f, ok := ParseNumber(raw); ok && numeric {
			nums = append(nums, f)
		} else {
			numeric = false
		}
		if strings.Contains(raw, dataset.MultiValueSep) {
			multi = true
		}
		tokens = append(tokens, dataset.Tokens(raw, dataset.MultiValueSep)...)
	}
	if cp.NonNull == 0 {
		cp.Kind = KindEmpty
		return cp
	}
	uniq, _ := Counts(present)
	cp.Unique = len(uniq.Groups)
	switch {
	case numeric:
		cp.Kind = KindNumeric
		cp.Min, _ = stats.Min(nums)
		cp.Max, _ = stats.Max(nums)
		cp.Mean, _ = stats.Mean(nums)
		cp.Median, _ = stats.Median(nums)
		if len(nums) > 1 {
			cp.Std, _ = stats.StandardDeviationSample(nums)
		}
	case multi:
		cp.Kind = KindMultiValue
		cp.TopValues = topValues(tokens, topK)
	default:
		cp.Kind = KindCategorical
		cp.TopValues = topValues(present, topK)
	}
	return cp
}

func topValues(values []string, k int) []CategoryCount {
	stat, err := Counts(values)
	if err != nil {
		return nil
	}
	n := len(stat.Groups)
	if k > 0 && n > k {
		n = k
	}
	out := make([]CategoryCount, n)
	for i := 0; i < n; i++ {
		out[i] = CategoryCount{Value: stat.Groups[i].Label, Count: stat.Groups[i].Count}
	}
	return out
}

// Markdown renders a compact schema overview.
func (p *Profile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", p.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Cols {
		missPct := 0.0
		if total := c.NonNull + c.Missing; total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeVal(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case KindNumeric:
			b.WriteString(fmt.Sprintf("; min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
		case KindCategorical, KindMultiValue:
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Kind == KindCategorical && c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
