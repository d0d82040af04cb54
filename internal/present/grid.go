package present

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/sodash/internal/report"
)

// Grid flattens any report kind into a header and string rows.
func Grid(r *report.Renderable) ([]string, [][]string) {
	switch r.Kind {
	case report.RankedTable:
		return rankedGrid(r.Table)
	case report.GroupedBar:
		return barGrid(r.Bars)
	case report.PieShare:
		return pieGrid(r.Pie)
	case report.SingleMetric:
		return metricGrid(r.Metric)
	default:
		return []string{"Question", "Status"}, [][]string{{safeName(r.Title, r.Question), report.UnavailableText}}
	}
}

func rankedGrid(t *report.Table) ([]string, [][]string) {
	header := []string{"#", "Label", "Count", "Share"}
	if t == nil {
		return header, nil
	}
	numeric := false
	for _, row := range t.Rows {
		if row.Summary != nil {
			numeric = true
			break
		}
	}
	if numeric {
		header = append(header, withUnit("Mean", t.ValueLabel), "Min", "Max")
	}
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := []string{strconv.Itoa(row.Rank), row.Label, strconv.Itoa(row.Count), Percent(row.Percentage)}
		if numeric {
			if s := row.Summary; s != nil {
				cells = append(cells, Amount(s.Mean), Amount(s.Min), Amount(s.Max))
			} else {
				cells = append(cells, "N/A", "N/A", "N/A")
			}
		}
		rows = append(rows, cells)
	}
	return header, rows
}

func barGrid(b *report.Bars) ([]string, [][]string) {
	if b == nil {
		return []string{"Label", "Mean", "Min", "Max"}, nil
	}
	header := []string{"Label", withUnit("Mean", b.ValueLabel), "Min", "Max"}
	rows := make([][]string, len(b.Labels))
	for i, l := range b.Labels {
		rows[i] = []string{l, Amount(b.Mean[i]), Amount(b.Min[i]), Amount(b.Max[i])}
	}
	return header, rows
}

func pieGrid(p *report.Pie) ([]string, [][]string) {
	header := []string{"Label", "Share"}
	if p == nil {
		return header, nil
	}
	rows := make([][]string, len(p.Slices))
	for i, s := range p.Slices {
		rows[i] = []string{s.Label, Percent(s.Share)}
	}
	return header, rows
}

func metricGrid(m *report.Metric) ([]string, [][]string) {
	header := []string{"Metric", "Value", "Baseline", "Delta"}
	if m == nil {
		return header, nil
	}
	return header, [][]string{{
		m.Label,
		Amount(m.Value),
		fmt.Sprintf("%s (%s)", Amount(m.Baseline), m.BaselineLabel),
		Delta(m.Delta),
	}}
}

func withUnit(name, unit string) string {
	if unit == "" {
		return name
	}
	return fmt.Sprintf("%s %s", name, unit)
}

// Percent formats a share with two decimals.
func Percent(p float64) string { return fmt.Sprintf("%.2f%%", p) }

// Amount formats a numeric summary value.
func Amount(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// Delta formats a signed percentage change, or N/A when unavailable.
func Delta(d *float64) string {
	if d == nil {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *d)
}
