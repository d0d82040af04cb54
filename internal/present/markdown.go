// Package present turns renderable reports into text, markup and images for
// the CLI and the dashboard.
package present

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/KaramelBytes/sodash/internal/report"
)

// Markdown renders a report as a compact Markdown section.
func Markdown(r *report.Renderable) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## %s\n\n", safeName(r.Title, r.Question)))
	switch r.Kind {
	case report.Unavailable:
		b.WriteString(fmt.Sprintf("_%s_", report.UnavailableText))
		if r.Reason != "" {
			b.WriteString(fmt.Sprintf(" (%s)", safeVal(r.Reason)))
		}
		b.WriteString("\n")
		return b.String()
	case report.SingleMetric:
		if m := r.Metric; m != nil {
			b.WriteString(fmt.Sprintf("**%s**: %s (%s vs %s: %s)\n", safeVal(m.Label), Amount(m.Value), Delta(m.Delta), safeVal(m.BaselineLabel), Amount(m.Baseline)))
		}
	default:
		header, rows := Grid(r)
		b.WriteString(alignTable(header, rows))
		if r.Table != nil && r.Table.Omitted > 0 {
			b.WriteString(fmt.Sprintf("\n%d more groups not shown\n", r.Table.Omitted))
		}
	}
	if r.Policy != "" || r.Total > 0 {
		b.WriteString("\n")
		if r.Total > 0 {
			b.WriteString(fmt.Sprintf("Rows: %d", r.Total))
		}
		if r.Policy != "" {
			if r.Total > 0 {
				b.WriteString("; ")
			}
			b.WriteString(r.Policy)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// alignTable pads cells to the widest display width per column.
func alignTable(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	measure := func(row []string) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	var b strings.Builder
	writeRow := func(row []string, sep bool) {
		b.WriteString("|")
		for i, w := range widths {
			b.WriteString(" ")
			if sep {
				b.WriteString(strings.Repeat("-", w))
			} else {
				cell := ""
				if i < len(row) {
					cell = safeVal(row[i])
				}
				b.WriteString(cell)
				if pad := w - runewidth.StringWidth(cell); pad > 0 {
					b.WriteString(strings.Repeat(" ", pad))
				}
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}
	writeRow(header, false)
	writeRow(nil, true)
	for _, row := range rows {
		writeRow(row, false)
	}
	return b.String()
}

func safeName(title, fallback string) string {
	s := strings.TrimSpace(title)
	if s == "" {
		s = strings.TrimSpace(fallback)
	}
	if s == "" {
		return "(untitled)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
