package present

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/sodash/internal/report"
)

// ErrNoChart indicates a report kind without a chart form.
var ErrNoChart = errors.New("report has no chart form")

// ChartSize is the PNG canvas size.
type ChartSize struct {
	Width  int
	Height int
}

// DefaultChartSize matches the dashboard layout.
var DefaultChartSize = ChartSize{Width: 1024, Height: 640}

var barColor = drawing.ColorFromHex("6a4c93")

// Chart writes a PNG for ranked tables (shares), grouped bars (means) and
// pie shares.
func Chart(w io.Writer, r *report.Renderable, size ChartSize) error {
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultChartSize
	}
	switch r.Kind {
	case report.RankedTable:
		if r.Table == nil || len(r.Table.Rows) == 0 {
			return ErrNoChart
		}
		bars := make([]chart.Value, len(r.Table.Rows))
		for i, row := range r.Table.Rows {
			bars[i] = chart.Value{Value: row.Percentage, Label: row.Label}
		}
		return renderBars(w, safeName(r.Title, r.Question), "Share (%)", bars, size)
	case report.GroupedBar:
		if r.Bars == nil || len(r.Bars.Labels) == 0 {
			return ErrNoChart
		}
		bars := make([]chart.Value, len(r.Bars.Labels))
		for i, l := range r.Bars.Labels {
			bars[i] = chart.Value{Value: r.Bars.Mean[i], Label: l}
		}
		return renderBars(w, safeName(r.Title, r.Question), withUnit("Mean", r.Bars.ValueLabel), bars, size)
	case report.PieShare:
		if r.Pie == nil || len(r.Pie.Slices) == 0 {
			return ErrNoChart
		}
		values := make([]chart.Value, len(r.Pie.Slices))
		for i, s := range r.Pie.Slices {
			values[i] = chart.Value{Value: s.Share, Label: s.Legend}
		}
		pie := chart.PieChart{
			Title:  safeName(r.Title, r.Question),
			Width:  size.Width,
			Height: size.Height,
			Values: values,
		}
		if err := pie.Render(chart.PNG, w); err != nil {
			return fmt.Errorf("render pie chart: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNoChart, r.Kind)
	}
}

func renderBars(w io.Writer, title, axis string, bars []chart.Value, size ChartSize) error {
	slot := (size.Width - 120) / len(bars)
	if slot < 16 {
		slot = 16
	}
	barWidth := slot / 2
	top := 0.0
	for i := range bars {
		bars[i].Style = chart.Style{FillColor: barColor, StrokeColor: barColor}
		if bars[i].Value > top {
			top = bars[i].Value
		}
	}
	if top == 0 {
		top = 1
	}
	graph := chart.BarChart{
		Title: title,
		Background: chart.Style{
			Padding:     chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
			FillColor:   drawing.ColorWhite,
			StrokeColor: drawing.ColorFromHex("efefef"),
			StrokeWidth: 1,
		},
		Width:      size.Width,
		Height:     size.Height,
		BarWidth:   barWidth,
		BarSpacing: slot - barWidth,
		Bars:       bars,
		YAxis: chart.YAxis{
			Name:  axis,
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// ChartFileName names the PNG for r after its title, falling back to the
// question ID.
func ChartFileName(r *report.Renderable) string {
	name := Slug(r.Title)
	if name == "" {
		name = Slug(r.Question)
	}
	return name + ".png"
}

// Slug turns a title into an ASCII file name stem.
func Slug(s string) string {
	ascii := strings.ToLower(unidecode.Unidecode(s))
	var b strings.Builder
	dash := false
	for _, r := range ascii {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
