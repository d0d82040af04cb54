package report

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sodash/internal/analysis"
)

func TestDifference(t *testing.T) {
	d, err := Difference(110000, 100000)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, d, 1e-9)

	d, err = Difference(100000, 110000)
	require.NoError(t, err)
	assert.InDelta(t, -9.090909, d, 1e-6)

	_, err = Difference(5, 0)
	var dz *DivideByZeroError
	require.True(t, errors.As(err, &dz))
	assert.Equal(t, 5.0, dz.Numerator)
}

func numericStat(t *testing.T) *analysis.GroupStat {
	t.Helper()
	stat, err := analysis.Aggregate([]analysis.Row{
		{Label: "Brazil", Value: analysis.Number{V: 100000, Valid: true}},
		{Label: "Brazil", Value: analysis.Number{V: 120000, Valid: true}},
		{Label: "USA", Value: analysis.Number{V: 100000, Valid: true}},
		{Label: "USA"},
		{Label: "USA", Value: analysis.Number{V: 100000, Valid: true}},
		{Label: "Chad"},
	}, analysis.Options{Numeric: true})
	require.NoError(t, err)
	return stat
}

func TestRender_RankedTableLimit(t *testing.T) {
	stat := numericStat(t)
	r, err := Render(stat, RankedTable, Options{Question: "country", Title: "Countries", Limit: 2, ValueLabel: "Comp"})
	require.NoError(t, err)
	require.NotNil(t, r.Table)
	assert.Equal(t, RankedTable, r.Kind)
	assert.Equal(t, 6, r.Total)
	assert.Len(t, r.Table.Rows, 2)
	assert.Equal(t, 1, r.Table.Omitted)
	assert.Equal(t, TableRow{Rank: 1, Label: "USA", Count: 3, Percentage: 50, Summary: r.Table.Rows[0].Summary}, r.Table.Rows[0])
	assert.Equal(t, "Brazil", r.Table.Rows[1].Label)
	assert.Equal(t, 2, r.Table.Rows[1].Rank)
}

func TestRender_GroupedBarSkipsGroupsWithoutNumbers(t *testing.T) {
	r, err := Render(numericStat(t), GroupedBar, Options{ValueLabel: "Comp"})
	require.NoError(t, err)
	require.NotNil(t, r.Bars)
	assert.Equal(t, []string{"USA", "Brazil"}, r.Bars.Labels)
	assert.Equal(t, []float64{100000, 110000}, r.Bars.Mean)
	assert.Equal(t, []float64{100000, 100000}, r.Bars.Min)
	assert.Equal(t, []float64{100000, 120000}, r.Bars.Max)
	assert.Len(t, r.Bars.Min, len(r.Bars.Labels))

	counts, err := analysis.Counts([]string{"a", "b"})
	require.NoError(t, err)
	_, err = Render(counts, GroupedBar, Options{})
	assert.ErrorIs(t, err, ErrNoNumeric)
}

func TestRender_SingleMetric(t *testing.T) {
	stat := numericStat(t)
	r, err := Render(stat, SingleMetric, Options{Primary: "Brazil", Baseline: "USA"})
	require.NoError(t, err)
	require.NotNil(t, r.Metric)
	assert.Equal(t, 110000.0, r.Metric.Value)
	assert.Equal(t, 100000.0, r.Metric.Baseline)
	require.NotNil(t, r.Metric.Delta)
	assert.InDelta(t, 10.0, *r.Metric.Delta, 1e-9)

	r, err = Render(stat, SingleMetric, Options{})
	require.NoError(t, err)
	assert.Equal(t, "USA", r.Metric.Label)
	assert.Equal(t, "Brazil", r.Metric.BaselineLabel)

	_, err = Render(stat, SingleMetric, Options{Primary: "Brazil", Baseline: "Peru"})
	assert.ErrorIs(t, err, ErrUnknownLabel)
	_, err = Render(stat, SingleMetric, Options{Primary: "Brazil", Baseline: "Chad"})
	assert.ErrorIs(t, err, ErrNoNumeric)
}

func TestRender_SingleMetricZeroBaseline(t *testing.T) {
	stat, err := analysis.Aggregate([]analysis.Row{
		{Label: "now", Value: analysis.Number{V: 10, Valid: true}},
		{Label: "before", Value: analysis.Number{V: 0, Valid: true}},
	}, analysis.Options{Numeric: true})
	require.NoError(t, err)

	_, err = Render(stat, SingleMetric, Options{Primary: "now", Baseline: "before"})
	var dz *DivideByZeroError
	assert.True(t, errors.As(err, &dz))

	r, err := Render(stat, SingleMetric, Options{Primary: "now", Baseline: "before", DeltaFallback: true})
	require.NoError(t, err)
	assert.Nil(t, r.Metric.Delta)
	assert.Equal(t, 10.0, r.Metric.Value)
}

func TestRender_PieShareLegends(t *testing.T) {
	stat, err := analysis.Counts([]string{"Brazil", "Brazil", "USA"})
	require.NoError(t, err)
	r, err := Render(stat, PieShare, Options{})
	require.NoError(t, err)
	require.Len(t, r.Pie.Slices, 2)
	assert.Equal(t, "Brazil (66.67%)", r.Pie.Slices[0].Legend)
	assert.Equal(t, "USA (33.33%)", r.Pie.Slices[1].Legend)
}

func TestRender_Errors(t *testing.T) {
	_, err := Render(nil, RankedTable, Options{Question: "q"})
	var empty *analysis.EmptyInputError
	assert.True(t, errors.As(err, &empty))

	stat, _ := analysis.Counts([]string{"a"})
	_, err = Render(stat, Kind("waffle"), Options{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestRender_RejectsSharesOffTotal(t *testing.T) {
	stat := &analysis.GroupStat{Total: 2, Groups: []analysis.Group{
		{Label: "a", Count: 1, Percentage: 50},
		{Label: "b", Count: 1, Percentage: 40},
	}}
	for _, kind := range []Kind{RankedTable, PieShare} {
		_, err := Render(stat, kind, Options{})
		assert.ErrorIs(t, err, ErrShareTotal, kind)
	}

	many, err := analysis.Counts([]string{"a", "b", "c", "c", "d", "e", "f"})
	require.NoError(t, err)
	_, err = Render(many, PieShare, Options{})
	assert.NoError(t, err, "rounding drift stays within tolerance")
}

func TestRender_GroupedBarLimitCountsNumericGroups(t *testing.T) {
	rows := []analysis.Row{{Label: "Chad"}, {Label: "Chad"}, {Label: "Chad"}}
	rows = append(rows,
		analysis.Row{Label: "USA", Value: analysis.Number{V: 10, Valid: true}},
		analysis.Row{Label: "USA", Value: analysis.Number{V: 20, Valid: true}},
		analysis.Row{Label: "Brazil", Value: analysis.Number{V: 5, Valid: true}},
	)
	stat, err := analysis.Aggregate(rows, analysis.Options{Numeric: true})
	require.NoError(t, err)
	require.Equal(t, "Chad", stat.Groups[0].Label)

	r, err := Render(stat, GroupedBar, Options{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"USA", "Brazil"}, r.Bars.Labels)
	assert.Equal(t, []float64{15, 5}, r.Bars.Mean)
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder("python-share", "Python users", "missing column")
	assert.Equal(t, Unavailable, p.Kind)
	assert.Equal(t, "missing column", p.Reason)
	assert.Nil(t, p.Table)
}
