package question

import (
	"errors"

	"github.com/KaramelBytes/sodash/internal/analysis"
	"github.com/KaramelBytes/sodash/internal/category"
	"github.com/KaramelBytes/sodash/internal/dataset"
)

// Derived group labels.
const (
	LabelPython       = "python"
	LabelNonPython    = "non-python"
	LabelAll          = "all"
	LabelPythonGlobal = "python (global)"
	Brazil            = "Brazil"
)

const (
	topCountries = 5
	unitYears    = "(years)"
	unitUSD      = "(USD/year)"
)

// step derives a narrower table.
type step func(*dataset.Table) (*dataset.Table, error)

func derive(t *dataset.Table, steps ...step) (*dataset.Table, error) {
	var err error
	for _, s := range steps {
		if t, err = s(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func professionals(t *dataset.Table) (*dataset.Table, error) {
	return t.Where(dataset.ColMainBranch, func(v dataset.Value) bool {
		return category.MainBranch.Normalize(v) == category.Professional
	})
}

func pythonUsers(t *dataset.Table) (*dataset.Table, error) {
	return t.Where(dataset.ColLanguages, usesPython)
}

func withCompensation(t *dataset.Table) (*dataset.Table, error) {
	return t.Where(dataset.ColCompensation, func(v dataset.Value) bool {
		return analysis.Coerce(v).Valid
	})
}

// answered keeps rows whose col holds at least one non-blank answer.
func answered(col string) step {
	return func(t *dataset.Table) (*dataset.Table, error) {
		return t.Where(col, func(v dataset.Value) bool {
			return !v.Absent && len(dataset.Tokens(v.Raw, dataset.MultiValueSep)) > 0
		})
	}
}

func exploded(col string) step {
	return func(t *dataset.Table) (*dataset.Table, error) {
		return t.Explode(col, dataset.MultiValueSep)
	}
}

func inCountries(countries []string) step {
	set := make(map[string]bool, len(countries))
	for _, c := range countries {
		set[c] = true
	}
	return func(t *dataset.Table) (*dataset.Table, error) {
		return t.Where(dataset.ColCountry, func(v dataset.Value) bool {
			return set[category.Country.Normalize(v)]
		})
	}
}

// usesPython reports whether a language answer lists Python.
func usesPython(v dataset.Value) bool {
	return !v.Absent && listsPython(v.Raw)
}

func listsPython(raw string) bool {
	for _, tok := range dataset.Tokens(raw, dataset.MultiValueSep) {
		if tok == "Python" {
			return true
		}
	}
	return false
}

// pythonUse labels a language answer by whether it lists Python.
var pythonUse = category.Classify("python_use", category.NotInformed, func(raw string) string {
	if listsPython(raw) {
		return LabelPython
	}
	return LabelNonPython
})

// simplified derives the Simplified column of col through m.
func simplified(t *dataset.Table, col string, m *category.Map) (*dataset.Table, string, error) {
	dst := dataset.SimplifiedColumn(col)
	out, err := category.Apply(t, col, dst, m)
	if err != nil {
		return nil, "", err
	}
	return out, dst, nil
}

func labelsOf(t *dataset.Table, col string) ([]string, error) {
	vals, err := t.Values(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = v.Raw
	}
	return out, nil
}

func countBy(t *dataset.Table, col string, m *category.Map) (*analysis.GroupStat, error) {
	t, dst, err := simplified(t, col, m)
	if err != nil {
		return nil, err
	}
	labels, err := labelsOf(t, dst)
	if err != nil {
		return nil, err
	}
	stat, err := analysis.Counts(labels)
	if err != nil {
		return nil, withDimension(err, col)
	}
	return stat, nil
}

func summarize(t *dataset.Table, col string, m *category.Map, valueCol string) (*analysis.GroupStat, error) {
	t, dst, err := simplified(t, col, m)
	if err != nil {
		return nil, err
	}
	labels, err := labelsOf(t, dst)
	if err != nil {
		return nil, err
	}
	vals, err := t.Values(valueCol)
	if err != nil {
		return nil, err
	}
	rows, err := analysis.NumericRows(labels, vals)
	if err != nil {
		return nil, err
	}
	stat, err := analysis.Aggregate(rows, analysis.Options{Numeric: true})
	if err != nil {
		return nil, withDimension(err, col)
	}
	return stat, nil
}

// biggestCountries ranks countries by respondents, ignoring unanswered rows.
func biggestCountries(t *dataset.Table, n int) ([]string, error) {
	stat, err := countBy(t, dataset.ColCountry, category.Country)
	if err != nil {
		return nil, err
	}
	return stat.Top(n, category.Country.MissingLabel()), nil
}

func withDimension(err error, dim string) error {
	var e *analysis.EmptyInputError
	if errors.As(err, &e) && e.Dimension == "" {
		return &analysis.EmptyInputError{Dimension: dim}
	}
	return err
}
