package dataset

import (
	"fmt"
	"strings"
)

// Value is one cell of a survey column. Absent marks NA/NaN/empty answers.
type Value struct {
	Raw    string
	Absent bool
}

// Present builds a non-absent value.
func Present(raw string) Value { return Value{Raw: raw} }

// Missing is the distinguished absent value.
var Missing = Value{Absent: true}

// Table is an immutable, column-oriented set of respondent rows. Rows are
// identified only by their ordinal position. Every derivation returns a new
// Table; column slices are shared between derived tables and never written.
type Table struct {
	name string
	cols []string
	data map[string][]Value
	n    int
}

// NewTable builds a table from named columns of equal length.
func NewTable(name string, cols []string, data map[string][]Value) (*Table, error) {
	t := &Table{name: name, cols: append([]string(nil), cols...), data: make(map[string][]Value, len(cols))}
	for i, c := range cols {
		vals, ok := data[c]
		if !ok {
			return nil, &MissingColumnError{Table: name, Column: c}
		}
		if i == 0 {
			t.n = len(vals)
		} else if len(vals) != t.n {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c, len(vals), t.n)
		}
		t.data[c] = vals
	}
	return t, nil
}

// Name returns the dataset name (file base name or URL).
func (t *Table) Name() string { return t.name }

// Len returns the number of respondent rows.
func (t *Table) Len() int { return t.n }

// Columns returns column names in load order.
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

// Has reports whether the column exists.
func (t *Table) Has(col string) bool {
	_, ok := t.data[col]
	return ok
}

// Require fails with MissingColumnError on the first absent column.
func (t *Table) Require(cols ...string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return &MissingColumnError{Table: t.name, Column: c}
		}
	}
	return nil
}

// Values returns the cells of a column. The returned slice must not be modified.
func (t *Table) Values(col string) ([]Value, error) {
	vals, ok := t.data[col]
	if !ok {
		return nil, &MissingColumnError{Table: t.name, Column: col}
	}
	return vals, nil
}

// WithColumn derives a table with col added, or replaced when it exists.
func (t *Table) WithColumn(col string, vals []Value) (*Table, error) {
	if len(vals) != t.n {
		return nil, fmt.Errorf("column %q has %d rows, want %d", col, len(vals), t.n)
	}
	out := &Table{name: t.name, n: t.n, data: make(map[string][]Value, len(t.data)+1)}
	out.cols = append(out.cols, t.cols...)
	for k, v := range t.data {
		out.data[k] = v
	}
	if _, ok := t.data[col]; !ok {
		out.cols = append(out.cols, col)
	}
	out.data[col] = append([]Value(nil), vals...)
	return out, nil
}

// Where derives a table holding the rows whose col value satisfies keep.
func (t *Table) Where(col string, keep func(Value) bool) (*Table, error) {
	vals, err := t.Values(col)
	if err != nil {
		return nil, err
	}
	idx := make([]int, 0, len(vals))
	for i, v := range vals {
		if keep(v) {
			idx = append(idx, i)
		}
	}
	return t.subset(idx), nil
}

// Tokens splits a multi-value answer on sep, dropping blank tokens.
func Tokens(raw, sep string) []string {
	var out []string
	for _, tok := range strings.Split(raw, sep) {
		if tok = strings.TrimSpace(tok); tok != "" {
			out = append(out, tok)
		}
	}
	return out
}

// Explode derives a table with one row per sep-separated token of col.
// Absent cells, and cells holding no token, stay as a single absent row.
func (t *Table) Explode(col, sep string) (*Table, error) {
	vals, err := t.Values(col)
	if err != nil {
		return nil, err
	}
	var idx []int
	var exploded []Value
	for i, v := range vals {
		var tokens []string
		if !v.Absent {
			tokens = Tokens(v.Raw, sep)
		}
		if len(tokens) == 0 {
			idx = append(idx, i)
			exploded = append(exploded, Missing)
			continue
		}
		for _, tok := range tokens {
			idx = append(idx, i)
			exploded = append(exploded, Present(tok))
		}
	}
	out := t.subset(idx)
	out.data[col] = exploded
	return out, nil
}

func (t *Table) subset(idx []int) *Table {
	out := &Table{name: t.name, cols: append([]string(nil), t.cols...), n: len(idx), data: make(map[string][]Value, len(t.data))}
	for c, vals := range t.data {
		sub := make([]Value, len(idx))
		for j, i := range idx {
			sub[j] = vals[i]
		}
		out.data[c] = sub
	}
	return out
}
