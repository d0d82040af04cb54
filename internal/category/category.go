// Package category maps raw survey answers onto a small set of canonical labels.
package category

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/KaramelBytes/sodash/internal/dataset"
)

// Labels shared by several maps.
const (
	NotInformed = "not_informed"
	Other       = "other"
)

// Map is a total function from raw answer to canonical label. A Map is built
// once and never modified; it is safe for concurrent use.
type Map struct {
	name        string
	entries     map[string]string
	def         string
	missing     string
	passthrough bool
	classify    func(string) string
}

// New builds a lookup map. Unmatched answers resolve to def and absent
// answers to missing (def when missing is empty).
func New(name string, entries map[string]string, def, missing string) *Map {
	m := &Map{name: name, entries: make(map[string]string, len(entries)), def: def, missing: missing}
	for raw, label := range entries {
		m.entries[clean(raw)] = label
	}
	if m.missing == "" {
		m.missing = def
	}
	return m
}

// Passthrough builds a map that keeps every present answer as its own label
// and labels absent answers with missing.
func Passthrough(name, missing string) *Map {
	return &Map{name: name, entries: map[string]string{}, def: missing, missing: missing, passthrough: true}
}

// Classify builds a map whose present answers are labeled by f. f receives
// the cleaned, non-empty answer and must not return an empty label.
func Classify(name, missing string, f func(string) string) *Map {
	return &Map{name: name, entries: map[string]string{}, def: missing, missing: missing, classify: f}
}

// Name identifies the survey dimension.
func (m *Map) Name() string { return m.name }

// MissingLabel is the label for absent answers.
func (m *Map) MissingLabel() string { return m.missing }

// Normalize resolves one answer. It never returns an empty label.
func (m *Map) Normalize(v dataset.Value) string {
	if v.Absent {
		return m.missing
	}
	raw := clean(v.Raw)
	if raw == "" {
		return m.missing
	}
	if m.classify != nil {
		return m.classify(raw)
	}
	if label, ok := m.entries[raw]; ok {
		return label
	}
	if m.passthrough {
		return raw
	}
	return m.def
}

// Labels normalizes a whole column.
func Labels(vals []dataset.Value, m *Map) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = m.Normalize(v)
	}
	return out
}

// Apply derives a table with dst holding the canonical labels of src.
func Apply(t *dataset.Table, src, dst string, m *Map) (*dataset.Table, error) {
	vals, err := t.Values(src)
	if err != nil {
		return nil, err
	}
	labels := Labels(vals, m)
	out := make([]dataset.Value, len(labels))
	for i, l := range labels {
		out[i] = dataset.Present(l)
	}
	return t.WithColumn(dst, out)
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
