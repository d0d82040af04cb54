// Package question holds the survey questions answered by the dashboard.
// Each question derives the rows it needs from the loaded snapshots and
// hands a GroupStat to the report renderer.
package question

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/sodash/internal/analysis"
	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/report"
)

var (
	// ErrUnknownQuestion is returned by Get for an unregistered ID.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrNoBaseline indicates a comparison question without a baseline snapshot.
	ErrNoBaseline = errors.New("no baseline snapshot loaded")
)

// Input is what a question may read. Tables are shared and never modified.
type Input struct {
	Current  *dataset.Table
	Baseline *dataset.Table
	// Year and BaselineYear label the snapshots in comparisons.
	Year         string
	BaselineYear string
	// TopN limits ranked tables that do not set their own limit.
	TopN int
}

type buildFunc func(in Input) (*analysis.GroupStat, report.Options, error)

// Question is one entry of the dashboard sidebar.
type Question struct {
	ID    string      `json:"id" yaml:"id"`
	Title string      `json:"title" yaml:"title"`
	Kind  report.Kind `json:"kind" yaml:"kind"`
	// Columns must exist in the current snapshot.
	Columns []string `json:"columns" yaml:"columns"`
	// Policy states which rows form the denominator.
	Policy string `json:"policy" yaml:"policy"`

	build buildFunc
}

// Run computes the question over in and renders it.
func (q Question) Run(in Input) (*report.Renderable, error) {
	if in.Current == nil {
		return nil, fmt.Errorf("%s: no current snapshot", q.ID)
	}
	if err := in.Current.Require(q.Columns...); err != nil {
		return nil, err
	}
	stat, opt, err := q.build(in)
	if err != nil {
		return nil, err
	}
	if stat == nil || stat.Total == 0 {
		return nil, &analysis.EmptyInputError{Dimension: q.ID}
	}
	opt.Question = q.ID
	opt.Title = q.Title
	opt.Policy = q.Policy
	if opt.Limit == 0 && q.Kind == report.RankedTable {
		opt.Limit = in.TopN
	}
	return report.Render(stat, q.Kind, opt)
}

// All returns every question in sidebar order.
func All() []Question {
	return append([]Question(nil), registry...)
}

// Get looks up a question by ID.
func Get(id string) (Question, error) {
	for _, q := range registry {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
}

// IDs returns the registered question IDs in order.
func IDs() []string {
	out := make([]string, len(registry))
	for i, q := range registry {
		out[i] = q.ID
	}
	return out
}
