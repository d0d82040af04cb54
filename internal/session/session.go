// Package session holds the loaded survey snapshots for one run and answers
// questions against them. A failing question never fails the session; it
// comes back as a "data unavailable" placeholder.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/question"
	"github.com/KaramelBytes/sodash/internal/report"
)

// Options selects the snapshots and run parameters.
type Options struct {
	Source string
	Year   string
	// BaselineSource is optional; comparison questions degrade without it.
	BaselineSource string
	BaselineYear   string

	Dataset dataset.Options
	TopN    int
	// Workers bounds concurrent question builds; 0 uses GOMAXPROCS.
	Workers int
}

// Session is safe for concurrent use: snapshots are read-only after load.
type Session struct {
	current  *dataset.Table
	baseline *dataset.Table
	opt      Options
	log      *slog.Logger
}

// Open loads the current and, when configured, the baseline snapshot in
// parallel. The current snapshot must carry every required column.
func Open(ctx context.Context, opt Options, log *slog.Logger) (*Session, error) {
	if opt.Source == "" {
		return nil, fmt.Errorf("no dataset configured for year %q", opt.Year)
	}
	log = orDiscard(log)
	var cur, base *dataset.Table
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := load(ctx, opt.Source, opt.Dataset, log)
		if err != nil {
			return fmt.Errorf("load %s snapshot: %w", label(opt.Year, "current"), err)
		}
		cur = t
		return nil
	})
	if opt.BaselineSource != "" {
		g.Go(func() error {
			t, err := load(ctx, opt.BaselineSource, opt.Dataset, log)
			if err != nil {
				return fmt.Errorf("load %s snapshot: %w", label(opt.BaselineYear, "baseline"), err)
			}
			base = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := cur.Require(dataset.RequiredColumns...); err != nil {
		return nil, err
	}
	return New(cur, base, opt, log), nil
}

func load(ctx context.Context, source string, opt dataset.Options, log *slog.Logger) (*dataset.Table, error) {
	start := time.Now()
	t, err := dataset.Open(ctx, source, opt)
	if err != nil {
		return nil, err
	}
	log.Info("dataset loaded", "source", source, "rows", t.Len(), "columns", len(t.Columns()), "elapsed", time.Since(start).Round(time.Millisecond))
	return t, nil
}

// New wraps already loaded snapshots. baseline may be nil.
func New(current, baseline *dataset.Table, opt Options, log *slog.Logger) *Session {
	if opt.Workers <= 0 {
		opt.Workers = runtime.GOMAXPROCS(0)
	}
	return &Session{current: current, baseline: baseline, opt: opt, log: orDiscard(log)}
}

// Current returns the current snapshot.
func (s *Session) Current() *dataset.Table { return s.current }

// HasBaseline reports whether a comparison snapshot is loaded.
func (s *Session) HasBaseline() bool { return s.baseline != nil }

// Year returns the current snapshot label.
func (s *Session) Year() string { return s.opt.Year }

// BaselineYear returns the comparison snapshot label.
func (s *Session) BaselineYear() string { return label(s.opt.BaselineYear, "baseline") }

// Questions lists the answerable questions.
func (s *Session) Questions() []question.Question { return question.All() }

func (s *Session) input() question.Input {
	return question.Input{
		Current:      s.current,
		Baseline:     s.baseline,
		Year:         s.opt.Year,
		BaselineYear: s.opt.BaselineYear,
		TopN:         s.opt.TopN,
	}
}

// Report answers one question. Only an unknown id is an error.
func (s *Session) Report(id string) (*report.Renderable, error) {
	q, err := question.Get(id)
	if err != nil {
		return nil, err
	}
	return s.run(q), nil
}

// ReportAll answers every question, in registry order.
func (s *Session) ReportAll(ctx context.Context) ([]*report.Renderable, error) {
	return s.ReportMany(ctx, question.IDs())
}

// ReportMany answers the given questions concurrently and returns them in
// the order requested.
func (s *Session) ReportMany(ctx context.Context, ids []string) ([]*report.Renderable, error) {
	qs := make([]question.Question, len(ids))
	for i, id := range ids {
		q, err := question.Get(id)
		if err != nil {
			return nil, err
		}
		qs[i] = q
	}
	out := make([]*report.Renderable, len(qs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opt.Workers)
	for i, q := range qs {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.run(q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Session) run(q question.Question) *report.Renderable {
	start := time.Now()
	r, err := q.Run(s.input())
	if err != nil {
		s.log.Warn("question unavailable", "question", q.ID, "err", err)
		r = report.Placeholder(q.ID, q.Title, err.Error())
	} else {
		s.log.Debug("question rendered", "question", q.ID, "kind", r.Kind, "rows", r.Total, "elapsed", time.Since(start))
	}
	r.ID = uuid.NewString()
	return r
}

func label(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func orDiscard(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return log
}
