package session

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/question"
	"github.com/KaramelBytes/sodash/internal/report"
)

const survey2021 = `MainBranch,EdLevel,DevType,Country,YearsCode,YearsCodePro,ConvertedCompYearly,OrgSize,LanguageHaveWorkedWith,OpSys
I am a developer by profession,"Bachelor's degree (B.A., B.S., B.Eng., etc.)","Developer, back-end;Developer, front-end",Brazil,10,5,100000,20 to 99 employees,Python;Go,Linux-based
I am a developer by profession,"Master's degree (M.A., M.S., M.Eng., MBA, etc.)",NA,USA,20,15,200000,100 to 499 employees,Java,Windows
I am a student who is learning to code,NA,NA,Brazil,2,NA,NA,NA,Python,Windows
I code primarily as a hobby,Something else,NA,Germany,Less than 1 year,NA,50000,NA,NA,MacOS
`

const survey2020 = `MainBranch,EdLevel,DevType,Country,YearsCode,YearsCodePro,ConvertedCompYearly,OrgSize
I am a developer by profession,NA,NA,Brazil,3,1,90000,NA
I am a developer by profession,NA,NA,USA,4,2,110000,NA
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func openSession(t *testing.T, baseline string, log *slog.Logger) *Session {
	t.Helper()
	opt := Options{
		Source:  writeFile(t, "survey_2021.csv", survey2021),
		Year:    "2021",
		Dataset: dataset.DefaultOptions(),
		TopN:    10,
		Workers: 4,
	}
	if baseline != "" {
		opt.BaselineSource = writeFile(t, "survey_2020.csv", baseline)
		opt.BaselineYear = "2020"
	}
	s, err := Open(context.Background(), opt, log)
	require.NoError(t, err)
	return s
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), Options{}, nil)
	assert.Error(t, err)

	_, err = Open(context.Background(), Options{Source: filepath.Join(t.TempDir(), "missing.csv"), Dataset: dataset.DefaultOptions()}, nil)
	assert.Error(t, err)

	src := writeFile(t, "partial.csv", "MainBranch,Country\nI am a developer by profession,Brazil\n")
	_, err = Open(context.Background(), Options{Source: src, Dataset: dataset.DefaultOptions()}, nil)
	var mce *dataset.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, dataset.ColEdLevel, mce.Column)
}

func TestReportAll_DegradesFailedQuestions(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := openSession(t, "", log)
	assert.False(t, s.HasBaseline())
	assert.Equal(t, 4, s.Current().Len())

	reports, err := s.ReportAll(context.Background())
	require.NoError(t, err)
	require.Len(t, reports, len(question.IDs()))

	ids := map[string]bool{}
	byQuestion := map[string]*report.Renderable{}
	for i, r := range reports {
		assert.Equal(t, question.IDs()[i], r.Question)
		assert.NotEmpty(t, r.ID)
		assert.False(t, ids[r.ID], "run ids must be unique")
		ids[r.ID] = true
		byQuestion[r.Question] = r
	}

	for _, id := range []string{"age", "python-age", "salary-yoy"} {
		assert.Equal(t, report.Unavailable, byQuestion[id].Kind, id)
		assert.NotEmpty(t, byQuestion[id].Reason)
	}
	assert.Contains(t, byQuestion["age"].Reason, "Age")
	assert.Contains(t, byQuestion["salary-yoy"].Reason, "baseline")

	assert.Equal(t, report.PieShare, byQuestion["branch"].Kind)
	assert.Equal(t, report.GroupedBar, byQuestion["experience"].Kind)
	assert.Equal(t, []string{"professional", "student"}, byQuestion["experience"].Bars.Labels)

	assert.Contains(t, logs.String(), "question unavailable")
	assert.Contains(t, logs.String(), "dataset loaded")
}

func TestReport_WithBaseline(t *testing.T) {
	s := openSession(t, survey2020, nil)
	assert.True(t, s.HasBaseline())

	r, err := s.Report("salary-yoy")
	require.NoError(t, err)
	require.Equal(t, report.SingleMetric, r.Kind)
	assert.Equal(t, "2021", r.Metric.Label)
	assert.Equal(t, "2020", r.Metric.BaselineLabel)
	assert.Equal(t, 100000.0, r.Metric.Baseline)
	require.NotNil(t, r.Metric.Delta)
	assert.InDelta(t, 16.6667, *r.Metric.Delta, 1e-3)
}

func TestReport_UnknownQuestion(t *testing.T) {
	s := openSession(t, "", nil)
	_, err := s.Report("nope")
	assert.ErrorIs(t, err, question.ErrUnknownQuestion)

	_, err = s.ReportMany(context.Background(), []string{"branch", "nope"})
	assert.ErrorIs(t, err, question.ErrUnknownQuestion)
}

func TestReportMany_KeepsRequestOrder(t *testing.T) {
	s := openSession(t, "", nil)
	reports, err := s.ReportMany(context.Background(), []string{"country", "branch", "country"})
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, "country", reports[0].Question)
	assert.Equal(t, "branch", reports[1].Question)
	assert.NotEqual(t, reports[0].ID, reports[2].ID)
}

func TestReportMany_Canceled(t *testing.T) {
	s := openSession(t, "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.ReportMany(ctx, []string{"branch"})
	assert.ErrorIs(t, err, context.Canceled)
}
