package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const survey2021 = `MainBranch,EdLevel,DevType,Country,YearsCode,YearsCodePro,ConvertedCompYearly,OrgSize,LanguageHaveWorkedWith,OpSys,Age
I am a developer by profession,"Bachelor's degree (B.A., B.S., B.Eng., etc.)","Developer, back-end;Developer, front-end",Brazil,10,5,100000,20 to 99 employees,Python;Go,Linux-based,25-34 years old
I am a developer by profession,"Master's degree (M.A., M.S., M.Eng., MBA, etc.)",NA,USA,20,15,200000,100 to 499 employees,Java,Windows,35-44 years old
I am a student who is learning to code,NA,NA,Brazil,2,NA,NA,NA,Python,Windows,18-24 years old
`

const survey2020 = `MainBranch,EdLevel,DevType,Country,YearsCode,YearsCodePro,ConvertedCompYearly,OrgSize
I am a developer by profession,NA,NA,Brazil,3,1,90000,NA
I am a developer by profession,NA,NA,USA,4,2,110000,NA
`

// resetFlags clears values and Changed state left over from earlier runs.
func resetFlags(c *cobra.Command, names ...string) {
	for _, name := range names {
		fl := c.Flags().Lookup(name)
		if fl == nil {
			fl = c.PersistentFlags().Lookup(name)
		}
		if fl == nil {
			continue
		}
		_ = fl.Value.Set(fl.DefValue)
		fl.Changed = false
	}
}

func execute(args ...string) (string, error) {
	resetFlags(rootCmd, "config", "debug", "data", "year", "baseline", "http-timeout")
	resetFlags(reportCmd, "all", "format", "output", "chart-dir")
	resetFlags(profileCmd, "top", "format", "output")
	resetFlags(questionsCmd, "json")
	resetFlags(initCmd, "force")
	resetFlags(serveCmd, "addr")
	cfg = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd executes the root command with args and fails the test on error.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	if err != nil {
		t.Fatalf("command %v failed: %v\n%s", args, err, out)
	}
	return out
}

func setupHome(t *testing.T) (home, current, baseline string) {
	t.Helper()
	home = t.TempDir()
	t.Setenv("HOME", home)
	current = filepath.Join(home, "survey_2021.csv")
	baseline = filepath.Join(home, "survey_2020.csv")
	require.NoError(t, os.WriteFile(current, []byte(survey2021), 0o644))
	require.NoError(t, os.WriteFile(baseline, []byte(survey2020), 0o644))
	return home, current, baseline
}

func TestCLI_Questions(t *testing.T) {
	setupHome(t)
	out := runCmd(t, "questions")
	assert.Contains(t, out, "- branch: ")
	assert.Contains(t, out, "- salary-yoy: ")

	out = runCmd(t, "questions", "--json")
	var qs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &qs))
	assert.Len(t, qs, 19)
}

func TestCLI_ReportMarkdownToStdout(t *testing.T) {
	_, current, _ := setupHome(t)
	out := runCmd(t, "report", "country", "branch", "--data", current)
	assert.Contains(t, out, "Brazil")
	assert.Less(t, strings.Index(out, "## Respondents by country"), strings.Index(out, "## Percentage of respondents by activity"), "requested order is kept")
}

func TestCLI_ReportAllJSONWithBaseline(t *testing.T) {
	home, current, baseline := setupHome(t)
	runCmd(t, "config", "set", "datasets.2021", current)
	runCmd(t, "config", "set", "datasets.2020", baseline)

	outFile := filepath.Join(home, "out", "reports.json")
	out := runCmd(t, "report", "--all", "--format", "json", "--output", outFile, "--baseline", "2020")
	assert.Contains(t, out, "✓ Wrote 19 report(s)")

	b, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var reports []map[string]any
	require.NoError(t, json.Unmarshal(b, &reports))
	require.Len(t, reports, 19)
	assert.Equal(t, "branch", reports[0]["question"])
	last := reports[len(reports)-1]
	assert.Equal(t, "salary-yoy", last["question"])
	assert.Equal(t, "single-metric", last["kind"])
}

func TestCLI_ReportWithoutBaselineDegrades(t *testing.T) {
	_, current, _ := setupHome(t)
	out := runCmd(t, "report", "salary-yoy", "--data", current, "--format", "yaml")
	assert.Contains(t, out, "kind: unavailable")
	assert.Contains(t, out, "⚠ 1 question(s) unavailable")
}

func TestCLI_ReportCharts(t *testing.T) {
	home, current, _ := setupHome(t)
	dir := filepath.Join(home, "charts")
	runCmd(t, "report", "--all", "--data", current, "--format", "text", "--chart-dir", dir)

	for _, name := range []string{"percentage-of-respondents-by-activity.png", "respondents-by-country.png", "years-coding-by-activity.png"} {
		b, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(b, []byte("\x89PNG")), name)
	}
	_, err := os.Stat(filepath.Join(dir, "mean-salary-of-professionals-compared-to-all-respondents.png"))
	assert.True(t, os.IsNotExist(err), "single metrics have no chart")
}

func TestCLI_ReportErrors(t *testing.T) {
	_, current, _ := setupHome(t)
	_, err := execute("report", "--data", current)
	assert.Error(t, err)
	_, err = execute("report", "nope", "--data", current)
	assert.Error(t, err)
	_, err = execute("report", "country", "--data", current, "--format", "pdf")
	assert.Error(t, err)

	missing := filepath.Join(t.TempDir(), "partial.csv")
	require.NoError(t, os.WriteFile(missing, []byte("Country\nBrazil\n"), 0o644))
	_, err = execute("report", "country", "--data", missing)
	assert.Error(t, err, "required columns are checked on load")
}

func TestCLI_InitAndConfig(t *testing.T) {
	home, current, _ := setupHome(t)
	out := runCmd(t, "init", "--data", current)
	path := filepath.Join(home, ".sodash", "config.yaml")
	assert.Contains(t, out, "✓ Config initialized: "+path)

	_, err := execute("init")
	assert.Error(t, err, "init refuses to overwrite")
	runCmd(t, "init", "--force")

	runCmd(t, "config", "set", "top_n", "3")
	_, err = execute("config", "set", "top_n", "many")
	assert.Error(t, err)

	out = runCmd(t, "config", "show")
	assert.Contains(t, out, "top_n: 3")
	assert.Contains(t, out, "2021: ")

	out = runCmd(t, "config", "path")
	assert.Equal(t, path, strings.TrimSpace(out))
}

func TestCLI_Profile(t *testing.T) {
	home, current, _ := setupHome(t)
	out := runCmd(t, "profile", current)
	assert.Contains(t, out, "[DATASET SUMMARY]")
	assert.Contains(t, out, "Rows: 3")

	outFile := filepath.Join(home, "profile.json")
	runCmd(t, "profile", current, "--format", "json", "--output", outFile)
	b, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var prof struct {
		Rows    int `json:"rows"`
		Columns []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(b, &prof))
	assert.Equal(t, 3, prof.Rows)
	kinds := map[string]string{}
	for _, c := range prof.Columns {
		kinds[c.Name] = c.Kind
	}
	assert.Equal(t, "numeric", kinds["YearsCode"])
	assert.Equal(t, "multi-value", kinds["LanguageHaveWorkedWith"])

	_, err = execute("profile", current, "--format", "xml")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", "json", false)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, "error", "text", true).Debug("dbg")
	assert.Contains(t, buf.String(), "msg=dbg")
}
