package question

import (
	"github.com/KaramelBytes/sodash/internal/analysis"
	"github.com/KaramelBytes/sodash/internal/category"
	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/report"
)

const (
	policyAll        = "all respondents; unanswered counted as " + category.NotInformed
	policyPro        = "professional respondents; unanswered counted as " + category.NotInformed
	policyPython     = "respondents listing Python; unanswered counted as " + category.NotInformed
	policyComp       = "respondents reporting compensation"
	policyImputed    = "all respondents; missing values filled with the group mean"
	policyProImputed = "professional respondents; missing values filled with the group mean"
)

var registry = []Question{
	{
		ID:      "branch",
		Title:   "Percentage of respondents by activity",
		Kind:    report.PieShare,
		Columns: []string{dataset.ColMainBranch},
		Policy:  policyAll,
		build:   shares(dataset.ColMainBranch, category.MainBranch),
	},
	{
		ID:      "country",
		Title:   "Respondents by country",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColCountry},
		Policy:  policyAll,
		build:   shares(dataset.ColCountry, category.Country),
	},
	{
		ID:      "education",
		Title:   "Respondents by education level",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColEdLevel},
		Policy:  policyAll,
		build:   shares(dataset.ColEdLevel, category.EdLevel),
	},
	{
		ID:      "experience",
		Title:   "Years coding by activity",
		Kind:    report.GroupedBar,
		Columns: []string{dataset.ColMainBranch, dataset.ColYearsCode},
		Policy:  policyImputed,
		build:   summary(dataset.ColMainBranch, category.MainBranch, dataset.ColYearsCode, unitYears),
	},
	{
		ID:      "pro-devtype",
		Title:   "Developer types among professionals",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColMainBranch, dataset.ColDevType},
		Policy:  "professional respondents with a developer type; one row per listed type",
		build:   shares(dataset.ColDevType, category.DevType, professionals, answered(dataset.ColDevType), exploded(dataset.ColDevType)),
	},
	{
		ID:      "pro-education",
		Title:   "Education level of professionals",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColMainBranch, dataset.ColEdLevel},
		Policy:  policyPro,
		build:   shares(dataset.ColEdLevel, category.EdLevel, professionals),
	},
	{
		ID:      "pro-orgsize",
		Title:   "Company size of professionals",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColMainBranch, dataset.ColOrgSize},
		Policy:  policyPro,
		build:   shares(dataset.ColOrgSize, category.OrgSize, professionals),
	},
	{
		ID:      "pro-experience",
		Title:   "Professional coding years by education level",
		Kind:    report.GroupedBar,
		Columns: []string{dataset.ColMainBranch, dataset.ColEdLevel, dataset.ColYearsCodePro},
		Policy:  policyProImputed,
		build:   summary(dataset.ColEdLevel, category.EdLevel, dataset.ColYearsCodePro, unitYears, professionals),
	},
	{
		ID:      "salary",
		Title:   "Mean salary of professionals compared to all respondents",
		Kind:    report.SingleMetric,
		Columns: []string{dataset.ColMainBranch, dataset.ColCompensation},
		Policy:  policyComp + "; professionals also counted under " + LabelAll,
		build:   salaryProfessionals,
	},
	{
		ID:      "salary-top5",
		Title:   "Salary in the five countries with most respondents",
		Kind:    report.GroupedBar,
		Columns: []string{dataset.ColCountry, dataset.ColCompensation},
		Policy:  "respondents of the five largest countries; missing values filled with the group mean",
		build:   countrySalaries(),
	},
	{
		ID:      "python-share",
		Title:   "Share of respondents using Python",
		Kind:    report.PieShare,
		Columns: []string{dataset.ColLanguages},
		Policy:  policyAll,
		build:   shares(dataset.ColLanguages, pythonUse),
	},
	{
		ID:      "python-salary",
		Title:   "Mean salary of Python users compared to other respondents",
		Kind:    report.SingleMetric,
		Columns: []string{dataset.ColLanguages, dataset.ColCompensation},
		Policy:  policyComp,
		build:   pythonSalary,
	},
	{
		ID:      "python-salary-brazil",
		Title:   "Mean salary of Python users in Brazil compared to all Python users",
		Kind:    report.SingleMetric,
		Columns: []string{dataset.ColLanguages, dataset.ColCountry, dataset.ColCompensation},
		Policy:  policyComp + " and listing Python",
		build:   pythonSalaryBrazil,
	},
	{
		ID:      "python-salary-top5",
		Title:   "Python users' salary in the five countries with most Python users",
		Kind:    report.GroupedBar,
		Columns: []string{dataset.ColLanguages, dataset.ColCountry, dataset.ColCompensation},
		Policy:  "Python users of the five largest countries; missing values filled with the group mean",
		build:   countrySalaries(pythonUsers),
	},
	{
		ID:      "os",
		Title:   "Operating systems",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColOpSys},
		Policy:  policyAll,
		build:   shares(dataset.ColOpSys, category.OpSys),
	},
	{
		ID:      "python-os",
		Title:   "Operating systems of Python users",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColLanguages, dataset.ColOpSys},
		Policy:  policyPython,
		build:   shares(dataset.ColOpSys, category.OpSys, pythonUsers),
	},
	{
		ID:      "age",
		Title:   "Age distribution",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColAge},
		Policy:  policyAll,
		build:   shares(dataset.ColAge, category.Age),
	},
	{
		ID:      "python-age",
		Title:   "Age distribution of Python users",
		Kind:    report.RankedTable,
		Columns: []string{dataset.ColLanguages, dataset.ColAge},
		Policy:  policyPython,
		build:   shares(dataset.ColAge, category.Age, pythonUsers),
	},
	{
		ID:      "salary-yoy",
		Title:   "Mean salary compared to the baseline year",
		Kind:    report.SingleMetric,
		Columns: []string{dataset.ColCompensation},
		Policy:  policyComp + " in each snapshot",
		build:   salaryYearOverYear,
	},
}

func shares(col string, m *category.Map, steps ...step) buildFunc {
	return func(in Input) (*analysis.GroupStat, report.Options, error) {
		t, err := derive(in.Current, steps...)
		if err != nil {
			return nil, report.Options{}, err
		}
		stat, err := countBy(t, col, m)
		return stat, report.Options{}, err
	}
}

func summary(col string, m *category.Map, valueCol, unit string, steps ...step) buildFunc {
	return func(in Input) (*analysis.GroupStat, report.Options, error) {
		t, err := derive(in.Current, steps...)
		if err != nil {
			return nil, report.Options{}, err
		}
		stat, err := summarize(t, col, m, valueCol)
		return stat, report.Options{ValueLabel: unit}, err
	}
}

func countrySalaries(steps ...step) buildFunc {
	return func(in Input) (*analysis.GroupStat, report.Options, error) {
		t, err := derive(in.Current, steps...)
		if err != nil {
			return nil, report.Options{}, err
		}
		top, err := biggestCountries(t, topCountries)
		if err != nil {
			return nil, report.Options{}, err
		}
		if t, err = inCountries(top)(t); err != nil {
			return nil, report.Options{}, err
		}
		stat, err := summarize(t, dataset.ColCountry, category.Country, dataset.ColCompensation)
		return stat, report.Options{ValueLabel: unitUSD, Limit: topCountries}, err
	}
}

// compensationRows yields rows for respondents with a usable compensation,
// one per label returned by pick. pick receives ordinals of the filtered
// table, so callers index columns of a table already passed through
// withCompensation.
func compensationRows(t *dataset.Table, pick func(i int) []string) ([]analysis.Row, error) {
	t, err := withCompensation(t)
	if err != nil {
		return nil, err
	}
	comp, err := t.Values(dataset.ColCompensation)
	if err != nil {
		return nil, err
	}
	rows := make([]analysis.Row, 0, len(comp))
	for i, v := range comp {
		n := analysis.Coerce(v)
		for _, l := range pick(i) {
			rows = append(rows, analysis.Row{Label: l, Value: n})
		}
	}
	return rows, nil
}

func salaryProfessionals(in Input) (*analysis.GroupStat, report.Options, error) {
	t, err := withCompensation(in.Current)
	if err != nil {
		return nil, report.Options{}, err
	}
	branch, err := t.Values(dataset.ColMainBranch)
	if err != nil {
		return nil, report.Options{}, err
	}
	rows, err := compensationRows(t, func(i int) []string {
		if category.MainBranch.Normalize(branch[i]) == category.Professional {
			return []string{LabelAll, category.Professional}
		}
		return []string{LabelAll}
	})
	if err != nil {
		return nil, report.Options{}, err
	}
	stat, err := metricStat(rows, "salary")
	return stat, report.Options{Primary: category.Professional, Baseline: LabelAll, ValueLabel: unitUSD}, err
}

func pythonSalary(in Input) (*analysis.GroupStat, report.Options, error) {
	t, err := withCompensation(in.Current)
	if err != nil {
		return nil, report.Options{}, err
	}
	langs, err := t.Values(dataset.ColLanguages)
	if err != nil {
		return nil, report.Options{}, err
	}
	rows, err := compensationRows(t, func(i int) []string {
		return []string{pythonUse.Normalize(langs[i])}
	})
	if err != nil {
		return nil, report.Options{}, err
	}
	stat, err := metricStat(rows, "python-salary")
	return stat, report.Options{Primary: LabelPython, Baseline: LabelNonPython, ValueLabel: unitUSD}, err
}

func pythonSalaryBrazil(in Input) (*analysis.GroupStat, report.Options, error) {
	t, err := derive(in.Current, pythonUsers, withCompensation)
	if err != nil {
		return nil, report.Options{}, err
	}
	country, err := t.Values(dataset.ColCountry)
	if err != nil {
		return nil, report.Options{}, err
	}
	rows, err := compensationRows(t, func(i int) []string {
		if category.Country.Normalize(country[i]) == Brazil {
			return []string{LabelPythonGlobal, Brazil}
		}
		return []string{LabelPythonGlobal}
	})
	if err != nil {
		return nil, report.Options{}, err
	}
	stat, err := metricStat(rows, "python-salary-brazil")
	return stat, report.Options{Primary: Brazil, Baseline: LabelPythonGlobal, ValueLabel: unitUSD}, err
}

func salaryYearOverYear(in Input) (*analysis.GroupStat, report.Options, error) {
	if in.Baseline == nil {
		return nil, report.Options{}, ErrNoBaseline
	}
	if err := in.Baseline.Require(dataset.ColCompensation); err != nil {
		return nil, report.Options{}, err
	}
	current, baseline := yearLabels(in.Year, in.BaselineYear)
	now, err := compensationRows(in.Current, func(int) []string { return []string{current} })
	if err != nil {
		return nil, report.Options{}, err
	}
	before, err := compensationRows(in.Baseline, func(int) []string { return []string{baseline} })
	if err != nil {
		return nil, report.Options{}, err
	}
	stat, err := metricStat(append(now, before...), "salary-yoy")
	return stat, report.Options{Primary: current, Baseline: baseline, ValueLabel: unitUSD, DeltaFallback: true}, err
}

func yearLabels(year, baseline string) (string, string) {
	if year == "" {
		year = "current"
	}
	if baseline == "" {
		baseline = "baseline"
	}
	if year == baseline {
		baseline += " (baseline)"
	}
	return year, baseline
}

func metricStat(rows []analysis.Row, dim string) (*analysis.GroupStat, error) {
	stat, err := analysis.Aggregate(rows, analysis.Options{Numeric: true})
	if err != nil {
		return nil, withDimension(err, dim)
	}
	return stat, nil
}
