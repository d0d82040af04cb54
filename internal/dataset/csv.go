package dataset

import (
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

type csvLoader struct{}

func (csvLoader) CanLoad(name string) bool {
	n := strings.ToLower(name)
	return strings.HasSuffix(n, ".csv") || strings.HasSuffix(n, ".tsv")
}

// Load reads every column as strings; survey answers are categorical even
// when they look numeric ("Less than 1 year").
func (csvLoader) Load(r io.Reader, name string, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name)
	}
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(delim),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues(opt)),
	)
	return fromDataFrame(name, df)
}

func sniffDelimiter(name string) rune {
	if strings.HasSuffix(strings.ToLower(name), ".tsv") {
		return '\t'
	}
	return ','
}

func nanValues(opt Options) []string {
	if len(opt.NaNValues) == 0 {
		return DefaultOptions().NaNValues
	}
	return opt.NaNValues
}
