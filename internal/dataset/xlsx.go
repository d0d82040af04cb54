package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".xlsx")
}

func (xlsxLoader) Load(r io.Reader, name string, opt Options) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := opt.Sheet
	sheets := f.GetSheetList()
	if sheet == "" {
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", name)
		}
		sheet = sheets[0]
	}
	// Raw values keep number formats such as "#,##0" out of the cells.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("sheet '%s' in workbook '%s': %w (available: %s)",
			sheet, name, err, strings.Join(sheets, ", "))
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet '%s' in workbook '%s' is empty", sheet, name)
	}
	// excelize drops trailing empty cells; gota needs rectangular records.
	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		} else if len(row) > width {
			for j, cell := range row[width:] {
				if strings.TrimSpace(cell) != "" {
					return nil, fmt.Errorf("sheet '%s' in workbook '%s': row %d has a value in column %d but the header has %d columns",
						sheet, name, i+1, width+j+1, width)
				}
			}
			rows[i] = row[:width]
		}
	}
	df := dataframe.LoadRecords(rows,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nanValues(opt)),
	)
	return fromDataFrame(name, df)
}
