package present

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sodash/internal/report"
	"github.com/KaramelBytes/sodash/internal/utils"
)

// Format names an output encoding for reports.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat accepts a format name; "md" is an alias for markdown.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "md", "markdown", "":
		return FormatMarkdown, nil
	case "text", "txt":
		return FormatText, nil
	case "html":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported format: %s (use markdown|text|html|json|yaml)", s)
}

// Encode renders reports in the requested format.
func Encode(reports []*report.Renderable, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		b, err := utils.PrettyJSON(reports)
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	case FormatYAML:
		b, err := yaml.Marshal(reports)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	var out []byte
	for i, r := range reports {
		if i > 0 {
			out = append(out, '\n')
		}
		switch f {
		case FormatText:
			out = append(out, Text(r)...)
			out = append(out, '\n')
		case FormatHTML:
			out = append(out, HTML(r)...)
			out = append(out, '\n')
		default:
			out = append(out, Markdown(r)...)
		}
	}
	return out, nil
}

// Text renders a report as a boxed terminal table.
func Text(r *report.Renderable) string {
	t := prettyTable(r)
	t.SetStyle(table.StyleLight)
	return t.Render()
}

// HTML renders a report as an HTML table fragment.
func HTML(r *report.Renderable) string {
	t := prettyTable(r)
	t.Style().HTML.CSSClass = "sodash-report"
	return t.RenderHTML()
}

func prettyTable(r *report.Renderable) table.Writer {
	t := table.NewWriter()
	t.SetTitle(safeName(r.Title, r.Question))
	header, rows := Grid(r)
	t.AppendHeader(toRow(header))
	for _, row := range rows {
		t.AppendRow(toRow(row))
	}
	if r.Table != nil && r.Table.Omitted > 0 {
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d more", r.Table.Omitted)})
	}
	return t
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
