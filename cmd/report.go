package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sodash/internal/present"
	"github.com/KaramelBytes/sodash/internal/question"
	"github.com/KaramelBytes/sodash/internal/report"
	"github.com/KaramelBytes/sodash/internal/utils"
)

var (
	repAll      bool
	repFormat   string
	repOutput   string
	repChartDir string
)

var reportCmd = &cobra.Command{
	Use:   "report [question-id...]",
	Short: "Compute survey reports and print or export them",
	Example: `  sodash report country education
  sodash report --all --format json --output reports.json
  sodash report --all --chart-dir ./charts --baseline 2020`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := args
		if repAll {
			ids = question.IDs()
		}
		if len(ids) == 0 {
			return fmt.Errorf("specify question ids or --all (see 'sodash questions')")
		}
		format, err := present.ParseFormat(repFormat)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := question.Get(id); err != nil {
				return err
			}
		}

		sess, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		reports, err := sess.ReportMany(cmd.Context(), ids)
		if err != nil {
			return err
		}

		body, err := present.Encode(reports, format)
		if err != nil {
			return err
		}
		if repOutput != "" {
			if err := utils.SafeWriteFile(repOutput, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d report(s) to %s\n", len(reports), repOutput)
		} else {
			if _, err := cmd.OutOrStdout().Write(body); err != nil {
				return err
			}
		}

		if repChartDir != "" {
			if err := writeCharts(cmd.ErrOrStderr(), repChartDir, reports); err != nil {
				return err
			}
		}
		unavailable := 0
		for _, r := range reports {
			if r.Kind == report.Unavailable {
				unavailable++
			}
		}
		if unavailable > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ %d question(s) unavailable for this dataset\n", unavailable)
		}
		return nil
	},
}

func writeCharts(status io.Writer, dir string, reports []*report.Renderable) error {
	if err := utils.EnsureDir(dir); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	size := present.ChartSize{}
	if cfg != nil {
		size = present.ChartSize{Width: cfg.ChartWidth, Height: cfg.ChartHeight}
	}
	written := 0
	for _, r := range reports {
		var buf bytes.Buffer
		if err := present.Chart(&buf, r, size); err != nil {
			if errors.Is(err, present.ErrNoChart) {
				continue
			}
			return fmt.Errorf("chart %s: %w", r.Question, err)
		}
		path := filepath.Join(dir, present.ChartFileName(r))
		if err := utils.SafeWriteFile(path, buf.Bytes()); err != nil {
			return err
		}
		written++
	}
	fmt.Fprintf(status, "✓ Wrote %d chart(s) to %s\n", written, dir)
	return nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().BoolVar(&repAll, "all", false, "report every question")
	reportCmd.Flags().StringVarP(&repFormat, "format", "f", "markdown", "output format: markdown|text|html|json|yaml")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write reports to a file instead of stdout")
	reportCmd.Flags().StringVar(&repChartDir, "chart-dir", "", "also write PNG charts into this directory")
}
