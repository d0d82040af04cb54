package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/sodash/internal/analysis"
	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/utils"
)

var (
	profTop    int
	profFormat string
	profOutput string
)

var profileCmd = &cobra.Command{
	Use:   "profile [file-or-url]",
	Short: "Summarize the columns of a survey snapshot",
	Long: `Summarize every column of a survey snapshot: inferred kind, missing share,
numeric statistics and the most frequent answers. Without an argument the
configured dataset for --year is profiled.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src string
		if len(args) == 1 {
			p, err := utils.ExpandPath(args[0])
			if err != nil {
				return err
			}
			src = p
		} else {
			p, err := currentSource()
			if err != nil {
				return err
			}
			src = p
		}
		tbl, err := dataset.Open(cmd.Context(), src, datasetOptions())
		if err != nil {
			return err
		}
		prof, err := analysis.ProfileTable(tbl, profTop)
		if err != nil {
			return err
		}

		var body []byte
		switch profFormat {
		case "markdown", "md", "":
			body = []byte(prof.Markdown())
		case "json":
			b, err := utils.PrettyJSON(prof)
			if err != nil {
				return err
			}
			body = append(b, '\n')
		case "yaml", "yml":
			b, err := yaml.Marshal(prof)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			body = b
		default:
			return fmt.Errorf("unsupported profile format: %s (use markdown|json|yaml)", profFormat)
		}

		if profOutput != "" {
			if err := utils.SafeWriteFile(profOutput, body); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote profile to %s\n", profOutput)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().IntVar(&profTop, "top", 5, "most frequent answers to list per column")
	profileCmd.Flags().StringVarP(&profFormat, "format", "f", "markdown", "output format: markdown|json|yaml")
	profileCmd.Flags().StringVarP(&profOutput, "output", "o", "", "write the profile to a file")
}
