package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sodash/internal/question"
	"github.com/KaramelBytes/sodash/internal/utils"
)

var questionsJSON bool

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "List the questions sodash can answer",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		qs := question.All()
		if questionsJSON {
			b, err := utils.PrettyJSON(qs)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
			return nil
		}
		for _, q := range qs {
			fmt.Fprintf(out, "- %s: %s (%s)\n", q.ID, q.Title, q.Kind)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
	questionsCmd.Flags().BoolVar(&questionsJSON, "json", false, "print questions as JSON")
}
