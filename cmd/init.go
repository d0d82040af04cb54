package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sodash/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write a starter config file with the default survey location.

Use --data and --year to register a local snapshot in the same step.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		// Refuse to overwrite an existing config.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}

		c := cfg
		if c == nil {
			if c, err = cfgpkg.Load(""); err != nil {
				return err
			}
		}
		if flagData != "" {
			if err := c.Set("datasets."+c.Year, flagData); err != nil {
				return err
			}
		}
		if err := cfgpkg.Save(c, path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config initialized: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
