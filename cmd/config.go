package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sodash/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set sodash configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "year: %s\n", cfg.Year)
		if cfg.BaselineYear != "" {
			fmt.Fprintf(out, "baseline_year: %s\n", cfg.BaselineYear)
		}
		fmt.Fprintln(out, "datasets:")
		for _, y := range cfg.Years() {
			fmt.Fprintf(out, "  %s: %s\n", y, cfg.Datasets[y])
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		if cfg.Sheet != "" {
			fmt.Fprintf(out, "sheet: %s\n", cfg.Sheet)
		}
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "top_n: %d\n", cfg.TopN)
		if cfg.Workers > 0 {
			fmt.Fprintf(out, "workers: %d\n", cfg.Workers)
		}
		fmt.Fprintf(out, "chart_width: %d\n", cfg.ChartWidth)
		fmt.Fprintf(out, "chart_height: %d\n", cfg.ChartHeight)
		fmt.Fprintf(out, "listen_addr: %s\n", cfg.ListenAddr)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set a config value and save to disk.

Dataset locations are set per year with the datasets.<year> key; an empty
value removes the entry.`,
	Example: `  sodash config set datasets.2020 ./survey_results_public_2020.csv
  sodash config set baseline_year 2020
  sodash config set top_n 5`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return cfgpkg.DefaultPath()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
}
