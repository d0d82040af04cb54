package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/sodash/internal/config"
	"github.com/KaramelBytes/sodash/internal/dataset"
	"github.com/KaramelBytes/sodash/internal/session"
	"github.com/KaramelBytes/sodash/internal/utils"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Snapshot flags (override config if set)
	flagData           string
	flagYear           string
	flagBaseline       string
	flagHTTPTimeoutSec int

	// Loaded configuration
	cfg    *cfgpkg.Global
	logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

var rootCmd = &cobra.Command{
	Use:   "sodash",
	Short: "Stack Overflow survey reports from the command line",
	Long: `sodash loads Stack Overflow Developer Survey snapshots and answers a fixed set of
questions about respondents: who they are, what they earn and which tools they use.
Results can be printed as tables, exported as JSON/YAML and PNG charts, or browsed
in a small local dashboard.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.sodash/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "survey file or URL for the current year (overrides datasets.<year>)")
	rootCmd.PersistentFlags().StringVar(&flagYear, "year", "", "survey year to report on (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagBaseline, "baseline", "", "survey year to compare against (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP timeout in seconds for remote datasets (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	if flagYear != "" {
		cfg.Year = flagYear
	}
	if flagBaseline != "" {
		cfg.BaselineYear = flagBaseline
	}
	if flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	logger = newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat, debug)
}

func newLogger(w io.Writer, level, format string, debug bool) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	if debug {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// datasetOptions maps loader settings from config.
func datasetOptions() dataset.Options {
	opt := dataset.DefaultOptions()
	if cfg == nil {
		return opt
	}
	if d := []rune(cfg.Delimiter); len(d) == 1 {
		opt.Delimiter = d[0]
	} else if cfg.Delimiter == "tab" {
		opt.Delimiter = '\t'
	}
	opt.Sheet = cfg.Sheet
	if cfg.HTTPTimeoutSec > 0 {
		opt.Timeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
	}
	return opt
}

// currentSource resolves the dataset for the configured year, honoring --data.
func currentSource() (string, error) {
	if cfg == nil {
		return "", errors.New("no configuration loaded")
	}
	src := flagData
	if src == "" {
		s, err := cfg.Source(cfg.Year)
		if err != nil {
			return "", err
		}
		src = s
	}
	return utils.ExpandPath(src)
}

// openSession loads the configured snapshots.
func openSession(ctx context.Context) (*session.Session, error) {
	src, err := currentSource()
	if err != nil {
		return nil, err
	}
	opt := session.Options{
		Source:  src,
		Year:    cfg.Year,
		Dataset: datasetOptions(),
		TopN:    cfg.TopN,
		Workers: cfg.Workers,
	}
	if cfg.BaselineYear != "" && cfg.BaselineYear != cfg.Year {
		base, err := cfg.Source(cfg.BaselineYear)
		if err != nil {
			return nil, err
		}
		if opt.BaselineSource, err = utils.ExpandPath(base); err != nil {
			return nil, err
		}
		opt.BaselineYear = cfg.BaselineYear
	}
	return session.Open(ctx, opt, logger)
}
