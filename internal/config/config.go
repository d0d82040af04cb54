package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultDatasetURL is the public 2021 survey export.
const DefaultDatasetURL = "https://drive.google.com/uc?export=download&id=1_FUXeTJgZbmggsbkHtOymoufnYT1HYwM"

// Global configuration structure.
type Global struct {
	// Datasets maps a survey year to a local path or http(s) URL.
	Datasets     map[string]string `mapstructure:"datasets" yaml:"datasets"`
	Year         string            `mapstructure:"year" yaml:"year"`
	BaselineYear string            `mapstructure:"baseline_year" yaml:"baseline_year"`

	// Loader settings
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
	Sheet          string `mapstructure:"sheet" yaml:"sheet"`
	HTTPTimeoutSec int    `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`

	// Reporting
	TopN        int `mapstructure:"top_n" yaml:"top_n"`
	Workers     int `mapstructure:"workers" yaml:"workers"`
	ChartWidth  int `mapstructure:"chart_width" yaml:"chart_width"`
	ChartHeight int `mapstructure:"chart_height" yaml:"chart_height"`

	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat  string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultPath returns ~/.sodash/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".sodash", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.sodash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (applied by the caller) > env > config file > defaults.
// A .env file in the working directory is read first when present.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("SODASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("datasets", map[string]string{"2021": DefaultDatasetURL})
	v.SetDefault("year", "2021")
	v.SetDefault("baseline_year", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("sheet", "")
	v.SetDefault("http_timeout_sec", 60)
	v.SetDefault("top_n", 10)
	v.SetDefault("workers", 0)
	v.SetDefault("chart_width", 1024)
	v.SetDefault("chart_height", 640)
	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		v.AddConfigPath(filepath.Join(home, ".sodash"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Datasets == nil {
		c.Datasets = map[string]string{}
	}
	return &c, nil
}

// Source returns the dataset location configured for year.
func (c *Global) Source(year string) (string, error) {
	src, ok := c.Datasets[year]
	if !ok || strings.TrimSpace(src) == "" {
		return "", fmt.Errorf("no dataset configured for year %q (set datasets.%s)", year, year)
	}
	return src, nil
}

// Years lists configured dataset years in ascending order.
func (c *Global) Years() []string {
	out := make([]string, 0, len(c.Datasets))
	for y := range c.Datasets {
		out = append(out, y)
	}
	sort.Strings(out)
	return out
}

// Set assigns one key from its string form. Dataset locations use the
// datasets.<year> form.
func (c *Global) Set(key, val string) error {
	if year, ok := strings.CutPrefix(key, "datasets."); ok {
		if year == "" {
			return fmt.Errorf("missing year in key: %s", key)
		}
		if c.Datasets == nil {
			c.Datasets = map[string]string{}
		}
		if val == "" {
			delete(c.Datasets, year)
		} else {
			c.Datasets[year] = val
		}
		return nil
	}
	switch key {
	case "year":
		c.Year = val
	case "baseline_year":
		c.BaselineYear = val
	case "delimiter":
		if len([]rune(val)) > 1 && val != "tab" {
			return fmt.Errorf("invalid delimiter: %q (single character or \"tab\")", val)
		}
		c.Delimiter = val
	case "sheet":
		c.Sheet = val
	case "listen_addr":
		c.ListenAddr = val
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
		}
	case "log_format":
		switch strings.ToLower(val) {
		case "text", "json":
			c.LogFormat = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_format: %s (use text or json)", val)
		}
	case "http_timeout_sec", "top_n", "workers", "chart_width", "chart_height":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		*c.intField(key) = i
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

func (c *Global) intField(key string) *int {
	switch key {
	case "http_timeout_sec":
		return &c.HTTPTimeoutSec
	case "top_n":
		return &c.TopN
	case "workers":
		return &c.Workers
	case "chart_width":
		return &c.ChartWidth
	default:
		return &c.ChartHeight
	}
}
