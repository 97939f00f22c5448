package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override,
// e.g. TALKINGDATA_ANALYSIS_TITLE.
const EnvPrefix = "TALKINGDATA"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config is the full run configuration.
type Config struct {
	Data     DataConfig
	Analysis AnalysisConfig
	Plot     PlotConfig
	Report   ReportConfig
	Log      LogConfig
}

// DataConfig locates the dataset.
type DataConfig struct {
	Path string
}

// AnalysisConfig picks the favourite, the cohort and the measures.
type AnalysisConfig struct {
	Title          string
	Genre          string
	Measure        string
	CompareMeasure string
}

// PlotConfig controls the charts.
type PlotConfig struct {
	Bins      int
	Min       float64
	Max       float64
	Width     int
	Height    int
	OutputDir string
	CSV       bool
}

// ReportConfig controls the narrative.
type ReportConfig struct {
	Interactive bool
}

// LogConfig controls logrus.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads path (YAML, optional), applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults are plain scalars; decoding cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data.path", "./rotten_tomatoes_movies.csv")

	v.SetDefault("analysis.title", "Avengers: Endgame")
	v.SetDefault("analysis.genre", "Action")
	v.SetDefault("analysis.measure", "audience_rating")
	v.SetDefault("analysis.compareMeasure", "critic_rating")

	v.SetDefault("plot.bins", 20)
	v.SetDefault("plot.min", 0.0)
	v.SetDefault("plot.max", 100.0)
	v.SetDefault("plot.width", 800)
	v.SetDefault("plot.height", 600)
	v.SetDefault("plot.outputDir", ".")
	v.SetDefault("plot.csv", false)

	v.SetDefault("report.interactive", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate reports every invalid setting in one error wrapping ErrInvalid.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Data.Path) == "" {
		problems = append(problems, "data.path is empty")
	}
	if c.Analysis.Title == "" {
		problems = append(problems, "analysis.title is empty")
	}
	if c.Analysis.Genre == "" {
		problems = append(problems, "analysis.genre is empty")
	}
	if c.Analysis.Measure == "" {
		problems = append(problems, "analysis.measure is empty")
	}
	if c.Plot.Bins < 1 {
		problems = append(problems, fmt.Sprintf("plot.bins must be >= 1, got %d", c.Plot.Bins))
	}
	if c.Plot.Min >= c.Plot.Max {
		problems = append(problems, fmt.Sprintf("plot.min (%g) must be below plot.max (%g)", c.Plot.Min, c.Plot.Max))
	}
	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		problems = append(problems, "plot.width and plot.height must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
