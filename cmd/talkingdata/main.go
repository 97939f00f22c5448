package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/spektr-org/talkingdata/config"
	"github.com/spektr-org/talkingdata/pipeline"
	"github.com/spektr-org/talkingdata/render"
	"github.com/spektr-org/talkingdata/report"
)

// ============================================================================
// TALKINGDATA CLI — Narrated analysis of a movie ratings CSV
// ============================================================================

const version = "0.3.0"

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "Path to a YAML config file")
	filePath := flag.String("file", "", "Path to the ratings CSV (default from config)")
	title := flag.String("title", "", "Favourite movie title, matched exactly")
	genre := flag.String("genre", "", "Genre substring that selects the cohort")
	measure := flag.String("measure", "", "Numeric column to analyse")
	outDir := flag.String("out", "", "Directory for chart images and CSV")
	interactive := flag.Bool("interactive", true, "Wait for enter between sections")
	writeCSV := flag.Bool("csv", false, "Also write chart data as CSV")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `TalkingData — a narrated look at one movie against its genre

Usage:
  talkingdata --file rotten_tomatoes_movies.csv
  talkingdata --file movies.csv --title "Heat" --genre Drama --interactive=false
  talkingdata --config talkingdata.yaml --out ./plots --csv

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  %s_<SECTION>_<KEY>   Overrides any config key, e.g. %s_ANALYSIS_TITLE
`, config.EnvPrefix, config.EnvPrefix)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("talkingdata %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if *filePath != "" {
		cfg.Data.Path = *filePath
	}
	if *title != "" {
		cfg.Analysis.Title = *title
	}
	if *genre != "" {
		cfg.Analysis.Genre = *genre
	}
	if *measure != "" {
		cfg.Analysis.Measure = *measure
	}
	if *outDir != "" {
		cfg.Plot.OutputDir = *outDir
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if set["interactive"] {
		cfg.Report.Interactive = *interactive
	}
	if set["csv"] {
		cfg.Plot.CSV = *writeCSV
	}
	if err := cfg.Validate(); err != nil {
		fatalf("%v", err)
	}

	// ── Logging ───────────────────────────────────────────────────────────
	if err := configureLogging(cfg.Log); err != nil {
		fatalf("%v", err)
	}

	// ── Run ───────────────────────────────────────────────────────────────
	var pauser report.Pauser = report.NoPause{}
	if cfg.Report.Interactive {
		pauser = report.NewLinePauser(os.Stdin, os.Stdout)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := pipeline.Run(ctx, pipeline.OptionsFromConfig(cfg), pipeline.Deps{
		Out:     os.Stdout,
		Pauser:  pauser,
		Display: render.FileDisplay{Dir: cfg.Plot.OutputDir},
		Logger:  logrus.StandardLogger(),
	})
	if err != nil {
		stop()
		fatalf("%v", err)
	}

	for _, path := range summary.Artifacts {
		logrus.WithField("path", path).Debug("artifact")
	}
}

// ============================================================================
// HELPERS
// ============================================================================

func configureLogging(lc config.LogConfig) error {
	level, err := logrus.ParseLevel(lc.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	switch strings.ToLower(lc.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
