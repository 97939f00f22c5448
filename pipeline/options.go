package pipeline

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/spektr-org/talkingdata/config"
	"github.com/spektr-org/talkingdata/render"
	"github.com/spektr-org/talkingdata/report"
	"github.com/spektr-org/talkingdata/schema"
)

// Options is what one run analyses.
type Options struct {
	DataPath string

	Title          string
	Genre          string
	Measure        string
	CompareMeasure string

	Bins      int
	Min       float64
	Max       float64
	Width     int
	Height    int
	OutputDir string
	WriteCSV  bool

	// Schema overrides the built-in movie ratings schema.
	Schema *schema.Config
}

// OptionsFromConfig maps a loaded config onto run options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		DataPath:       cfg.Data.Path,
		Title:          cfg.Analysis.Title,
		Genre:          cfg.Analysis.Genre,
		Measure:        cfg.Analysis.Measure,
		CompareMeasure: cfg.Analysis.CompareMeasure,
		Bins:           cfg.Plot.Bins,
		Min:            cfg.Plot.Min,
		Max:            cfg.Plot.Max,
		Width:          cfg.Plot.Width,
		Height:         cfg.Plot.Height,
		OutputDir:      cfg.Plot.OutputDir,
		WriteCSV:       cfg.Plot.CSV,
	}
}

// DefaultOptions returns the options of the default config.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

func (o Options) schema() schema.Config {
	if o.Schema != nil {
		return *o.Schema
	}
	return schema.MovieRatings()
}

func (o Options) measure() string {
	if o.Measure == "" {
		return schema.KeyAudienceRating
	}
	return o.Measure
}

func (o Options) compareMeasure() string {
	if o.CompareMeasure == "" {
		return schema.KeyCriticRating
	}
	return o.CompareMeasure
}

// Deps are the side-effecting collaborators of a run.
type Deps struct {
	// Out receives the narrative. Defaults to io.Discard.
	Out io.Writer
	// Pauser gates sections. Defaults to report.NoPause.
	Pauser report.Pauser
	// Display receives rendered charts. Defaults to a FileDisplay on
	// Options.OutputDir.
	Display render.Display
	// Logger receives one entry per stage. Defaults to the logrus
	// standard logger.
	Logger logrus.FieldLogger
}

func (d Deps) withDefaults(opts Options) Deps {
	if d.Out == nil {
		d.Out = io.Discard
	}
	if d.Pauser == nil {
		d.Pauser = report.NoPause{}
	}
	if d.Display == nil {
		d.Display = render.FileDisplay{Dir: opts.OutputDir}
	}
	if d.Logger == nil {
		d.Logger = logrus.StandardLogger()
	}
	return d
}
