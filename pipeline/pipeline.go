// Package pipeline runs one analysis end to end:
// load → filter → describe → report → visualize.
//
// Every stage is a call into a library package (helpers, engine, report,
// render). The stages run strictly in order and the first error ends the
// run, wrapped in a StageError naming the stage.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/spektr-org/talkingdata/engine"
	"github.com/spektr-org/talkingdata/helpers"
	"github.com/spektr-org/talkingdata/render"
	"github.com/spektr-org/talkingdata/report"
	"github.com/spektr-org/talkingdata/schema"
)

// Stage names.
const (
	StageLoad      = "load"
	StageFilter    = "filter"
	StageDescribe  = "describe"
	StageReport    = "report"
	StageVisualize = "visualize"
)

// Chart names, used for display and file names.
const (
	HistogramName = "histogram"
	ScatterName   = "scatter"
)

// StageError records which stage ended the run.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Summary is what a completed run computed and wrote.
type Summary struct {
	Rows      int
	Favourite int
	Cohort    int

	Stats engine.Stats
	// FavouriteValue is NaN when the favourite is absent or has no value.
	FavouriteValue float64
	// Rank is the favourite's rank in the cohort, 0 when the favourite is
	// not a member of the cohort or has no value.
	Rank        int
	Skewness    float64
	Correlation float64

	Missing   map[string]int
	Artifacts []string
}

// state is threaded through the stages of one run.
type state struct {
	opts Options
	deps Deps
	log  logrus.FieldLogger

	data      *helpers.Dataset
	favourite engine.RecordView
	cohort    engine.RecordView
	summary   *Summary
	corrErr   error
}

// Run executes every stage in order. ctx is checked between stages.
func Run(ctx context.Context, opts Options, deps Deps) (*Summary, error) {
	deps = deps.withDefaults(opts)
	st := &state{
		opts: opts,
		deps: deps,
		log: deps.Logger.WithFields(logrus.Fields{
			"title": opts.Title,
			"genre": opts.Genre,
		}),
		summary: &Summary{FavouriteValue: math.NaN(), Correlation: math.NaN()},
	}

	stages := []struct {
		name string
		run  func() error
	}{
		{StageLoad, st.load},
		{StageFilter, st.filter},
		{StageDescribe, st.describe},
		{StageReport, st.report},
		{StageVisualize, st.visualize},
	}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return nil, &StageError{Stage: stage.name, Err: err}
		}
		if err := stage.run(); err != nil {
			st.log.WithError(err).WithField("stage", stage.name).Debug("stage failed")
			return nil, &StageError{Stage: stage.name, Err: err}
		}
	}

	st.log.WithFields(logrus.Fields{
		"rows":      st.summary.Rows,
		"cohort":    st.summary.Cohort,
		"artifacts": len(st.summary.Artifacts),
	}).Info("analysis complete")
	return st.summary, nil
}

// ============================================================================
// STAGES
// ============================================================================

func (s *state) load() error {
	ds, err := helpers.LoadCSV(s.opts.DataPath, s.opts.schema())
	if err != nil {
		return err
	}
	for _, key := range []string{s.opts.measure(), s.opts.compareMeasure()} {
		if !engine.HasMeasure(ds.View, key) {
			return fmt.Errorf("%w: %q is not a numeric column", engine.ErrUnknownMeasure, key)
		}
	}

	s.data = ds
	s.summary.Rows = ds.Len()
	s.summary.Missing = ds.Missing
	s.log.WithFields(logrus.Fields{
		"stage":   StageLoad,
		"path":    ds.Source,
		"rows":    ds.Len(),
		"columns": len(ds.Headers),
		"missing": ds.Missing[s.opts.measure()],
	}).Info("dataset loaded")
	return nil
}

func (s *state) filter() error {
	s.favourite = engine.ApplyFilters(s.data.View, engine.Filters{
		Exact: map[string]string{schema.KeyTitle: s.opts.Title},
	})
	s.cohort = engine.ApplyFilters(s.data.View, engine.Filters{
		Contains: map[string]string{schema.KeyGenres: s.opts.Genre},
	})

	s.summary.Favourite = s.favourite.Len()
	s.summary.Cohort = s.cohort.Len()
	entry := s.log.WithFields(logrus.Fields{
		"stage":     StageFilter,
		"favourite": s.favourite.Len(),
		"cohort":    s.cohort.Len(),
	})
	if s.favourite.Len() == 0 {
		entry.Warn("favourite title not found")
	} else {
		entry.Info("rows selected")
	}
	return nil
}

func (s *state) describe() error {
	measure := s.opts.measure()
	if s.cohort.Len() == 0 {
		// The reader still sees who was looked up before the run ends.
		if err := s.introduce().Err(); err != nil {
			return err
		}
	}
	stats, err := engine.Describe(s.cohort, measure)
	if err != nil {
		return err
	}
	s.summary.Stats = stats
	s.summary.Skewness = engine.Skewness(s.cohort, measure)

	s.summary.FavouriteValue = firstValue(s.favourite, measure)

	// Only a favourite inside the cohort has a rank in it.
	member := engine.ApplyFilters(s.cohort, engine.Filters{
		Exact: map[string]string{schema.KeyTitle: s.opts.Title},
	})
	if v := firstValue(member, measure); !math.IsNaN(v) {
		s.summary.Rank = engine.Rank(s.cohort, measure, v)
	}

	r, err := engine.Correlation(s.cohort, measure, s.opts.compareMeasure())
	s.summary.Correlation = r
	s.corrErr = err

	s.log.WithFields(logrus.Fields{
		"stage":   StageDescribe,
		"measure": measure,
		"count":   stats.Count,
		"min":     stats.Min,
		"max":     stats.Max,
		"mean":    engine.RoundTo2(stats.Mean),
		"median":  stats.Median,
	}).Info("cohort described")
	return nil
}

func (s *state) report() error {
	n := s.introduce()
	if err := n.Statistics(s.summary.Stats, s.summary.FavouriteValue); err != nil {
		return err
	}
	s.log.WithField("stage", StageReport).Debug("narrative written")
	return nil
}

func (s *state) visualize() error {
	measure := s.opts.measure()
	compare := s.opts.compareMeasure()
	sch := s.data.Schema
	label := sch.DisplayName(measure)

	plotOpts := []engine.Option{
		engine.WithRange(s.opts.Min, s.opts.Max),
		engine.WithBins(s.opts.Bins),
		engine.WithSize(s.opts.Width, s.opts.Height),
		engine.WithGrid(true),
	}

	hist, err := engine.BuildHistogram(s.cohort, measure, append(plotOpts,
		engine.WithTitle(fmt.Sprintf("%ss of %s Movies Histogram", label, s.opts.Genre)),
		engine.WithAxisLabels(label+"s", fmt.Sprintf("Number of %s Movies", s.opts.Genre)),
	)...)
	if err != nil {
		return err
	}

	n := s.narrator()
	peak, _ := engine.PeakBin(hist)
	n.Histogram(report.HistogramFacts{
		Peak:     peak,
		Skewness: s.summary.Skewness,
		Rank:     s.summary.Rank,
		Count:    s.summary.Stats.Count,
	})
	if err := s.show(n, HistogramName, hist); err != nil {
		return err
	}

	compareLabel := sch.DisplayName(compare)
	scatter, err := engine.BuildScatter(s.cohort, measure, compare, append(plotOpts,
		engine.WithTitle(fmt.Sprintf("%s vs. %s", label, compareLabel)),
		engine.WithAxisLabels(label, compareLabel),
		engine.WithPointLabels(schema.KeyTitle),
	)...)
	if err != nil {
		return err
	}

	n.Scatter(report.Label(label), report.Label(compareLabel), s.summary.Correlation, s.corrErr)
	if err := s.show(n, ScatterName, scatter); err != nil {
		return err
	}

	return n.Closing()
}

// show renders a chart, hands it to the display and waits for the reader
// to close it. With WriteCSV set, the chart data is written next to it.
func (s *state) show(n *report.Narrator, name string, cfg *engine.ChartConfig) error {
	if err := n.Err(); err != nil {
		return err
	}

	png, err := render.PNGBytes(cfg)
	if err != nil {
		return err
	}
	where, err := s.deps.Display.Show(name, png)
	if err != nil {
		return err
	}
	s.summary.Artifacts = append(s.summary.Artifacts, where)
	s.log.WithFields(logrus.Fields{
		"stage": StageVisualize,
		"chart": name,
		"path":  where,
	}).Info("chart shown")

	if s.opts.WriteCSV {
		var buf bytes.Buffer
		if err := render.WriteCSV(&buf, cfg); err != nil {
			return err
		}
		path, err := render.WriteFile(s.opts.OutputDir, name+".csv", buf.Bytes())
		if err != nil {
			return fmt.Errorf("write %s csv: %w", name, err)
		}
		s.summary.Artifacts = append(s.summary.Artifacts, path)
		s.log.WithFields(logrus.Fields{"stage": StageVisualize, "path": path}).Info("chart data written")
	}

	n.Saved(strings.ToLower(cfg.Title), where)
	return n.CloseGraph()
}

// introduce writes the opening of the narrative: the favourite, its row
// and the size of the cohort.
func (s *state) introduce() *report.Narrator {
	n := s.narrator()
	n.Intro()
	n.FavouriteData(engine.BuildTable(s.opts.Title, s.favourite))
	n.Cohort(s.cohort.Len())
	return n
}

func (s *state) narrator() *report.Narrator {
	measureLabel := report.Label(s.data.Schema.DisplayName(s.opts.measure()))
	return report.NewNarrator(s.deps.Out, s.deps.Pauser, report.Subject{
		Favourite: s.opts.Title,
		Genre:     s.opts.Genre,
		Measure:   measureLabel,
	})
}

// firstValue returns the first present value of measure in view, or NaN.
func firstValue(view engine.RecordView, measure string) float64 {
	for i := 0; i < view.Len(); i++ {
		if v := view.Measure(i, measure); !math.IsNaN(v) {
			return v
		}
	}
	return math.NaN()
}

// IsStage reports whether err ended the run in the named stage.
func IsStage(err error, stage string) bool {
	var se *StageError
	return errors.As(err, &se) && se.Stage == stage
}
