package engine

import (
	"fmt"
	"math"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from a view + PlotConfig
// ============================================================================
// Builders compute everything a renderer needs (bins, points, ranges,
// labels) so renderers stay dumb and the numbers stay testable.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#1F77B4", "#FF7F0E", "#2CA02C", "#D62728", "#9467BD",
}

// BuildHistogram bins a measure into equal-width buckets over the configured
// range (default [0, 100], 20 bins).
//
// Each bin is half-open [lo, hi) except the last, which also includes the
// upper edge. Values outside the range and missing values are not counted.
// An empty view returns ErrEmptyView; a view with no value inside the range
// returns ErrNoValues.
func BuildHistogram(view RecordView, measure string, opts ...Option) (*ChartConfig, error) {
	cfg := applyOptions(opts)

	if view.Len() == 0 {
		return nil, fmt.Errorf("histogram %s: %w", measure, ErrEmptyView)
	}

	counts := binCounts(view, measure, cfg.Range, cfg.Bins)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return nil, fmt.Errorf("histogram %s: no values in [%s, %s]: %w",
			measure, FormatNumber(cfg.Range.Min), FormatNumber(cfg.Range.Max), ErrNoValues)
	}

	width := (cfg.Range.Max - cfg.Range.Min) / float64(cfg.Bins)
	points := make([]ChartPoint, cfg.Bins)
	for b := 0; b < cfg.Bins; b++ {
		lo := cfg.Range.Min + float64(b)*width
		points[b] = ChartPoint{
			Label: fmt.Sprintf("%s-%s", FormatNumber(lo), FormatNumber(lo+width)),
			X:     lo,
			Width: width,
			Value: float64(counts[b]),
		}
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	return &ChartConfig{
		ChartType: ChartHistogram,
		Title:     cfg.Title,
		XAxis:     cfg.XLabel,
		YAxis:     cfg.YLabel,
		XRange:    cfg.Range,
		YRange:    AxisRange{Min: 0, Max: float64(maxCount)},
		Series: []ChartSeries{{
			Name:  measure,
			Data:  points,
			Color: defaultColors[0],
		}},
		Colors:   assignColors(1),
		ShowGrid: cfg.ShowGrid,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// binCounts assigns each in-range value to its bin.
func binCounts(view RecordView, measure string, r AxisRange, bins int) []int {
	counts := make([]int, bins)
	width := (r.Max - r.Min) / float64(bins)
	for i := 0; i < view.Len(); i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) || !r.Contains(v) {
			continue
		}
		idx := int((v - r.Min) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}
	return counts
}

// PeakBin returns the fullest bin of a histogram. Ties go to the lower bin.
func PeakBin(chart *ChartConfig) (ChartPoint, bool) {
	if chart == nil || len(chart.Series) == 0 || len(chart.Series[0].Data) == 0 {
		return ChartPoint{}, false
	}
	best := chart.Series[0].Data[0]
	for _, p := range chart.Series[0].Data[1:] {
		if p.Value > best.Value {
			best = p
		}
	}
	return best, true
}

// BuildScatter pairs two measures per row. Both axes use the configured
// range (default [0, 100]). Rows missing either value are skipped.
// An empty view returns ErrEmptyView; no complete pair returns ErrNoValues.
func BuildScatter(view RecordView, xMeasure, yMeasure string, opts ...Option) (*ChartConfig, error) {
	cfg := applyOptions(opts)

	if view.Len() == 0 {
		return nil, fmt.Errorf("scatter %s/%s: %w", xMeasure, yMeasure, ErrEmptyView)
	}

	points := make([]ChartPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		x := view.Measure(i, xMeasure)
		y := view.Measure(i, yMeasure)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		p := ChartPoint{X: x, Y: y}
		if cfg.LabelKey != "" {
			p.Label = view.Dimension(i, cfg.LabelKey)
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("scatter %s/%s: %w", xMeasure, yMeasure, ErrNoValues)
	}

	return &ChartConfig{
		ChartType: ChartScatter,
		Title:     cfg.Title,
		XAxis:     cfg.XLabel,
		YAxis:     cfg.YLabel,
		XRange:    cfg.Range,
		YRange:    cfg.Range,
		Series: []ChartSeries{{
			Name:  fmt.Sprintf("%s vs %s", xMeasure, yMeasure),
			Data:  points,
			Color: defaultColors[0],
		}},
		Colors:   assignColors(1),
		ShowGrid: cfg.ShowGrid,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
