package engine

// ============================================================================
// PLOT OPTIONS — Functional options for the chart builders
// ============================================================================
// Display settings travel with each call instead of living in package state.
// ============================================================================

// Option configures chart building via functional options pattern.
type Option func(*PlotConfig)

// PlotConfig holds the display settings of one chart.
type PlotConfig struct {
	Range    AxisRange // value range of the histogram / both scatter axes
	Bins     int       // histogram bin count
	Title    string
	XLabel   string
	YLabel   string
	ShowGrid bool
	Width    int
	Height   int
	LabelKey string // dimension used to label scatter points
}

// DefaultPlotConfig returns the fixed parameters of the ratings plots:
// range [0, 100], 20 bins, grid on.
func DefaultPlotConfig() PlotConfig {
	return PlotConfig{
		Range:    AxisRange{Min: 0, Max: 100},
		Bins:     20,
		ShowGrid: true,
		Width:    800,
		Height:   600,
	}
}

// WithRange sets the value range. Ignored unless min < max.
func WithRange(min, max float64) Option {
	return func(c *PlotConfig) {
		if min < max {
			c.Range = AxisRange{Min: min, Max: max}
		}
	}
}

// WithBins sets the histogram bin count. Ignored unless n > 0.
func WithBins(n int) Option {
	return func(c *PlotConfig) {
		if n > 0 {
			c.Bins = n
		}
	}
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *PlotConfig) {
		c.Title = title
	}
}

// WithAxisLabels sets the x and y axis labels.
func WithAxisLabels(x, y string) Option {
	return func(c *PlotConfig) {
		c.XLabel = x
		c.YLabel = y
	}
}

// WithGrid toggles grid lines.
func WithGrid(show bool) Option {
	return func(c *PlotConfig) {
		c.ShowGrid = show
	}
}

// WithSize sets the rendered image size in pixels. Ignored unless both are positive.
func WithSize(width, height int) Option {
	return func(c *PlotConfig) {
		if width > 0 && height > 0 {
			c.Width = width
			c.Height = height
		}
	}
}

// WithPointLabels labels each scatter point with the given dimension.
func WithPointLabels(key string) Option {
	return func(c *PlotConfig) {
		c.LabelKey = key
	}
}

// applyOptions creates a PlotConfig from functional options.
func applyOptions(opts []Option) PlotConfig {
	cfg := DefaultPlotConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
