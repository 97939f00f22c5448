package engine

// ============================================================================
// ENGINE TYPES — Records, filters, statistics, render-ready configs
// ============================================================================
// The engine has no knowledge of the movie domain: it reads string
// dimensions and numeric measures by key. Callers pass schema keys in.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row.
//
// Dimensions hold every column's raw text, verbatim from the source.
// Measures hold the parsed value of numeric columns; NaN marks a missing or
// unparseable cell.
//
//	Record{Dimensions["movie_title"]="Heat", Measures["audience_rating"]=94}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// Filters define which records to include.
// Exact values must match byte-for-byte; Contains values must appear as a
// substring. Both are case-sensitive. All constraints are AND-combined.
// Empty = all records.
type Filters struct {
	Exact    map[string]string `json:"exact,omitempty"`
	Contains map[string]string `json:"contains,omitempty"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	return len(f.Exact) == 0 && len(f.Contains) == 0
}

// ============================================================================
// STATS — Descriptive statistics of one measure over a view
// ============================================================================

// Stats summarizes one measure over a view.
// Count is the number of non-missing values the figures were computed from;
// Missing counts the skipped rows.
type Stats struct {
	Measure string  `json:"measure"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"stdDev"`
	Q1      float64 `json:"q1"`
	Q3      float64 `json:"q3"`
}

// Comparison places one value against a Stats summary.
// Positive deltas mean the value is above the reference.
type Comparison struct {
	Value       float64 `json:"value"`
	AboveMin    float64 `json:"aboveMin"`
	BelowMax    float64 `json:"belowMax"`
	DeltaMean   float64 `json:"deltaMean"`
	DeltaMedian float64 `json:"deltaMedian"`
}

// ============================================================================
// CHART TYPES
// ============================================================================

// Chart types produced by the builders.
const (
	ChartHistogram = "histogram"
	ChartScatter   = "scatter"
)

// ChartConfig defines how to render a chart, independent of the renderer.
type ChartConfig struct {
	ChartType string        `json:"chartType"`
	Title     string        `json:"title"`
	XAxis     string        `json:"xAxis,omitempty"`
	YAxis     string        `json:"yAxis,omitempty"`
	XRange    AxisRange     `json:"xRange"`
	YRange    AxisRange     `json:"yRange"`
	Series    []ChartSeries `json:"series"`
	Colors    []string      `json:"colors,omitempty"`
	ShowGrid  bool          `json:"showGrid"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
}

// AxisRange is a closed [Min, Max] interval.
type AxisRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies within the closed range.
func (r AxisRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp limits v to the range.
func (r AxisRange) Clamp(v float64) float64 {
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
// Histogram bins use Label/X/Width/Value; scatter points use Label/X/Y.
type ChartPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y,omitempty"`
	Width float64 `json:"width,omitempty"`
	Value float64 `json:"value"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}
