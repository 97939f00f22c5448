package render

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/spektr-org/talkingdata/engine"
)

// ============================================================================
// CSV OUTPUT — Chart data as a spreadsheet-ready table
// ============================================================================
// Histogram → one row per bin (range label, count).
// Scatter   → one row per point (label, x, y).
// ============================================================================

// WriteCSV writes the data behind a chart as CSV with a header row.
func WriteCSV(w io.Writer, cfg *engine.ChartConfig) error {
	if cfg == nil || len(cfg.Series) == 0 {
		return ErrNoData
	}

	xLabel := cfg.XAxis
	yLabel := cfg.YAxis
	if xLabel == "" {
		xLabel = "Label"
	}
	if yLabel == "" {
		yLabel = "Value"
	}

	var records [][]string
	switch cfg.ChartType {
	case engine.ChartHistogram:
		records = append(records, []string{xLabel, yLabel})
		for _, p := range cfg.Series[0].Data {
			records = append(records, []string{p.Label, engine.FormatNumber(p.Value)})
		}
	case engine.ChartScatter:
		if yLabel == xLabel {
			yLabel += " (y)"
		}
		records = append(records, []string{"Label", xLabel, yLabel})
		for _, p := range cfg.Series[0].Data {
			records = append(records, []string{p.Label, engine.FormatNumber(p.X), engine.FormatNumber(p.Y)})
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChart, cfg.ChartType)
	}

	if len(records) == 1 {
		return ErrNoData
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil),
	)
	if df.Err != nil {
		return fmt.Errorf("chart csv: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("chart csv: %w", err)
	}
	return nil
}
