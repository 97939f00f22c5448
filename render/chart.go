package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/talkingdata/engine"
)

// ============================================================================
// CHART RENDERING — ChartConfig → PNG via go-chart
// ============================================================================
// Builders in engine already computed bins, points and ranges; this layer
// only maps them onto go-chart types. Axis ranges are always explicit so a
// single point or a flat histogram still renders.
// ============================================================================

var (
	// ErrUnsupportedChart is returned when a config is rendered by the wrong
	// renderer.
	ErrUnsupportedChart = errors.New("unsupported chart type")

	// ErrNoData is returned for a config without points.
	ErrNoData = errors.New("chart has no data")
)

const (
	axisTicks = 10
	gridColor = "d9d9d9"
)

// Histogram renders a histogram config as a PNG. Bins are drawn as adjacent
// filled bars over the configured x range.
func Histogram(w io.Writer, cfg *engine.ChartConfig) error {
	if err := check(cfg, engine.ChartHistogram); err != nil {
		return err
	}

	points := cfg.Series[0].Data
	xs := make([]float64, 0, len(points)*4)
	ys := make([]float64, 0, len(points)*4)
	for _, p := range points {
		lo, hi := p.X, p.X+p.Width
		xs = append(xs, lo, lo, hi, hi)
		ys = append(ys, 0, p.Value, p.Value, 0)
	}

	color := seriesColor(cfg, 0)
	bars := chart.ContinuousSeries{
		Name:    cfg.Series[0].Name,
		XValues: xs,
		YValues: ys,
		Style: chart.Style{
			StrokeColor: color,
			StrokeWidth: 1,
			FillColor:   color.WithAlpha(170),
		},
	}

	top := niceCeil(math.Max(cfg.YRange.Max, 1))
	ch := baseChart(cfg)
	ch.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: top}
	ch.YAxis.Ticks = countTicks(top)
	ch.Series = []chart.Series{bars}

	return renderPNG(w, ch)
}

// Scatter renders a scatter config as a PNG of unconnected points.
func Scatter(w io.Writer, cfg *engine.ChartConfig) error {
	if err := check(cfg, engine.ChartScatter); err != nil {
		return err
	}

	points := cfg.Series[0].Data
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = cfg.XRange.Clamp(p.X)
		ys[i] = cfg.YRange.Clamp(p.Y)
	}

	ch := baseChart(cfg)
	ch.YAxis.Range = &chart.ContinuousRange{Min: cfg.YRange.Min, Max: cfg.YRange.Max}
	ch.YAxis.Ticks = rangeTicks(cfg.YRange)
	ch.Series = []chart.Series{chart.ContinuousSeries{
		Name:    cfg.Series[0].Name,
		XValues: xs,
		YValues: ys,
		Style:   pointStyle(seriesColor(cfg, 0)),
	}}

	return renderPNG(w, ch)
}

// PNG renders any supported config.
func PNG(w io.Writer, cfg *engine.ChartConfig) error {
	if cfg == nil {
		return ErrNoData
	}
	switch cfg.ChartType {
	case engine.ChartHistogram:
		return Histogram(w, cfg)
	case engine.ChartScatter:
		return Scatter(w, cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedChart, cfg.ChartType)
	}
}

// PNGBytes renders cfg into memory.
func PNGBytes(cfg *engine.ChartConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := PNG(&buf, cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func check(cfg *engine.ChartConfig, want string) error {
	if cfg == nil || len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0 {
		return ErrNoData
	}
	if cfg.ChartType != want {
		return fmt.Errorf("%w: %q, want %q", ErrUnsupportedChart, cfg.ChartType, want)
	}
	return nil
}

func baseChart(cfg *engine.ChartConfig) chart.Chart {
	ch := chart.Chart{
		Title:      cfg.Title,
		Width:      cfg.Width,
		Height:     cfg.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  cfg.XAxis,
			Range: &chart.ContinuousRange{Min: cfg.XRange.Min, Max: cfg.XRange.Max},
			Ticks: rangeTicks(cfg.XRange),
		},
		YAxis: chart.YAxis{
			Name: cfg.YAxis,
		},
	}

	if cfg.ShowGrid {
		grid := chart.Style{StrokeColor: drawing.ColorFromHex(gridColor), StrokeWidth: 1}
		ch.XAxis.GridMajorStyle = grid
		ch.YAxis.GridMajorStyle = grid
	} else {
		ch.XAxis.GridMajorStyle = chart.Style{Hidden: true}
		ch.YAxis.GridMajorStyle = chart.Style{Hidden: true}
	}
	return ch
}

func renderPNG(w io.Writer, ch chart.Chart) error {
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render %q: %w", ch.Title, err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// pointStyle draws markers only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: 1,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    4,
		DotColor:    col,
	}
}

func seriesColor(cfg *engine.ChartConfig, i int) drawing.Color {
	hex := ""
	if i < len(cfg.Series) {
		hex = cfg.Series[i].Color
	}
	if hex == "" && i < len(cfg.Colors) {
		hex = cfg.Colors[i]
	}
	if hex == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// rangeTicks spreads axisTicks+1 evenly spaced ticks over r.
func rangeTicks(r engine.AxisRange) []chart.Tick {
	step := (r.Max - r.Min) / axisTicks
	ticks := make([]chart.Tick, 0, axisTicks+1)
	for i := 0; i <= axisTicks; i++ {
		v := r.Min + float64(i)*step
		ticks = append(ticks, chart.Tick{Value: v, Label: engine.FormatNumber(v)})
	}
	return ticks
}

// countTicks returns whole-number ticks from 0 to top.
func countTicks(top float64) []chart.Tick {
	step := math.Max(1, math.Ceil(top/axisTicks))
	var ticks []chart.Tick
	for v := 0.0; v <= top; v += step {
		ticks = append(ticks, chart.Tick{Value: v, Label: engine.FormatNumber(v)})
	}
	return ticks
}

// niceCeil rounds a count up so the tallest bar has headroom and the top
// lands on a tick.
func niceCeil(v float64) float64 {
	step := math.Max(1, math.Ceil(v/axisTicks))
	return step * math.Ceil((v+1)/step)
}
