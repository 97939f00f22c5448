package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/stat"
)

// ============================================================================
// AGGREGATORS — Descriptive statistics over a RecordView
// ============================================================================
// Missing values (NaN) are skipped, the way a dataframe library skips NA.
// Empty views fail fast with ErrEmptyView; see Describe.
// ============================================================================

// Values collects the non-missing values of a measure, in view order.
// It also returns how many rows were skipped because the value was missing.
func Values(view RecordView, measure string) ([]float64, int) {
	n := view.Len()
	vals := make([]float64, 0, n)
	missing := 0
	for i := 0; i < n; i++ {
		v := view.Measure(i, measure)
		if math.IsNaN(v) {
			missing++
			continue
		}
		vals = append(vals, v)
	}
	return vals, missing
}

// Describe computes min, max, mean, median (plus spread) of a measure.
//
// Policy for degenerate input:
//   - zero rows            → ErrEmptyView
//   - unknown measure key  → ErrUnknownMeasure
//   - every value missing  → ErrNoValues
//
// For any successful result Min <= Median <= Max and Min <= Mean <= Max.
func Describe(view RecordView, measure string) (Stats, error) {
	if view.Len() == 0 {
		return Stats{}, fmt.Errorf("describe %s: %w", measure, ErrEmptyView)
	}
	if !HasMeasure(view, measure) {
		return Stats{}, fmt.Errorf("describe %s: %w", measure, ErrUnknownMeasure)
	}

	vals, missing := Values(view, measure)
	if len(vals) == 0 {
		return Stats{}, fmt.Errorf("describe %s: %d rows, all missing: %w", measure, missing, ErrNoValues)
	}

	s := series.New(vals, series.Float, measure)

	st := Stats{
		Measure: measure,
		Count:   len(vals),
		Missing: missing,
		Min:     s.Min(),
		Max:     s.Max(),
		Mean:    s.Mean(),
		Median:  s.Median(),
		Q1:      s.Quantile(0.25),
		Q3:      s.Quantile(0.75),
	}
	if len(vals) > 1 {
		st.StdDev = s.StdDev()
	}
	// Summation error can push the mean a hair past the extremes for
	// near-constant data.
	st.Mean = AxisRange{Min: st.Min, Max: st.Max}.Clamp(st.Mean)
	return st, nil
}

// Compare places value against a Stats summary.
func Compare(value float64, st Stats) Comparison {
	return Comparison{
		Value:       value,
		AboveMin:    value - st.Min,
		BelowMax:    st.Max - value,
		DeltaMean:   value - st.Mean,
		DeltaMedian: value - st.Median,
	}
}

// Rank returns the 1-based position of value among the measure's values
// ordered highest first. Ties share the best rank; a value higher than every
// row ranks 1.
func Rank(view RecordView, measure string, value float64) int {
	vals, _ := Values(view, measure)
	rank := 1
	for _, v := range vals {
		if v > value {
			rank++
		}
	}
	return rank
}

// Correlation returns the Pearson correlation between two measures over the
// rows where both are present. The result is NaN when either side is constant.
func Correlation(view RecordView, xMeasure, yMeasure string) (float64, error) {
	if view.Len() == 0 {
		return 0, fmt.Errorf("correlation: %w", ErrEmptyView)
	}
	xs, ys := pairs(view, xMeasure, yMeasure)
	if len(xs) < 2 {
		return 0, fmt.Errorf("correlation %s/%s: need 2 paired values, have %d: %w", xMeasure, yMeasure, len(xs), ErrNoValues)
	}
	return stat.Correlation(xs, ys, nil), nil
}

// Skewness returns the sample skewness of a measure. Positive values mean
// a longer right tail. Fewer than three values yield 0.
func Skewness(view RecordView, measure string) float64 {
	vals, _ := Values(view, measure)
	if len(vals) < 3 {
		return 0
	}
	sk := stat.Skew(vals, nil)
	if math.IsNaN(sk) {
		return 0
	}
	return sk
}

// pairs collects (x, y) values from rows where both measures are present.
func pairs(view RecordView, xMeasure, yMeasure string) ([]float64, []float64) {
	n := view.Len()
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x := view.Measure(i, xMeasure)
		y := view.Measure(i, yMeasure)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber renders v with at most two decimals and no trailing zeros.
// 68 → "68", 62.5 → "62.5", 71.333 → "71.33".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(RoundTo2(v), 'f', -1, 64)
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
