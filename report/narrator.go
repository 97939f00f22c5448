package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spektr-org/talkingdata/engine"
)

// ============================================================================
// NARRATOR — Plain-sentence commentary on a cohort
// ============================================================================
// Every number in the text is computed from the data. The narrator never
// decides what to compute; it is handed Stats, chart peaks and correlations
// and turns them into sentences.
//
// Write errors are sticky: after the first failure every call is a no-op
// and Err reports the failure.
// ============================================================================

const rule = "~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~~"

// Sentence templates.
const (
	tmplIntro        = "My favorite movie is {favourite}"
	tmplFavData      = "The data for my favorite movie is:"
	tmplNotFound     = "Movie not found."
	tmplComparing    = "We will be comparing {favourite} to other movies under the genre {genre} in the data set."
	tmplCohortSize   = "There are {count} movies under the category {genre}."
	tmplNoCohort     = "No movies found for that genre."
	tmplPromptDetail = "Press enter to see more information about how {favourite} compares to other movies in this genre."
	tmplPromptPlots  = "Press enter to see data visualizations."
	tmplCloseGraph   = "Close the graph window, then press enter to continue."

	tmplStat         = "The {stat} {measure} of the data set is: {value}"
	tmplAboveMin     = "{favourite} is rated {delta} points higher than the lowest rated movie."
	tmplIsMin        = "{favourite} is rated the same as the lowest rated movie."
	tmplBelowMin     = "{favourite} is rated {delta} points lower than the lowest rated movie."
	tmplBelowMax     = "{favourite} is rated {delta} points lower than the highest rated movie."
	tmplIsMax        = "{favourite} is rated the same as the highest rated movie."
	tmplAboveMax     = "{favourite} is rated {delta} points higher than the highest rated movie."
	tmplVersus       = "{favourite} is {relation} the {stat} movie rating."
	tmplNoFavValue   = "{favourite} has no {measure} to compare."
	tmplMissingCount = "{missing} movies with no {measure} were left out."

	tmplHistSkew   = "According to the histogram, the {measure} of {genre} movies is skewed to the {direction}."
	tmplHistFlat   = "According to the histogram, the {measure} of {genre} movies is roughly symmetric."
	tmplHistPeak   = "The most common {measure} range is {lo} to {hi}, with {peak} movies."
	tmplHistRank   = "{favourite} ranks {rank} out of {count} {genre} movies in the data set."
	tmplHistTop    = "{favourite} is among the highest rated {genre} movies."
	tmplScatter    = "According to the scatter plot, there is a {strength} {sign} correlation (r = {r}) between the {x} and the {y}."
	tmplScatterNil = "According to the scatter plot, there is no clear correlation (r = {r}) between the {x} and the {y}."
	tmplScatterNA  = "There are not enough paired ratings to judge a correlation between the {x} and the {y}."
	tmplSaved      = "Saved {name} to {path}."
	tmplClosing    = "Thank you for reading through my data analysis!"
)

// Subject names what the report is about.
type Subject struct {
	Favourite string
	Genre     string
	// Measure is the human label of the analysed measure, e.g. "audience rating".
	Measure string
}

// Narrator writes the report sections to an io.Writer.
type Narrator struct {
	w       io.Writer
	pauser  Pauser
	subject Subject
	found   bool
	err     error
}

// NewNarrator returns a Narrator. A nil pauser means NoPause.
func NewNarrator(w io.Writer, pauser Pauser, subject Subject) *Narrator {
	if pauser == nil {
		pauser = NoPause{}
	}
	return &Narrator{w: w, pauser: pauser, subject: subject}
}

// Err returns the first write or pause error, if any.
func (n *Narrator) Err() error { return n.err }

func (n *Narrator) values(extra map[string]string) map[string]string {
	vals := map[string]string{
		"favourite": n.subject.Favourite,
		"genre":     n.subject.Genre,
		"measure":   n.subject.Measure,
	}
	for k, v := range extra {
		vals[k] = v
	}
	return vals
}

func (n *Narrator) say(template string, extra map[string]string) {
	n.line(Resolve(template, n.values(extra)))
}

func (n *Narrator) line(s string) {
	if n.err != nil {
		return
	}
	if _, err := fmt.Fprintln(n.w, s); err != nil {
		n.err = fmt.Errorf("write report: %w", err)
	}
}

func (n *Narrator) pause(template string) {
	if n.err != nil {
		return
	}
	if err := n.pauser.Pause(Resolve(template, n.values(nil))); err != nil {
		n.err = err
	}
}

// Intro names the favourite movie.
func (n *Narrator) Intro() error {
	n.say(tmplIntro, nil)
	return n.err
}

// FavouriteData prints every column of the favourite's rows, or
// "Movie not found." when the table has no rows.
func (n *Narrator) FavouriteData(table *engine.TableData) error {
	n.line("")
	if table == nil || len(table.Rows) == 0 {
		n.line(tmplNotFound)
		return n.err
	}
	n.found = true
	n.line(tmplFavData)
	n.line("")
	if n.err == nil {
		if err := WriteTable(n.w, table); err != nil {
			n.err = fmt.Errorf("write report: %w", err)
		}
	}
	return n.err
}

// Cohort reports the size of the genre cohort and waits before the
// statistics section.
func (n *Narrator) Cohort(count int) error {
	n.line("\n")
	if count == 0 {
		n.line(tmplNoCohort)
		return n.err
	}
	n.say(tmplComparing, nil)
	n.line("")
	n.say(tmplCohortSize, map[string]string{"count": engine.FormatInt(count)})
	n.line(rule)
	n.pause(tmplPromptDetail)
	return n.err
}

// Statistics prints min, max, mean and median of the cohort. When fav is
// not NaN each figure is followed by a sentence placing the favourite
// against it; fav may lie outside [Min, Max] when the favourite is not in
// the cohort. Waits before the plots section.
func (n *Narrator) Statistics(st engine.Stats, fav float64) error {
	hasFav := !math.IsNaN(fav)
	var cmp engine.Comparison
	if hasFav {
		cmp = engine.Compare(fav, st)
	}

	n.say(tmplStat, map[string]string{"stat": "min", "value": engine.FormatNumber(st.Min)})
	if hasFav {
		switch delta := engine.RoundTo2(cmp.AboveMin); {
		case delta > 0:
			n.say(tmplAboveMin, map[string]string{"delta": engine.FormatNumber(delta)})
		case delta < 0:
			n.say(tmplBelowMin, map[string]string{"delta": engine.FormatNumber(-delta)})
		default:
			n.say(tmplIsMin, nil)
		}
	}
	n.line("")

	n.say(tmplStat, map[string]string{"stat": "max", "value": engine.FormatNumber(st.Max)})
	if hasFav {
		switch delta := engine.RoundTo2(cmp.BelowMax); {
		case delta > 0:
			n.say(tmplBelowMax, map[string]string{"delta": engine.FormatNumber(delta)})
		case delta < 0:
			n.say(tmplAboveMax, map[string]string{"delta": engine.FormatNumber(-delta)})
		default:
			n.say(tmplIsMax, nil)
		}
	}
	n.line("")

	n.say(tmplStat, map[string]string{"stat": "mean", "value": engine.FormatNumber(st.Mean)})
	if hasFav {
		n.say(tmplVersus, map[string]string{"stat": "mean", "relation": relation(cmp.DeltaMean)})
	}

	n.say(tmplStat, map[string]string{"stat": "median", "value": engine.FormatNumber(st.Median)})
	if hasFav {
		n.say(tmplVersus, map[string]string{"stat": "median", "relation": relation(cmp.DeltaMedian)})
	}

	if !hasFav && n.found {
		n.say(tmplNoFavValue, nil)
	}
	if st.Missing > 0 {
		n.say(tmplMissingCount, map[string]string{"missing": engine.FormatInt(st.Missing)})
	}

	n.line(rule)
	n.pause(tmplPromptPlots)
	return n.err
}

func relation(delta float64) string {
	switch {
	case engine.RoundTo2(delta) > 0:
		return "higher than"
	case engine.RoundTo2(delta) < 0:
		return "lower than"
	default:
		return "equal to"
	}
}

// HistogramFacts carries what the histogram commentary needs.
type HistogramFacts struct {
	Peak     engine.ChartPoint
	Skewness float64
	// Rank is the favourite's 1-based rank in the cohort; 0 when unknown.
	Rank  int
	Count int
}

// skewThreshold is the absolute sample skewness below which a distribution
// is described as roughly symmetric.
const skewThreshold = 0.1

// Histogram comments on the shape of the histogram and where the
// favourite sits in it.
func (n *Narrator) Histogram(h HistogramFacts) error {
	switch {
	case h.Skewness > skewThreshold:
		n.say(tmplHistSkew, map[string]string{"direction": "right"})
	case h.Skewness < -skewThreshold:
		n.say(tmplHistSkew, map[string]string{"direction": "left"})
	default:
		n.say(tmplHistFlat, nil)
	}

	if h.Peak.Value > 0 {
		n.say(tmplHistPeak, map[string]string{
			"lo":   engine.FormatNumber(h.Peak.X),
			"hi":   engine.FormatNumber(h.Peak.X + h.Peak.Width),
			"peak": engine.FormatNumber(h.Peak.Value),
		})
	}

	if h.Rank > 0 && h.Count > 0 {
		n.say(tmplHistRank, map[string]string{
			"rank":  engine.FormatInt(h.Rank),
			"count": engine.FormatInt(h.Count),
		})
		// Top tenth of the cohort.
		if h.Rank*10 <= h.Count {
			n.say(tmplHistTop, nil)
		}
	}
	return n.err
}

// Scatter comments on the correlation between two measures. A non-nil
// corrErr or a NaN r means there was nothing to correlate.
func (n *Narrator) Scatter(xLabel, yLabel string, r float64, corrErr error) error {
	vals := map[string]string{"x": xLabel, "y": yLabel}
	if corrErr != nil || math.IsNaN(r) {
		n.say(tmplScatterNA, vals)
		return n.err
	}

	vals["r"] = engine.FormatNumber(r)
	strength := correlationStrength(r)
	if strength == "" {
		n.say(tmplScatterNil, vals)
		return n.err
	}
	vals["strength"] = strength
	vals["sign"] = "positive"
	if r < 0 {
		vals["sign"] = "negative"
	}
	n.say(tmplScatter, vals)
	return n.err
}

func correlationStrength(r float64) string {
	a := math.Abs(r)
	switch {
	case a >= 0.7:
		return "strong"
	case a >= 0.4:
		return "moderate"
	case a >= 0.1:
		return "weak"
	default:
		return ""
	}
}

// Saved notes where a chart was written.
func (n *Narrator) Saved(name, path string) error {
	n.say(tmplSaved, map[string]string{"name": name, "path": path})
	return n.err
}

// CloseGraph waits for the reader to dismiss a shown chart.
func (n *Narrator) CloseGraph() error {
	n.line("")
	n.pause(tmplCloseGraph)
	return n.err
}

// Closing ends the report.
func (n *Narrator) Closing() error {
	n.line("")
	n.line(tmplClosing)
	return n.err
}

// Label lowercases a display name for use mid-sentence.
func Label(displayName string) string {
	return strings.ToLower(displayName)
}
