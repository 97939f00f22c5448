package report

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/talkingdata/engine"
)

func scenarioStats() engine.Stats {
	return engine.Stats{
		Measure: "audience_rating",
		Count:   6,
		Min:     40,
		Max:     98,
		Mean:    68,
		Median:  62.5,
	}
}

func newTestNarrator(buf *bytes.Buffer, p Pauser) *Narrator {
	return NewNarrator(buf, p, Subject{
		Favourite: "Avengers: Endgame",
		Genre:     "Action",
		Measure:   "audience rating",
	})
}

// ============================================================================
// PLACEHOLDERS
// ============================================================================

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		template string
		values   map[string]string
		want     string
	}{
		{"all resolved", "The {stat} is {value}", map[string]string{"stat": "min", "value": "40"}, "The min is 40"},
		{"unresolved dropped", "There are {count} movies {extra}.", map[string]string{"count": "6"}, "There are 6 movies."},
		{"no placeholders", "Plain text.", nil, "Plain text."},
		{"only unresolved keeps text", "{nothing}", nil, "{nothing}"},
		{"braces in values are literal", "My favorite movie is {favourite}",
			map[string]string{"favourite": "The {genre} Files", "genre": "Action"}, "My favorite movie is The {genre} Files"},
		{"unknown slot in value survives", "Title: {favourite} ({extra})",
			map[string]string{"favourite": "{nothing} Ever"}, "Title: {nothing} Ever ()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.template, tt.values))
		})
	}
}

// ============================================================================
// NARRATOR
// ============================================================================

func TestStatisticsComputesComparisons(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, NoPause{})
	n.found = true

	require.NoError(t, n.Statistics(scenarioStats(), 90))
	out := buf.String()

	assert.Contains(t, out, "The min audience rating of the data set is: 40")
	assert.Contains(t, out, "Avengers: Endgame is rated 50 points higher than the lowest rated movie.")
	assert.Contains(t, out, "The max audience rating of the data set is: 98")
	assert.Contains(t, out, "Avengers: Endgame is rated 8 points lower than the highest rated movie.")
	assert.Contains(t, out, "The mean audience rating of the data set is: 68")
	assert.Contains(t, out, "Avengers: Endgame is higher than the mean movie rating.")
	assert.Contains(t, out, "The median audience rating of the data set is: 62.5")
	assert.Contains(t, out, "Avengers: Endgame is higher than the median movie rating.")
	assert.NotContains(t, out, "{")
}

func TestStatisticsAtTheEdges(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, NoPause{})

	require.NoError(t, n.Statistics(scenarioStats(), 98))
	assert.Contains(t, buf.String(), "Avengers: Endgame is rated the same as the highest rated movie.")

	buf.Reset()
	require.NoError(t, n.Statistics(scenarioStats(), 40))
	out := buf.String()
	assert.Contains(t, out, "Avengers: Endgame is rated the same as the lowest rated movie.")
	assert.Contains(t, out, "lower than the mean movie rating.")
}

func TestStatisticsOutsideCohortRange(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, NoPause{})

	require.NoError(t, n.Statistics(scenarioStats(), 14))
	out := buf.String()
	assert.Contains(t, out, "Avengers: Endgame is rated 26 points lower than the lowest rated movie.")
	assert.Contains(t, out, "Avengers: Endgame is rated 84 points lower than the highest rated movie.")
	assert.NotContains(t, out, "-")

	buf.Reset()
	require.NoError(t, n.Statistics(scenarioStats(), 99.5))
	out = buf.String()
	assert.Contains(t, out, "Avengers: Endgame is rated 59.5 points higher than the lowest rated movie.")
	assert.Contains(t, out, "Avengers: Endgame is rated 1.5 points higher than the highest rated movie.")
}

func TestIntroKeepsBracesInTitle(t *testing.T) {
	var buf bytes.Buffer
	n := NewNarrator(&buf, NoPause{}, Subject{Favourite: "The {genre} Files", Genre: "Action"})

	require.NoError(t, n.Intro())
	assert.Equal(t, "My favorite movie is The {genre} Files\n", buf.String())
}

func TestStatisticsWithoutFavourite(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, NoPause{})

	require.NoError(t, n.FavouriteData(&engine.TableData{Columns: []engine.Column{{Key: "movie_title", Label: "movie_title"}}}))
	require.NoError(t, n.Statistics(scenarioStats(), math.NaN()))

	out := buf.String()
	assert.Contains(t, out, "Movie not found.")
	assert.Contains(t, out, "The min audience rating of the data set is: 40")
	assert.NotContains(t, out, "points higher")
	assert.NotContains(t, out, "has no audience rating")
}

func TestFavouriteDataPrintsAllColumns(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, NoPause{})

	table := &engine.TableData{
		Columns: []engine.Column{
			{Key: "movie_title", Label: "movie_title"},
			{Key: "genres", Label: "genres"},
			{Key: "audience_rating", Label: "audience_rating"},
			{Key: "critic_rating", Label: "critic_rating"},
		},
		Rows: [][]string{{"Avengers: Endgame", "Action/Adventure", "90", "94"}},
	}
	require.NoError(t, n.FavouriteData(table))

	out := buf.String()
	assert.Contains(t, out, "The data for my favorite movie is:")
	for _, want := range []string{"movie_title", "critic_rating", "Action/Adventure", "94"} {
		assert.Contains(t, out, want)
	}
}

func TestCohortPausesBeforeStatistics(t *testing.T) {
	var buf bytes.Buffer
	p := &RecordingPauser{}
	n := newTestNarrator(&buf, p)

	require.NoError(t, n.Cohort(6))
	assert.Contains(t, buf.String(), "There are 6 movies under the category Action.")
	assert.Equal(t, []string{
		"Press enter to see more information about how Avengers: Endgame compares to other movies in this genre.",
	}, p.Prompts)

	require.NoError(t, n.Statistics(scenarioStats(), 90))
	assert.Len(t, p.Prompts, 2)
	assert.Equal(t, "Press enter to see data visualizations.", p.Prompts[1])
}

func TestCohortEmpty(t *testing.T) {
	var buf bytes.Buffer
	p := &RecordingPauser{}
	n := newTestNarrator(&buf, p)

	require.NoError(t, n.Cohort(0))
	assert.Contains(t, buf.String(), "No movies found for that genre.")
	assert.Empty(t, p.Prompts)
}

func TestHistogramCommentary(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, NoPause{})

	require.NoError(t, n.Histogram(HistogramFacts{
		Peak:     engine.ChartPoint{Label: "60-65", X: 60, Width: 5, Value: 412},
		Skewness: 0.8,
		Rank:     140,
		Count:    2000,
	}))

	out := buf.String()
	assert.Contains(t, out, "skewed to the right")
	assert.Contains(t, out, "The most common audience rating range is 60 to 65, with 412 movies.")
	assert.Contains(t, out, "Avengers: Endgame ranks 140 out of 2,000 Action movies in the data set.")
	assert.Contains(t, out, "among the highest rated Action movies")
}

func TestHistogramCommentaryShapes(t *testing.T) {
	tests := []struct {
		skew float64
		want string
	}{
		{-0.5, "skewed to the left"},
		{0.05, "roughly symmetric"},
		{0, "roughly symmetric"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		n := newTestNarrator(&buf, NoPause{})
		require.NoError(t, n.Histogram(HistogramFacts{Skewness: tt.skew}))
		assert.Contains(t, buf.String(), tt.want, "skew %v", tt.skew)
		assert.NotContains(t, buf.String(), "ranks", "no rank without a favourite")
	}
}

func TestScatterCommentary(t *testing.T) {
	tests := []struct {
		name string
		r    float64
		err  error
		want string
	}{
		{"strong positive", 0.82, nil, "there is a strong positive correlation (r = 0.82) between the audience rating and the critic rating."},
		{"moderate negative", -0.5, nil, "moderate negative correlation"},
		{"weak", 0.15, nil, "weak positive correlation"},
		{"none", 0.02, nil, "there is no clear correlation (r = 0.02)"},
		{"constant", math.NaN(), nil, "not enough paired ratings"},
		{"error", 0, engine.ErrNoValues, "not enough paired ratings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n := newTestNarrator(&buf, NoPause{})
			require.NoError(t, n.Scatter("audience rating", "critic rating", tt.r, tt.err))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

// ============================================================================
// PAUSERS AND ERRORS
// ============================================================================

func TestLinePauser(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePauser(strings.NewReader("\n\n"), &out)

	require.NoError(t, p.Pause("first"))
	require.NoError(t, p.Pause("second"))
	// Input exhausted: still continues.
	require.NoError(t, p.Pause("third"))
	assert.Equal(t, "first\nsecond\nthird\n", out.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestNarratorErrorsAreSticky(t *testing.T) {
	n := NewNarrator(failingWriter{}, nil, Subject{Favourite: "Heat"})

	err := n.Intro()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, err, n.Closing())
	assert.Equal(t, err, n.Err())
}

type failingPauser struct{}

func (failingPauser) Pause(string) error { return errors.New("interrupted") }

func TestPauseErrorStopsNarrator(t *testing.T) {
	var buf bytes.Buffer
	n := newTestNarrator(&buf, failingPauser{})

	require.Error(t, n.Cohort(6))
	before := buf.Len()
	require.Error(t, n.Statistics(scenarioStats(), 90))
	assert.Equal(t, before, buf.Len())
}
