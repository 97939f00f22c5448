package helpers

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/talkingdata/engine"
	"github.com/spektr-org/talkingdata/schema"
)

var ratingsCSV = []byte(`movie_title,genres,audience_rating,critic_rating,runtime_in_minutes
Speed,Action,65,94,116
Cats,Comedy,14,20,110
Avengers: Endgame,"Action & Adventure, Science Fiction & Fantasy",90,94,181
Catwoman,"Action, Fantasy",40,9,104
Heat,"Action, Drama",98,87,170
Tenet,Action,55,,150
Nameless,Action,,n/a,
`)

func TestParseCSVKeepsRowsAndColumns(t *testing.T) {
	ds, err := ParseCSVBytes(ratingsCSV, schema.MovieRatings())
	require.NoError(t, err)

	assert.Equal(t, 7, ds.Len())
	assert.Equal(t, []string{"movie_title", "genres", "audience_rating", "critic_rating", "runtime_in_minutes"}, ds.Headers)
	assert.Equal(t, ds.Headers, ds.View.DimensionKeys())

	// Row order and raw text survive.
	assert.Equal(t, "Speed", ds.View.Dimension(0, "movie_title"))
	assert.Equal(t, "Action & Adventure, Science Fiction & Fantasy", ds.View.Dimension(2, "genres"))
	assert.Equal(t, "181", ds.View.Dimension(2, "runtime_in_minutes"))
	assert.Equal(t, 90.0, ds.View.Measure(2, "audience_rating"))
}

func TestParseCSVDiscoversExtraMeasures(t *testing.T) {
	ds, err := ParseCSVBytes(ratingsCSV, schema.MovieRatings())
	require.NoError(t, err)

	assert.True(t, ds.Schema.IsMeasure("audience_rating"))
	assert.True(t, ds.Schema.IsMeasure("critic_rating"))
	assert.Contains(t, ds.View.MeasureKeys(), "audience_rating")
	assert.Contains(t, ds.View.MeasureKeys(), "critic_rating")

	// Built-in declarations win over discovery.
	m, ok := ds.Schema.Measure("audience_rating")
	require.True(t, ok)
	assert.True(t, m.Required)
}

func TestParseCSVMarksMissingMeasures(t *testing.T) {
	ds, err := ParseCSVBytes(ratingsCSV, schema.MovieRatings())
	require.NoError(t, err)

	assert.True(t, math.IsNaN(ds.View.Measure(5, "critic_rating")), "empty cell")
	assert.True(t, math.IsNaN(ds.View.Measure(6, "critic_rating")), "non-numeric cell")
	assert.True(t, math.IsNaN(ds.View.Measure(6, "audience_rating")))
	assert.Equal(t, 1, ds.Missing["audience_rating"])
	assert.Equal(t, 2, ds.Missing["critic_rating"])

	// Raw text is still there for display.
	assert.Equal(t, "n/a", ds.View.Dimension(6, "critic_rating"))
}

func TestParseCSVFeedsEngine(t *testing.T) {
	ds, err := ParseCSVBytes(ratingsCSV, schema.MovieRatings())
	require.NoError(t, err)

	cohort := engine.MatchContains(ds.View, schema.KeyGenres, "Action")
	assert.Equal(t, 6, cohort.Len())

	st, err := engine.Describe(cohort, schema.KeyAudienceRating)
	require.NoError(t, err)
	assert.Equal(t, 5, st.Count)
	assert.Equal(t, 1, st.Missing)
	assert.Equal(t, 40.0, st.Min)
	assert.Equal(t, 98.0, st.Max)
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		missing string
	}{
		{"no genres", "movie_title,audience_rating,critic_rating\nSpeed,65,94\n", "genres"},
		{"no audience rating", "movie_title,genres,critic_rating\nSpeed,Action,94\n", "audience_rating"},
		{"wrong case", "Movie_Title,genres,audience_rating,critic_rating\nSpeed,Action,65,94\n", "movie_title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.csv), schema.MovieRatings())
			require.Error(t, err)
			assert.True(t, errors.Is(err, schema.ErrMissingColumn))
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestParseCSVMalformed(t *testing.T) {
	bad := "movie_title,genres,audience_rating,critic_rating\nSpeed,Action,65\n"
	_, err := ParseCSV(strings.NewReader(bad), schema.MovieRatings())
	assert.ErrorIs(t, err, ErrMalformedCSV)

	_, err = ParseCSV(strings.NewReader(""), schema.MovieRatings())
	assert.ErrorIs(t, err, ErrMalformedCSV)
}

func TestParseCSVHeaderOnly(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("movie_title,genres,audience_rating,critic_rating\n"), schema.MovieRatings())
	require.NoError(t, err)

	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"movie_title", "genres", "audience_rating", "critic_rating"}, ds.Headers)
	assert.True(t, ds.Schema.IsMeasure(schema.KeyAudienceRating))

	_, err = engine.Describe(ds.View, schema.KeyAudienceRating)
	assert.ErrorIs(t, err, engine.ErrEmptyView)

	_, err = ParseCSV(strings.NewReader("movie_title,genres\n"), schema.MovieRatings())
	assert.ErrorIs(t, err, schema.ErrMissingColumn)
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, ratingsCSV, 0o644))

	ds, err := LoadCSV(path, schema.MovieRatings())
	require.NoError(t, err)
	assert.Equal(t, path, ds.Source)
	assert.Equal(t, 7, ds.Len())
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), schema.MovieRatings())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
