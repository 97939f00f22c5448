package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsRequiredColumns(t *testing.T) {
	sch := MovieRatings()
	err := sch.Validate([]string{"rotten_tomatoes_link", KeyTitle, KeyGenres, KeyAudienceRating, KeyCriticRating})
	assert.NoError(t, err)
}

func TestValidateReportsEveryMissingColumn(t *testing.T) {
	sch := MovieRatings()
	err := sch.Validate([]string{KeyTitle, "Genres", KeyAudienceRating})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingColumn))
	assert.Contains(t, err.Error(), KeyGenres)
	assert.Contains(t, err.Error(), KeyCriticRating)
	assert.NotContains(t, err.Error(), KeyTitle)
}

func TestValidateIsCaseSensitive(t *testing.T) {
	sch := MovieRatings()
	err := sch.Validate([]string{"Movie_Title", KeyGenres, KeyAudienceRating, KeyCriticRating})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestMergeKeepsBuiltInDeclarations(t *testing.T) {
	discovered, err := Discover(movieHeaders, movieRows)
	require.NoError(t, err)

	merged := MovieRatings().Merge(*discovered)

	// Required title stays a dimension even though discovery skipped it.
	assert.Contains(t, merged.DimensionKeys(), KeyTitle)
	for _, s := range merged.SkippedColumns {
		assert.NotEqual(t, KeyTitle, s.Column)
	}

	// Discovered runtime is added.
	assert.Contains(t, merged.MeasureKeys(), "runtime")

	m, ok := merged.Measure(KeyAudienceRating)
	require.True(t, ok)
	assert.True(t, m.Required)
	assert.Equal(t, "points", m.Unit)

	// No duplicates.
	seen := map[string]int{}
	for _, k := range append(merged.DimensionKeys(), merged.MeasureKeys()...) {
		seen[k]++
	}
	for k, n := range seen {
		assert.Equal(t, 1, n, "column %s declared %d times", k, n)
	}
}

func TestMergeDoesNotAliasReceiver(t *testing.T) {
	base := MovieRatings()
	_ = base.Merge(Config{Measures: []MeasureMeta{{Key: "runtime"}}})
	assert.Len(t, base.Measures, 2)
}

func TestDisplayNameLookup(t *testing.T) {
	sch := MovieRatings()
	assert.Equal(t, "Audience Rating", sch.DisplayName(KeyAudienceRating))
	assert.Equal(t, "Movie Title", sch.DisplayName(KeyTitle))
	assert.Equal(t, "unknown", sch.DisplayName("unknown"))
	assert.True(t, sch.IsMeasure(KeyCriticRating))
	assert.False(t, sch.IsMeasure(KeyGenres))
}
