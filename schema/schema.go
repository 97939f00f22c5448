package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// SCHEMA — Describes the shape of a ratings dataset
// ============================================================================
// The built-in MovieRatings schema names the four columns the analysis needs.
// Discover() classifies any extra columns so the loader can keep them verbatim.
// Column names are matched exactly (case-sensitive, no normalization).
// ============================================================================

// ErrMissingColumn is returned when a required column is absent from the data.
var ErrMissingColumn = errors.New("missing required column")

// Column keys of the built-in movie ratings schema.
const (
	KeyTitle          = "movie_title"
	KeyGenres         = "genres"
	KeyAudienceRating = "audience_rating"
	KeyCriticRating   = "critic_rating"
)

// Config describes the complete shape of a dataset.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	// Columns skipped during discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a text field used for filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	Description     string   `json:"description,omitempty"`
	SampleValues    []string `json:"sampleValues,omitempty"`
	Required        bool     `json:"required,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"`
}

// MeasureMeta describes a numeric field used for statistics and plots.
type MeasureMeta struct {
	Key         string  `json:"key"`
	DisplayName string  `json:"displayName"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit,omitempty"` // "points", "minutes", "count"
	Required    bool    `json:"required,omitempty"`
	Min         float64 `json:"min,omitempty"`
	Max         float64 `json:"max,omitempty"`
}

// SkippedColumn records why a column was excluded during discovery.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// MovieRatings returns the schema of the Rotten Tomatoes movies export.
func MovieRatings() Config {
	return Config{
		Name:        "Rotten Tomatoes Movies",
		Description: "One row per movie with audience and critic scores",
		Dimensions: []DimensionMeta{
			{Key: KeyTitle, DisplayName: "Movie Title", Required: true, CardinalityHint: "high"},
			{Key: KeyGenres, DisplayName: "Genres", Required: true, CardinalityHint: "medium"},
		},
		Measures: []MeasureMeta{
			{Key: KeyAudienceRating, DisplayName: "Audience Rating", Unit: "points", Required: true, Min: 0, Max: 100},
			{Key: KeyCriticRating, DisplayName: "Critic Rating", Unit: "points", Required: true, Min: 0, Max: 100},
		},
	}
}

// Validate checks that every required column appears in headers.
// All missing columns are reported in one error wrapping ErrMissingColumn.
func (c Config) Validate(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, d := range c.Dimensions {
		if d.Required && !present[d.Key] {
			missing = append(missing, d.Key)
		}
	}
	for _, m := range c.Measures {
		if m.Required && !present[m.Key] {
			missing = append(missing, m.Key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Merge adds the columns of other that c does not already declare.
// Declarations in c always win.
func (c Config) Merge(other Config) Config {
	out := c
	out.Dimensions = append([]DimensionMeta(nil), c.Dimensions...)
	out.Measures = append([]MeasureMeta(nil), c.Measures...)

	known := make(map[string]bool)
	for _, k := range c.DimensionKeys() {
		known[k] = true
	}
	for _, k := range c.MeasureKeys() {
		known[k] = true
	}

	for _, d := range other.Dimensions {
		if !known[d.Key] {
			out.Dimensions = append(out.Dimensions, d)
			known[d.Key] = true
		}
	}
	for _, m := range other.Measures {
		if !known[m.Key] {
			out.Measures = append(out.Measures, m)
			known[m.Key] = true
		}
	}
	for _, s := range other.SkippedColumns {
		if !known[s.Column] {
			out.SkippedColumns = append(out.SkippedColumns, s)
		}
	}
	return out
}

// Measure looks up a measure by key.
func (c Config) Measure(key string) (MeasureMeta, bool) {
	for _, m := range c.Measures {
		if m.Key == key {
			return m, true
		}
	}
	return MeasureMeta{}, false
}

// IsMeasure reports whether key is declared as a measure.
func (c Config) IsMeasure(key string) bool {
	_, ok := c.Measure(key)
	return ok
}

// DisplayName returns the human label of a column, or the key itself.
func (c Config) DisplayName(key string) string {
	for _, d := range c.Dimensions {
		if d.Key == key && d.DisplayName != "" {
			return d.DisplayName
		}
	}
	if m, ok := c.Measure(key); ok && m.DisplayName != "" {
		return m.DisplayName
	}
	return key
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}
