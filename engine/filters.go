package engine

import (
	"strings"
)

// ============================================================================
// FILTERS — Predicate-based selection via RecordView
// ============================================================================
// Each match narrows the view it is given; ApplyFilters chains them, so a
// record must pass every constraint. Results are SubViews (index lists
// into the parent) with no data copy.
// Matching is case-sensitive with no normalization: a title query must equal
// the stored text byte-for-byte.
// ============================================================================

// Predicate reports whether the record at index i of view is selected.
type Predicate func(view RecordView, i int) bool

// Where returns the subsequence of view for which pred holds.
// Zero matches yields an empty view, never an error.
func Where(view RecordView, pred Predicate) RecordView {
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if pred(view, i) {
			indices = append(indices, i)
		}
	}
	return newSubView(view, indices)
}

// MatchExact returns rows whose dimension equals value exactly.
func MatchExact(view RecordView, key, value string) RecordView {
	return Where(view, func(v RecordView, i int) bool {
		return v.Dimension(i, key) == value
	})
}

// MatchContains returns rows whose dimension contains substr.
// Re-applying the same query to the result returns the same rows.
func MatchContains(view RecordView, key, substr string) RecordView {
	return Where(view, func(v RecordView, i int) bool {
		return strings.Contains(v.Dimension(i, key), substr)
	})
}

// ApplyFilters returns a view of records matching all filters.
// Empty filter = no restriction (returns original view).
func ApplyFilters(view RecordView, filters Filters) RecordView {
	if filters.IsEmpty() {
		return view
	}

	for key, want := range filters.Exact {
		view = MatchExact(view, key, want)
	}
	for key, sub := range filters.Contains {
		view = MatchContains(view, key, sub)
	}
	return view
}
