package engine

import "errors"

var (
	// ErrEmptyView is returned when a computation needs at least one row
	// and the view has none. Statistics and plots fail fast with it rather
	// than returning NaN or drawing nothing.
	ErrEmptyView = errors.New("empty view")

	// ErrNoValues is returned when a view has rows but every value of the
	// requested measure is missing.
	ErrNoValues = errors.New("no numeric values")

	// ErrUnknownMeasure is returned when a measure key is not a numeric
	// column of the view.
	ErrUnknownMeasure = errors.New("unknown measure")
)
