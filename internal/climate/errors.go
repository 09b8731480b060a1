package climate

import "errors"

var (
	// ErrNoBaselineForCity is returned when the historical data has no rows for a city.
	ErrNoBaselineForCity = errors.New("no baseline available for city")

	// ErrMissingBaseline is returned when a live reading's season has no historical statistics.
	ErrMissingBaseline = errors.New("not enough history for this season")

	// ErrInsufficientSamples is returned when a season's bounds are undefined
	// because it holds fewer than two observations.
	ErrInsufficientSamples = errors.New("insufficient samples to derive seasonal bounds")

	// ErrInvalidWindow is returned for a rolling window smaller than one point.
	ErrInvalidWindow = errors.New("rolling window must be at least 1")
)
