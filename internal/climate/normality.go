package climate

import "fmt"

// Check judges whether a live reading is normal for its season in city,
// using the same Mean ± 2·Std band as Detect. The comparison is inclusive
// at both ends and uses full precision.
//
// It fails with ErrNoBaselineForCity when stats is empty, ErrMissingBaseline
// when the reading's season has no statistics, and ErrInsufficientSamples
// when that season's bounds are undefined.
func Check(city string, live LiveReading, stats Baseline) (NormalityVerdict, error) {
	if len(stats) == 0 {
		return NormalityVerdict{}, fmt.Errorf("%w: %s", ErrNoBaselineForCity, city)
	}

	st, ok := stats[live.Season]
	if !ok {
		return NormalityVerdict{}, fmt.Errorf("%w: %s in %s", ErrMissingBaseline, live.Season, city)
	}

	b := st.Bounds()
	if !b.Valid() {
		return NormalityVerdict{}, fmt.Errorf("%w: %s in %s has %d observation(s)",
			ErrInsufficientSamples, live.Season, city, st.Count)
	}

	return NormalityVerdict{
		City:        city,
		Season:      live.Season,
		Temperature: live.Temperature,
		Lower:       b.Lower,
		Upper:       b.Upper,
		IsNormal:    b.Contains(live.Temperature),
	}, nil
}
