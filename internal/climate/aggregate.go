package climate

import (
	"math"
	"sort"
)

// Aggregate groups the observations of one city by season and computes the
// mean, sample standard deviation (n-1) and count for each season present.
// Rows are matched on exact city equality. When nothing matches, the returned
// Baseline is empty; callers must treat that as "no baseline available".
func Aggregate(obs []Observation, city string) Baseline {
	groups := make(map[Season][]float64)
	for _, o := range obs {
		if o.City != city {
			continue
		}
		season := o.SeasonLabel()
		groups[season] = append(groups[season], o.Temperature)
	}

	baseline := make(Baseline, len(groups))
	for season, values := range groups {
		mean, std := meanStd(values)
		baseline[season] = SeasonalStats{
			Season: season,
			Mean:   mean,
			Std:    std,
			Count:  len(values),
		}
	}
	return baseline
}

// Ordered returns the baseline's records in season display order.
func (b Baseline) Ordered() []SeasonalStats {
	out := make([]SeasonalStats, 0, len(b))
	for _, season := range Seasons() {
		if st, ok := b[season]; ok {
			out = append(out, st)
		}
	}
	return out
}

// Cities lists the distinct cities in order of first appearance.
func Cities(obs []Observation) []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, o := range obs {
		if _, ok := seen[o.City]; ok {
			continue
		}
		seen[o.City] = struct{}{}
		cities = append(cities, o.City)
	}
	return cities
}

// Summary holds descriptive statistics of a sample. Quantiles use linear
// interpolation between closest ranks.
type Summary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Describe computes descriptive statistics for values. An empty sample
// yields Count 0 and NaN everywhere else.
func Describe(values []float64) Summary {
	nan := math.NaN()
	if len(values) == 0 {
		return Summary{Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := meanStd(values)
	return Summary{
		Count: len(values),
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		P25:   quantile(sorted, 0.25),
		P50:   quantile(sorted, 0.50),
		P75:   quantile(sorted, 0.75),
		Max:   sorted[len(sorted)-1],
	}
}

func meanStd(values []float64) (float64, float64) {
	n := float64(len(values))

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	if len(values) < 2 {
		return mean, math.NaN()
	}

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / (n - 1))
}

// quantile expects sorted, non-empty input.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
