package climate

import (
	"encoding/json"
	"math"
	"sort"
	"time"
)

// Observation is a single historical temperature reading for a city.
// Season may be left empty, in which case it is derived from Timestamp.
type Observation struct {
	City        string    `json:"city"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Temperature float64   `json:"temperatureC"`
	Season      Season    `json:"season,omitempty"`
}

// SeasonLabel returns the row's season, deriving it from the timestamp when absent.
func (o Observation) SeasonLabel() Season {
	if o.Season != "" {
		return o.Season
	}
	return SeasonOf(o.Timestamp)
}

// SortByTime orders a series by timestamp ascending, keeping the relative
// order of equal timestamps.
func SortByTime(series []Observation) {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
}

// FilterCity returns the observations whose city equals city exactly.
func FilterCity(obs []Observation, city string) []Observation {
	var out []Observation
	for _, o := range obs {
		if o.City == city {
			out = append(out, o)
		}
	}
	return out
}

// SeasonalStats summarises one city's temperatures for one season.
// Std is NaN when Count is 1.
type SeasonalStats struct {
	Season Season
	Mean   float64
	Std    float64
	Count  int
}

// Baseline maps each season present in a city's history to its statistics.
// An empty Baseline means no history is available for the city.
type Baseline map[Season]SeasonalStats

// Bounds is the normal band of a season, Mean ± 2·Std.
type Bounds struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Bounds derives the anomaly band for the season.
func (s SeasonalStats) Bounds() Bounds {
	return Bounds{
		Lower: s.Mean - 2*s.Std,
		Upper: s.Mean + 2*s.Std,
	}
}

// CI95 is the half-width of the 95% confidence interval of the seasonal mean.
// Display only; never used for classification.
func (s SeasonalStats) CI95() float64 {
	return 1.96 * s.Std / math.Sqrt(float64(s.Count))
}

// Valid reports whether both bounds are defined numbers.
func (b Bounds) Valid() bool {
	return !math.IsNaN(b.Lower) && !math.IsNaN(b.Upper)
}

// Contains reports whether t lies inside the band, both ends inclusive.
func (b Bounds) Contains(t float64) bool {
	return b.Lower <= t && t <= b.Upper
}

// LiveReading is an already-resolved current temperature for a city.
type LiveReading struct {
	Temperature float64 `json:"temperatureC"`
	Season      Season  `json:"season"`
}

// NormalityVerdict is the outcome of checking a live reading against a baseline.
type NormalityVerdict struct {
	City        string  `json:"city"`
	Season      Season  `json:"season"`
	Temperature float64 `json:"temperatureC"`
	Lower       float64 `json:"lower"`
	Upper       float64 `json:"upper"`
	IsNormal    bool    `json:"isNormal"`
}

// NullFloat is a float64 that may be undefined. It encodes as JSON null when
// not Valid.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// NullFloatOf wraps v, treating NaN as undefined.
func NullFloatOf(v float64) NullFloat {
	if math.IsNaN(v) {
		return NullFloat{}
	}
	return NullFloat{Float64: v, Valid: true}
}

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(data, &n.Float64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}
