package climate

import "fmt"

// Detection holds the per-point outputs of Detect, index-aligned with the
// input series. Raw values stay on the series itself so the presentation
// layer can pick any combination of raw, smoothed and anomaly layers.
type Detection struct {
	Smoothed  []NullFloat
	Anomalies []bool
}

// Detect smooths a city's series with a centered rolling mean and flags every
// point outside its season's Mean ± 2·Std band.
//
// The series must already be sorted by timestamp ascending. Points whose
// season is missing from stats, or whose bounds are NaN, are never flagged.
func Detect(series []Observation, window int, stats Baseline) (Detection, error) {
	if window < 1 {
		return Detection{}, fmt.Errorf("%w: got %d", ErrInvalidWindow, window)
	}

	values := make([]float64, len(series))
	for i, o := range series {
		values[i] = o.Temperature
	}

	anomalies := make([]bool, len(series))
	for i, o := range series {
		st, ok := stats[o.SeasonLabel()]
		if !ok {
			continue
		}
		b := st.Bounds()
		if !b.Valid() {
			continue
		}
		anomalies[i] = o.Temperature < b.Lower || o.Temperature > b.Upper
	}

	return Detection{
		Smoothed:  RollingMean(values, window),
		Anomalies: anomalies,
	}, nil
}

// RollingMean computes a centered moving average. For window w, point i
// averages values[i-w/2 .. i+(w-1)/2]; points whose window would leave the
// series are undefined. A window below 1 leaves every point undefined.
func RollingMean(values []float64, window int) []NullFloat {
	out := make([]NullFloat, len(values))
	if window < 1 || window > len(values) {
		return out
	}

	left := window / 2
	right := (window - 1) / 2

	for i := left; i+right < len(values); i++ {
		var sum float64
		for _, v := range values[i-left : i+right+1] {
			sum += v
		}
		out[i] = NullFloat{Float64: sum / float64(window), Valid: true}
	}
	return out
}
