package climate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func berlinBaseline() Baseline {
	return Baseline{Winter: {Season: Winter, Mean: 2.0, Std: 3.0, Count: 50}}
}

func TestCheck_BerlinColdReadingIsAbnormal(t *testing.T) {
	v, err := Check("Berlin", LiveReading{Temperature: -5.0, Season: Winter}, berlinBaseline())
	require.NoError(t, err)
	assert.InDelta(t, -4.0, v.Lower, 1e-12)
	assert.InDelta(t, 8.0, v.Upper, 1e-12)
	assert.False(t, v.IsNormal)
	assert.Equal(t, "Berlin", v.City)
	assert.Equal(t, Winter, v.Season)
	assert.Equal(t, -5.0, v.Temperature)
}

func TestCheck_BerlinMildReadingIsNormal(t *testing.T) {
	v, err := Check("Berlin", LiveReading{Temperature: 4.0, Season: Winter}, berlinBaseline())
	require.NoError(t, err)
	assert.True(t, v.IsNormal)
}

func TestCheck_InclusiveBounds(t *testing.T) {
	stats := Baseline{Summer: {Season: Summer, Mean: 20, Std: 2, Count: 10}}

	upper, err := Check("Rome", LiveReading{Temperature: 24, Season: Summer}, stats)
	require.NoError(t, err)
	assert.True(t, upper.IsNormal)

	lower, err := Check("Rome", LiveReading{Temperature: 16, Season: Summer}, stats)
	require.NoError(t, err)
	assert.True(t, lower.IsNormal)
}

func TestCheck_NoBaselineForCity(t *testing.T) {
	_, err := Check("Atlantis", LiveReading{Temperature: 10, Season: Spring}, Baseline{})
	require.ErrorIs(t, err, ErrNoBaselineForCity)

	_, err = Check("Atlantis", LiveReading{Temperature: 10, Season: Spring}, nil)
	require.ErrorIs(t, err, ErrNoBaselineForCity)
}

func TestCheck_MissingSeason(t *testing.T) {
	_, err := Check("Berlin", LiveReading{Temperature: 10, Season: Summer}, berlinBaseline())
	require.ErrorIs(t, err, ErrMissingBaseline)
	assert.NotErrorIs(t, err, ErrNoBaselineForCity)
}

func TestCheck_SingleSampleIsIndeterminate(t *testing.T) {
	stats := Baseline{Autumn: {Season: Autumn, Mean: 10, Std: math.NaN(), Count: 1}}
	_, err := Check("Oslo", LiveReading{Temperature: 10, Season: Autumn}, stats)
	require.ErrorIs(t, err, ErrInsufficientSamples)
}
