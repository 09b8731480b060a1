package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/seasonal-baseline/internal/climate"
)

func TestLoadCSV_ParsesRows(t *testing.T) {
	input := `city,timestamp,temperature,season
New York,2010-01-01,-1.5,winter
Berlin,2010-07-02T12:00:00Z,24.25,summer
Cairo,2010-04-03 06:30:00,30,
`
	res, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 0, res.Dropped)
	require.Len(t, res.Observations, 3)

	first := res.Observations[0]
	assert.Equal(t, "New York", first.City)
	assert.Equal(t, time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC), first.Timestamp)
	assert.Equal(t, -1.5, first.Temperature)
	assert.Equal(t, climate.Winter, first.Season)

	assert.Equal(t, climate.Season(""), res.Observations[2].Season)
	assert.Equal(t, climate.Spring, res.Observations[2].SeasonLabel())
}

func TestLoadCSV_DropsMalformedRows(t *testing.T) {
	input := `city,timestamp,temperature
Berlin,2010-01-01,1.0
Berlin,not-a-date,2.0
Berlin,2010-01-03,warm
Berlin,2010-01-04,4.0
`
	res, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 2, res.Dropped)
	require.Len(t, res.Observations, 2)
	require.Len(t, res.Errors, 2)

	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Reason, "not-a-date")
	assert.Equal(t, 4, res.Errors[1].Line)
	assert.True(t, errors.Is(res.Errors[0], ErrMalformedObservation))
}

func TestLoadCSV_UnknownSeasonDropped(t *testing.T) {
	input := "city,timestamp,temperature,season\nLima,2010-01-01,20,monsoon\n"
	res, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)
	assert.Empty(t, res.Observations)
}

func TestLoadCSV_HeaderCaseInsensitive(t *testing.T) {
	input := "\ufeffCity, Timestamp ,TEMPERATURE\nOslo,2010-10-10,5\n"
	res, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Observations, 1)
	assert.Equal(t, "Oslo", res.Observations[0].City)
}

func TestLoadCSV_MissingColumn(t *testing.T) {
	_, err := LoadCSV(strings.NewReader("city,timestamp\nOslo,2010-10-10\n"))
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "temperature")
}

func TestLoadCSV_Empty(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2023, time.March, 1, 10, 0, 0, 0, time.UTC)

	ts, err := ParseTimestamp("2023-03-01T12:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, want, ts)

	ts, err = ParseTimestamp("1677664800")
	require.NoError(t, err)
	assert.Equal(t, want, ts)

	_, err = ParseTimestamp("yesterday")
	require.Error(t, err)
}

func TestLoadCSV_DropsNonFiniteTemperature(t *testing.T) {
	input := `city,timestamp,temperature
Berlin,2010-01-01,-1
Berlin,2010-01-02,NaN
Berlin,2010-01-03,inf
Berlin,2010-01-04,-Inf
Berlin,2010-01-05,5
`
	res, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 5, res.Total)
	assert.Equal(t, 3, res.Dropped)
	require.Len(t, res.Observations, 2)
	require.Len(t, res.Errors, 3)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.Contains(t, res.Errors[0].Reason, "non-finite")
	assert.ErrorIs(t, res.Errors[1], ErrMalformedObservation)

	stats := climate.Aggregate(res.Observations, "Berlin")[climate.Winter]
	assert.Equal(t, 2, stats.Count)
	assert.Equal(t, 2.0, stats.Mean)
	assert.True(t, stats.Bounds().Valid())
}

func TestParseTimestamp_CompactDate(t *testing.T) {
	ts, err := ParseTimestamp("20100115")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2010, time.January, 15, 0, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, climate.Winter, climate.SeasonOf(ts))
}
