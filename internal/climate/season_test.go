package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonOf_AllMonths(t *testing.T) {
	want := map[time.Month]Season{
		time.January:   Winter,
		time.February:  Winter,
		time.March:     Spring,
		time.April:     Spring,
		time.May:       Spring,
		time.June:      Summer,
		time.July:      Summer,
		time.August:    Summer,
		time.September: Autumn,
		time.October:   Autumn,
		time.November:  Autumn,
		time.December:  Winter,
	}
	for m := time.January; m <= time.December; m++ {
		got := SeasonOf(time.Date(2021, m, 15, 12, 0, 0, 0, time.UTC))
		assert.Equal(t, want[m], got, "month %s", m)
		assert.True(t, got.Valid())
	}
}

func TestSeasonOf_IgnoresYearAndDay(t *testing.T) {
	assert.Equal(t, Winter, SeasonOf(time.Date(1999, time.February, 28, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Winter, SeasonOf(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, Spring, SeasonOf(time.Date(2030, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestSeasonOf_UsesUTCMonth(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 1 March 02:00 in Tokyo is still 28 February in UTC.
	ts := time.Date(2023, time.March, 1, 2, 0, 0, 0, tokyo)
	assert.Equal(t, Winter, SeasonOf(ts))
}

func TestParseSeason(t *testing.T) {
	s, err := ParseSeason(" Summer ")
	require.NoError(t, err)
	assert.Equal(t, Summer, s)

	_, err = ParseSeason("monsoon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monsoon")

	assert.False(t, Season("fall").Valid())
}
