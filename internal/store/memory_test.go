package store

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

func record(city string, at time.Time, outcome weather.CheckOutcome) weather.CheckRecord {
	return weather.CheckRecord{City: city, CheckedAt: at, Outcome: outcome}
}

func TestMemoryCheckStore_LatestAndRange(t *testing.T) {
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemoryCheckStore(0, 0, clockwork.NewFakeClockAt(base))

	_, err := s.GetLatest("Berlin")
	require.ErrorIs(t, err, ErrNotFound)

	s.SaveCheck(record("Berlin", base, weather.OutcomeNormal))
	s.SaveCheck(record("Berlin", base.Add(time.Hour), weather.OutcomeAbnormal))
	s.SaveCheck(record("Berlin", base.Add(2*time.Hour), weather.OutcomeNormal))
	s.SaveCheck(record("Oslo", base, weather.OutcomeProviderError))

	latest, err := s.GetLatest("Berlin")
	require.NoError(t, err)
	assert.Equal(t, base.Add(2*time.Hour), latest.CheckedAt)

	got, err := s.GetRange("Berlin", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, weather.OutcomeAbnormal, got[1].Outcome)

	_, err = s.GetRange("Berlin", base.Add(3*time.Hour), base.Add(4*time.Hour))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCheckStore_RetentionByCount(t *testing.T) {
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	s := NewMemoryCheckStore(2, 0, clockwork.NewFakeClockAt(base))

	for i := 0; i < 5; i++ {
		s.SaveCheck(record("Rome", base.Add(time.Duration(i)*time.Minute), weather.OutcomeNormal))
	}

	got, err := s.GetRange("Rome", base, base.Add(time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, base.Add(3*time.Minute), got[0].CheckedAt)
}

func TestMemoryCheckStore_RetentionByAge(t *testing.T) {
	base := time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	clk := clockwork.NewFakeClockAt(base)
	s := NewMemoryCheckStore(0, time.Hour, clk)

	s.SaveCheck(record("Rome", base, weather.OutcomeNormal))
	clk.Advance(90 * time.Minute)
	s.SaveCheck(record("Rome", clk.Now(), weather.OutcomeAbnormal))

	got, err := s.GetRange("Rome", base, clk.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, weather.OutcomeAbnormal, got[0].Outcome)
}

func TestMemoryDatasetStore_EvictsOldest(t *testing.T) {
	s := NewMemoryDatasetStore(2)

	require.NoError(t, s.SaveDataset(weather.Dataset{ID: "a"}))
	require.NoError(t, s.SaveDataset(weather.Dataset{ID: "b"}))
	require.NoError(t, s.SaveDataset(weather.Dataset{ID: "c"}))

	_, err := s.GetDataset("a")
	require.ErrorIs(t, err, ErrNotFound)

	list, err := s.ListDatasets()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "c", list[1].ID)
}

func TestMemoryDatasetStore_ReplaceKeepsPosition(t *testing.T) {
	s := NewMemoryDatasetStore(0)
	require.NoError(t, s.SaveDataset(weather.Dataset{ID: "a", Name: "old"}))
	require.NoError(t, s.SaveDataset(weather.Dataset{ID: "b"}))
	require.NoError(t, s.SaveDataset(weather.Dataset{ID: "a", Name: "new"}))

	list, err := s.ListDatasets()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Name)
}
