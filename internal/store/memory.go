package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given key.
	ErrNotFound = errors.New("not found")
)

// CheckHistory holds a time-ordered list of monitor records for a city.
type CheckHistory struct {
	Records []weather.CheckRecord
}

// MemoryCheckStore is a concurrency-safe in-memory history of live checks.
type MemoryCheckStore struct {
	mu sync.RWMutex

	// key: city, value: history
	data map[string]*CheckHistory

	// retention configuration
	maxHistory int           // max number of records per city
	maxAge     time.Duration // optional max age for records

	clock clockwork.Clock
}

// NewMemoryCheckStore creates a new MemoryCheckStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited. A nil clock uses real time.
func NewMemoryCheckStore(maxHistory int, maxAge time.Duration, clock clockwork.Clock) *MemoryCheckStore {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &MemoryCheckStore{
		data:       make(map[string]*CheckHistory),
		maxHistory: maxHistory,
		maxAge:     maxAge,
		clock:      clock,
	}
}

// SaveCheck appends a record for its city and enforces retention.
func (s *MemoryCheckStore) SaveCheck(rec weather.CheckRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.data[rec.City]
	if !ok {
		history = &CheckHistory{}
		s.data[rec.City] = history
	}

	history.Records = append(history.Records, rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.Records) > s.maxHistory {
		over := len(history.Records) - s.maxHistory
		history.Records = history.Records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := s.clock.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.Records); i++ {
			if !history.Records[i].CheckedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history.Records = history.Records[i:]
		}
	}
}

// GetLatest returns the most recent record for a city.
func (s *MemoryCheckStore) GetLatest(city string) (weather.CheckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Records) == 0 {
		return weather.CheckRecord{}, ErrNotFound
	}
	return history.Records[len(history.Records)-1], nil
}

// GetRange returns all records for a city between from and to (inclusive).
func (s *MemoryCheckStore) GetRange(city string, from, to time.Time) ([]weather.CheckRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.data[city]
	if !ok || len(history.Records) == 0 {
		return nil, ErrNotFound
	}

	var result []weather.CheckRecord
	for _, rec := range history.Records {
		if !rec.CheckedAt.Before(from) && !rec.CheckedAt.After(to) {
			result = append(result, rec)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	return result, nil
}

// MemoryDatasetStore keeps uploaded datasets in memory, evicting the oldest
// once more than maxDatasets are held.
type MemoryDatasetStore struct {
	mu sync.RWMutex

	data  map[string]weather.Dataset
	order []string // insertion order, oldest first

	maxDatasets int // 0 = unlimited
}

// NewMemoryDatasetStore creates a new MemoryDatasetStore.
func NewMemoryDatasetStore(maxDatasets int) *MemoryDatasetStore {
	return &MemoryDatasetStore{
		data:        make(map[string]weather.Dataset),
		maxDatasets: maxDatasets,
	}
}

// SaveDataset stores ds, replacing any dataset with the same ID.
func (s *MemoryDatasetStore) SaveDataset(ds weather.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[ds.ID]; !exists {
		s.order = append(s.order, ds.ID)
	}
	s.data[ds.ID] = ds

	for s.maxDatasets > 0 && len(s.order) > s.maxDatasets {
		delete(s.data, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

// GetDataset returns a stored dataset by ID.
func (s *MemoryDatasetStore) GetDataset(id string) (weather.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ds, ok := s.data[id]
	if !ok {
		return weather.Dataset{}, ErrNotFound
	}
	return ds, nil
}

// ListDatasets returns all stored datasets, oldest first.
func (s *MemoryDatasetStore) ListDatasets() ([]weather.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]weather.Dataset, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.data[id])
	}
	return out, nil
}
