package weather

import (
	"context"
	"time"
)

// Reading is a provider's current temperature for a city. ObservedAt is the
// provider's own observation time, which may lag the moment of the request.
type Reading struct {
	ProviderName string    `json:"provider"`
	Temperature  float64   `json:"temperatureC"`
	ObservedAt   time.Time `json:"observedAt"` // always UTC
}

// Provider abstracts a live weather source (e.g. OpenWeatherMap, WeatherAPI, Open-Meteo).
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, city string) (Reading, error)
}

// ProviderError is a non-success response from a live provider. Error
// returns the provider's response text unchanged.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

// DatasetStore keeps uploaded historical datasets (raw observations only).
type DatasetStore interface {
	SaveDataset(ds Dataset) error
	GetDataset(id string) (Dataset, error)
	ListDatasets() ([]Dataset, error)
}

// CheckStore keeps the live monitor history per city.
type CheckStore interface {
	SaveCheck(rec CheckRecord)
	GetLatest(city string) (CheckRecord, error)
	GetRange(city string, from, to time.Time) ([]CheckRecord, error)
}
