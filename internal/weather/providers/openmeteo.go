package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

// openMeteoTimeLayout is the ISO-8601 minute form Open-Meteo reports in GMT.
const openMeteoTimeLayout = "2006-01-02T15:04"

type coordinates struct {
	Lat float64
	Lon float64
}

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
// Open-Meteo is keyed by coordinates, so city names are resolved through the
// Google Geocoding API first and cached for the life of the provider.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	geocode func(city string) (coordinates, error)

	mu    sync.Mutex
	cache map[string]coordinates
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string, maxRetries int) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: newHTTPConfig(client, maxRetries),
		circuit: newCircuitBreaker("openmeteo"),
		geocode: googleGeocode,
		cache:   make(map[string]coordinates),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) FetchCurrent(ctx context.Context, city string) (weather.Reading, error) {
	loc, err := p.resolve(city)
	if err != nil {
		return weather.Reading{}, err
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
		values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
		values.Set("current_weather", "true")
		values.Set("timezone", "GMT")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature *float64 `json:"temperature"`
			Time        string   `json:"time"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, err
	}
	if payload.CurrentWeather.Temperature == nil {
		return weather.Reading{}, fmt.Errorf("openmeteo response has no current_weather.temperature")
	}

	ts, err := parseOpenMeteoTime(payload.CurrentWeather.Time)
	if err != nil {
		return weather.Reading{}, err
	}

	return weather.Reading{
		ProviderName: p.name,
		Temperature:  *payload.CurrentWeather.Temperature,
		ObservedAt:   ts,
	}, nil
}

func (p *OpenMeteoProvider) resolve(city string) (coordinates, error) {
	p.mu.Lock()
	loc, ok := p.cache[city]
	p.mu.Unlock()
	if ok {
		return loc, nil
	}

	loc, err := p.geocode(city)
	if err != nil {
		return coordinates{}, fmt.Errorf("geocode %q: %w", city, err)
	}

	p.mu.Lock()
	p.cache[city] = loc
	p.mu.Unlock()
	return loc, nil
}

func googleGeocode(city string) (coordinates, error) {
	if geocoder.ApiKey == "" {
		return coordinates{}, fmt.Errorf("geocoder api key is not configured")
	}
	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return coordinates{}, err
	}
	return coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}

func parseOpenMeteoTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.ParseInLocation(openMeteoTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("openmeteo response has invalid time %q", s)
	}
	return ts, nil
}
