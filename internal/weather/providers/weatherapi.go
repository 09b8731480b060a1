package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, maxRetries int) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/current.json",
		httpCfg: newHTTPConfig(client, maxRetries),
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchCurrent(ctx context.Context, city string) (weather.Reading, error) {
	if p.apiKey == "" {
		return weather.Reading{}, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", city)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Reading{}, err
	}
	defer resp.Body.Close()

	// last_updated_epoch is when the station reported, not when we asked.
	var payload struct {
		Current struct {
			TempC            *float64 `json:"temp_c"`
			LastUpdatedEpoch int64    `json:"last_updated_epoch"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Reading{}, err
	}
	if payload.Current.TempC == nil {
		return weather.Reading{}, fmt.Errorf("weatherapi response has no current.temp_c")
	}
	if payload.Current.LastUpdatedEpoch == 0 {
		return weather.Reading{}, fmt.Errorf("weatherapi response has no current.last_updated_epoch")
	}

	return weather.Reading{
		ProviderName: p.name,
		Temperature:  *payload.Current.TempC,
		ObservedAt:   time.Unix(payload.Current.LastUpdatedEpoch, 0).UTC(),
	}, nil
}
