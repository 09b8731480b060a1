package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

func fastBackoff(cfg *HTTPClientConfig) {
	cfg.Backoff.InitialInterval = time.Millisecond
	cfg.Backoff.MaxInterval = 2 * time.Millisecond
}

func TestOpenWeather_FetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Berlin", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		// 2024-02-29T23:30:00Z: still winter in UTC.
		fmt.Fprint(w, `{"dt":1709249400,"main":{"temp":-3.4}}`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "secret", 0)
	p.baseURL = srv.URL

	r, err := p.FetchCurrent(context.Background(), "Berlin")
	require.NoError(t, err)
	assert.Equal(t, "openweathermap", r.ProviderName)
	assert.Equal(t, -3.4, r.Temperature)
	assert.Equal(t, time.Date(2024, time.February, 29, 23, 30, 0, 0, time.UTC), r.ObservedAt)
}

func TestOpenWeather_ErrorTextVerbatimAndNotRetried(t *testing.T) {
	var calls int32
	body := `{"cod":401, "message": "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info."}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "bad", 3)
	p.baseURL = srv.URL
	fastBackoff(&p.httpCfg)

	_, err := p.FetchCurrent(context.Background(), "Berlin")
	require.Error(t, err)

	var perr *weather.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, http.StatusUnauthorized, perr.StatusCode)
	assert.Equal(t, body, err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOpenWeather_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"dt":1700000000,"main":{"temp":11}}`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "key", 3)
	p.baseURL = srv.URL
	fastBackoff(&p.httpCfg)

	r, err := p.FetchCurrent(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 11.0, r.Temperature)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestOpenWeather_EmptyErrorBodyUsesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "key", 0)
	p.baseURL = srv.URL

	_, err := p.FetchCurrent(context.Background(), "Nowhere")
	require.Error(t, err)
	assert.Equal(t, "404 Not Found", err.Error())
}

func TestOpenWeather_MissingDt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"main":{"temp":11}}`)
	}))
	defer srv.Close()

	p := NewOpenWeatherProvider(srv.Client(), "key", 0)
	p.baseURL = srv.URL

	_, err := p.FetchCurrent(context.Background(), "Paris")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dt")
}

func TestOpenWeather_RequiresAPIKey(t *testing.T) {
	p := NewOpenWeatherProvider(http.DefaultClient, "", 0)
	_, err := p.FetchCurrent(context.Background(), "Paris")
	require.Error(t, err)
}

func TestWeatherAPI_FetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Cairo", r.URL.Query().Get("q"))
		fmt.Fprint(w, `{"location":{"localtime_epoch":1719792000},"current":{"temp_c":35.5,"last_updated_epoch":1719791100}}`)
	}))
	defer srv.Close()

	p := NewWeatherAPIProvider(srv.Client(), "key", 0)
	p.baseURL = srv.URL

	r, err := p.FetchCurrent(context.Background(), "Cairo")
	require.NoError(t, err)
	assert.Equal(t, 35.5, r.Temperature)
	assert.Equal(t, time.Unix(1719791100, 0).UTC(), r.ObservedAt)
}

func TestOpenMeteo_FetchCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "52.520000", r.URL.Query().Get("latitude"))
		assert.Equal(t, "13.405000", r.URL.Query().Get("longitude"))
		fmt.Fprint(w, `{"current_weather":{"temperature":17.2,"time":"2024-06-01T12:00"}}`)
	}))
	defer srv.Close()

	var lookups int
	p := NewOpenMeteoProvider(srv.Client(), "", 0)
	p.baseURL = srv.URL
	p.geocode = func(city string) (coordinates, error) {
		lookups++
		return coordinates{Lat: 52.52, Lon: 13.405}, nil
	}

	for i := 0; i < 2; i++ {
		r, err := p.FetchCurrent(context.Background(), "Berlin")
		require.NoError(t, err)
		assert.Equal(t, 17.2, r.Temperature)
		assert.Equal(t, time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC), r.ObservedAt)
	}
	assert.Equal(t, 1, lookups, "geocode result should be cached")
}

func TestOpenMeteo_GeocodeFailure(t *testing.T) {
	p := NewOpenMeteoProvider(http.DefaultClient, "", 0)
	p.geocode = func(string) (coordinates, error) { return coordinates{}, errors.New("ZERO_RESULTS") }

	_, err := p.FetchCurrent(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ZERO_RESULTS")
}

func TestNew_SelectsProvider(t *testing.T) {
	p, err := New(http.DefaultClient, Settings{})
	require.NoError(t, err)
	assert.Equal(t, "openweathermap", p.Name())

	p, err = New(http.DefaultClient, Settings{Name: "WeatherAPI"})
	require.NoError(t, err)
	assert.Equal(t, "weatherapi", p.Name())

	p, err = New(http.DefaultClient, Settings{Name: "openmeteo"})
	require.NoError(t, err)
	assert.Equal(t, "openmeteo", p.Name())

	_, err = New(http.DefaultClient, Settings{Name: "accuweather"})
	require.Error(t, err)
}
