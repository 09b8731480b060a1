package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "openweather", cfg.LiveProvider)
	assert.Equal(t, 2, cfg.ProviderMaxRetries)
	assert.Empty(t, cfg.MonitorCities)
	assert.Equal(t, 15*time.Minute, cfg.MonitorInterval)
	assert.Equal(t, "memory", cfg.StoreBackend)
	assert.Equal(t, "baseline.db", cfg.SQLitePath)
	assert.Equal(t, 20, cfg.StoreMaxDatasets)
	assert.Equal(t, 96, cfg.StoreMaxHistory)
	assert.Equal(t, 24*time.Hour, cfg.StoreMaxAge)
	assert.Equal(t, 30, cfg.DefaultWindow)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LIVE_PROVIDER", "WeatherAPI")
	t.Setenv("WEATHERAPI_API_KEY", "wk")
	t.Setenv("HISTORICAL_CSV", "data/temperature_data.csv")
	t.Setenv("MONITOR_CITIES", "Berlin, Cairo ,,Tokyo")
	t.Setenv("MONITOR_INTERVAL", "5m")
	t.Setenv("STORE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("DEFAULT_WINDOW", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "weatherapi", cfg.LiveProvider)
	assert.Equal(t, "wk", cfg.WeatherAPIKey)
	assert.Equal(t, "data/temperature_data.csv", cfg.HistoricalCSV)
	assert.Equal(t, []string{"Berlin", "Cairo", "Tokyo"}, cfg.MonitorCities)
	assert.Equal(t, 5*time.Minute, cfg.MonitorInterval)
	assert.Equal(t, "sqlite", cfg.StoreBackend)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, 7, cfg.DefaultWindow)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"MONITOR_INTERVAL": "soon",
		"STORE_MAX_AGE":    "forever",
		"HTTP_TIMEOUT":     "10",
		"LIVE_PROVIDER":    "accuweather",
		"STORE_BACKEND":    "redis",
		"DEFAULT_WINDOW":   "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
