package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// Live provider selection and credentials.
	LiveProvider       string
	OpenWeatherAPIKey  string
	WeatherAPIKey      string
	GeocoderAPIKey     string
	ProviderMaxRetries int

	// HistoricalCSV is imported at startup and used as the monitor baseline.
	HistoricalCSV string

	// Live monitor.
	MonitorCities   []string
	MonitorInterval time.Duration

	// Dataset storage: "memory" or "sqlite".
	StoreBackend     string
	SQLitePath       string
	StoreMaxDatasets int // 0 = unlimited, memory backend only

	// Monitor history retention.
	StoreMaxHistory int           // max number of records per city (0 = unlimited)
	StoreMaxAge     time.Duration // max age of records (0 = unlimited)

	// DefaultWindow is the rolling-mean window used when a request omits one.
	DefaultWindow int
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}
	var err error

	cfg.Port = getenvDefault("PORT", "8080")
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.LiveProvider = strings.ToLower(getenvDefault("LIVE_PROVIDER", "openweather"))
	switch cfg.LiveProvider {
	case "openweather", "weatherapi", "openmeteo":
	default:
		return nil, fmt.Errorf("invalid LIVE_PROVIDER: %q", cfg.LiveProvider)
	}
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.ProviderMaxRetries = getenvInt("PROVIDER_MAX_RETRIES", 2)

	cfg.HistoricalCSV = os.Getenv("HISTORICAL_CSV")

	cfg.MonitorCities = splitList(os.Getenv("MONITOR_CITIES"))
	// Monitor interval: default 15 minutes.
	if cfg.MonitorInterval, err = getenvDuration("MONITOR_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.StoreBackend = strings.ToLower(getenvDefault("STORE_BACKEND", "memory"))
	switch cfg.StoreBackend {
	case "memory", "sqlite":
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q", cfg.StoreBackend)
	}
	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "baseline.db")
	cfg.StoreMaxDatasets = getenvInt("STORE_MAX_DATASETS", 20)

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.DefaultWindow = getenvInt("DEFAULT_WINDOW", 30)
	if cfg.DefaultWindow < 1 {
		return nil, fmt.Errorf("invalid DEFAULT_WINDOW: must be at least 1")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
