package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/i474232898/seasonal-baseline/internal/weather"
)

// Settings selects and configures the live provider.
type Settings struct {
	Name              string
	OpenWeatherAPIKey string
	WeatherAPIKey     string
	GeocoderAPIKey    string
	MaxRetries        int
}

// New builds the live provider named in s.
func New(client *http.Client, s Settings) (weather.Provider, error) {
	switch strings.ToLower(strings.TrimSpace(s.Name)) {
	case "", "openweather", "openweathermap":
		return NewOpenWeatherProvider(client, s.OpenWeatherAPIKey, s.MaxRetries), nil
	case "weatherapi":
		return NewWeatherAPIProvider(client, s.WeatherAPIKey, s.MaxRetries), nil
	case "openmeteo":
		return NewOpenMeteoProvider(client, s.GeocoderAPIKey, s.MaxRetries), nil
	default:
		return nil, fmt.Errorf("unknown live provider %q", s.Name)
	}
}
