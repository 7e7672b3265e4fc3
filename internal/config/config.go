// Package config reads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the binary needs to start.
type Config struct {
	// OpenWeatherAPIKey authenticates calls to openweathermap.org.
	OpenWeatherAPIKey string

	// WeatherBaseURL and GeoBaseURL override the provider endpoints,
	// mainly for tests.
	WeatherBaseURL string
	GeoBaseURL     string

	// WeatherTimeout bounds each outbound provider request.
	WeatherTimeout time.Duration

	// DatabaseURL selects the record store: a postgres:// URL, a SQLite
	// file path, or empty for the in-memory store.
	DatabaseURL string

	Addr string
}

// Load reads configuration from a .env file (if present) and the
// environment. The API key is the only required setting.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		WeatherBaseURL:    os.Getenv("WEATHER_BASE_URL"),
		GeoBaseURL:        os.Getenv("GEO_BASE_URL"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		Addr:              getenvDefault("ADDR", ":8080"),
	}
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}

	timeoutStr := getenvDefault("WEATHER_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_TIMEOUT: %w", err)
	}
	cfg.WeatherTimeout = timeout

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
