package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_TIMEOUT", "")
	t.Setenv("ADDR", "")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenWeatherAPIKey != "test-key" {
		t.Errorf("api key = %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.WeatherTimeout != 10*time.Second {
		t.Errorf("timeout = %v", cfg.WeatherTimeout)
	}
}

func TestLoadMissingKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestLoadBadTimeout(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("WEATHER_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for bad timeout")
	}
}
