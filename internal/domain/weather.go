// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"fmt"
	"time"
)

// Location is a geocoded place candidate returned by a location search.
// It is consumed immediately to fetch weather and never persisted.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	State     string  `json:"state,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// DisplayName formats the location for presentation, including the
// state/province when present.
func (l Location) DisplayName() string {
	if l.State != "" {
		return fmt.Sprintf("%s, %s, %s", l.Name, l.State, l.Country)
	}
	return fmt.Sprintf("%s, %s", l.Name, l.Country)
}

// WeatherCondition is the provider's categorized condition for one reading.
type WeatherCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	IconCode    string `json:"iconCode"`
}

// IconURL returns the provider-hosted icon image for this condition.
func (c WeatherCondition) IconURL() string {
	return fmt.Sprintf("https://openweathermap.org/img/wn/%s@2x.png", c.IconCode)
}

// CurrentWeather is a snapshot of conditions at one location at one instant.
// Temperatures are canonical Kelvin; Celsius and Fahrenheit are derived at
// the display boundary and never stored.
type CurrentWeather struct {
	LocationName      string
	Country           string
	Latitude          float64
	Longitude         float64
	TemperatureKelvin float64
	FeelsLikeKelvin   float64
	TempMinKelvin     float64
	TempMaxKelvin     float64
	Humidity          int
	Pressure          int
	Visibility        int
	WindSpeed         float64
	WindDeg           int
	Clouds            int
	Condition         WeatherCondition
	Sunrise           time.Time
	Sunset            time.Time
	Timestamp         time.Time
}

// ForecastItem is one 3-hour forecast time slot.
type ForecastItem struct {
	Timestamp         time.Time
	TemperatureKelvin float64
	FeelsLikeKelvin   float64
	TempMinKelvin     float64
	TempMaxKelvin     float64
	Humidity          int
	Pressure          int
	WindSpeed         float64
	WindDeg           int
	Clouds            int
	Condition         WeatherCondition
	PrecipProbability float64
}

// Forecast is the ordered sequence of forecast slots for one location,
// chronological as returned by the provider.
type Forecast struct {
	LocationName string
	Country      string
	Latitude     float64
	Longitude    float64
	Items        []ForecastItem
}

// WeatherProvider is the port to the external weather data service.
// SearchLocations is best-effort and returns an empty slice instead of an
// error: suggestions are non-critical and failures there are swallowed.
type WeatherProvider interface {
	SearchLocations(ctx context.Context, query string, limit int) []Location
	CurrentByCoords(ctx context.Context, lat, lon float64) (*CurrentWeather, error)
	CurrentByName(ctx context.Context, location string) (*CurrentWeather, error)
	ForecastByCoords(ctx context.Context, lat, lon float64) (*Forecast, error)
	ForecastByName(ctx context.Context, location string) (*Forecast, error)
}
