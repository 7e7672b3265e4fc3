// Package app holds the application services and business logic.
package app

import "weatherlog/internal/domain"

// Layouts for the user-facing date and timestamp encodings.
const (
	dateLayout        = "2006-01-02"
	timestampLayout   = "2006-01-02 15:04:05"
	displayTimeLayout = "2006-01-02 15:04"
)

// Suggestion is a location candidate ready for display.
type Suggestion struct {
	domain.Location
	DisplayName string `json:"displayName"`
}

// WeatherView is the display form of the current conditions. Kelvin fields
// are the canonical values carried through to a saved record; the Celsius
// fields and display strings are derived, rounded to 1 decimal.
type WeatherView struct {
	LocationDisplay    string  `json:"locationDisplay"`
	Latitude           float64 `json:"latitude"`
	Longitude          float64 `json:"longitude"`
	TemperatureKelvin  float64 `json:"temperatureKelvin"`
	FeelsLikeKelvin    float64 `json:"feelsLikeKelvin"`
	TemperatureC       float64 `json:"temperatureC"`
	FeelsLikeC         float64 `json:"feelsLikeC"`
	Humidity           int     `json:"humidity"`
	WindSpeed          float64 `json:"windSpeed"`
	Description        string  `json:"description"`
	IconCode           string  `json:"iconCode"`
	IconURL            string  `json:"iconUrl"`
	TemperatureDisplay string  `json:"temperatureDisplay"`
	FeelsLikeDisplay   string  `json:"feelsLikeDisplay"`
}

// RecordView is a saved record formatted for display.
type RecordView struct {
	ID           int64   `json:"id"`
	LocationName string  `json:"locationName"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DateFrom     string  `json:"dateFrom"`
	DateTo       string  `json:"dateTo"`
	TemperatureC float64 `json:"temperatureC"`
	Humidity     int     `json:"humidity"`
	Description  string  `json:"description"`
	IconCode     string  `json:"iconCode"`
	WindSpeed    float64 `json:"windSpeed"`
	CreatedAt    string  `json:"createdAt"`
}

// EditForm holds the editable copies of a record while an edit is in
// progress. Empty fields mean "leave unchanged".
type EditForm struct {
	RecordID     int64  `json:"recordId"`
	LocationName string `json:"locationName"`
	DateFrom     string `json:"dateFrom"`
	DateTo       string `json:"dateTo"`
	Description  string `json:"description"`
}

// Export is CSV content ready for download.
type Export struct {
	Filename string `json:"filename"`
	Data     string `json:"data"`
}

// State is an immutable snapshot of the session view-model. Every flow
// returns a fresh State; the presentation layer re-renders from the latest
// snapshot and never observes intermediate mutations.
type State struct {
	Query          string               `json:"query"`
	Suggestions    []Suggestion         `json:"suggestions"`
	SelectedName   string               `json:"selectedName"`
	HasWeather     bool                 `json:"hasWeather"`
	Weather        *WeatherView         `json:"weather"`
	ForecastDays   []domain.DailySummary `json:"forecastDays"`
	UseCelsius     bool                 `json:"useCelsius"`
	DateFrom       string               `json:"dateFrom"`
	DateTo         string               `json:"dateTo"`
	Records        []RecordView         `json:"records"`
	Editing        *EditForm            `json:"editing"`
	ErrorMessage   string               `json:"errorMessage"`
	SuccessMessage string               `json:"successMessage"`
}
