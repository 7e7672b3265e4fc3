package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"weatherlog/internal/adapter/memory"
	"weatherlog/internal/domain"
	"weatherlog/internal/openweather"
)

type mockProvider struct {
	searchFn         func(ctx context.Context, query string, limit int) []domain.Location
	currentCoordsFn  func(ctx context.Context, lat, lon float64) (*domain.CurrentWeather, error)
	currentNameFn    func(ctx context.Context, location string) (*domain.CurrentWeather, error)
	forecastCoordsFn func(ctx context.Context, lat, lon float64) (*domain.Forecast, error)
	forecastNameFn   func(ctx context.Context, location string) (*domain.Forecast, error)
}

func (m *mockProvider) SearchLocations(ctx context.Context, query string, limit int) []domain.Location {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil
}

func (m *mockProvider) CurrentByCoords(ctx context.Context, lat, lon float64) (*domain.CurrentWeather, error) {
	if m.currentCoordsFn != nil {
		return m.currentCoordsFn(ctx, lat, lon)
	}
	return sampleCurrent(), nil
}

func (m *mockProvider) CurrentByName(ctx context.Context, location string) (*domain.CurrentWeather, error) {
	if m.currentNameFn != nil {
		return m.currentNameFn(ctx, location)
	}
	return sampleCurrent(), nil
}

func (m *mockProvider) ForecastByCoords(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	if m.forecastCoordsFn != nil {
		return m.forecastCoordsFn(ctx, lat, lon)
	}
	return &domain.Forecast{}, nil
}

func (m *mockProvider) ForecastByName(ctx context.Context, location string) (*domain.Forecast, error) {
	if m.forecastNameFn != nil {
		return m.forecastNameFn(ctx, location)
	}
	return &domain.Forecast{}, nil
}

func sampleCurrent() *domain.CurrentWeather {
	return &domain.CurrentWeather{
		LocationName:      "London",
		Country:           "GB",
		Latitude:          51.5074,
		Longitude:         -0.1278,
		TemperatureKelvin: 288.15,
		FeelsLikeKelvin:   287.15,
		Humidity:          72,
		WindSpeed:         4.6,
		Condition:         domain.WeatherCondition{Description: "scattered clouds", IconCode: "03d"},
	}
}

var fixedNow = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

func newTestSession(provider domain.WeatherProvider) *Session {
	s := NewSession(provider, memory.New())
	s.now = func() time.Time { return fixedNow }
	return s
}

func london() domain.Location {
	return domain.Location{Name: "London", Country: "GB", Latitude: 51.5074, Longitude: -0.1278}
}

func TestSearchShortQuerySkipsProvider(t *testing.T) {
	called := false
	provider := &mockProvider{
		searchFn: func(_ context.Context, _ string, _ int) []domain.Location {
			called = true
			return nil
		},
	}
	s := newTestSession(provider)

	state := s.Search(context.Background(), " L ")
	if called {
		t.Error("provider called for a one-character query")
	}
	if len(state.Suggestions) != 0 {
		t.Errorf("expected no suggestions, got %d", len(state.Suggestions))
	}
}

func TestSearchSuggestions(t *testing.T) {
	provider := &mockProvider{
		searchFn: func(_ context.Context, query string, limit int) []domain.Location {
			if query != "Lond" {
				t.Errorf("query = %q", query)
			}
			if limit != 5 {
				t.Errorf("limit = %d", limit)
			}
			return []domain.Location{
				london(),
				{Name: "London", State: "Ontario", Country: "CA", Latitude: 42.98, Longitude: -81.24},
			}
		},
	}
	s := newTestSession(provider)

	state := s.Search(context.Background(), "Lond")
	if len(state.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(state.Suggestions))
	}
	if state.Suggestions[0].DisplayName != "London, GB" {
		t.Errorf("first = %q", state.Suggestions[0].DisplayName)
	}
	if state.Suggestions[1].DisplayName != "London, Ontario, CA" {
		t.Errorf("second = %q", state.Suggestions[1].DisplayName)
	}
}

func TestSelectPopulatesView(t *testing.T) {
	s := newTestSession(&mockProvider{})

	state := s.Select(context.Background(), london())
	if !state.HasWeather || state.Weather == nil {
		t.Fatal("expected weather view")
	}
	if state.Weather.LocationDisplay != "London, GB" {
		t.Errorf("location = %q", state.Weather.LocationDisplay)
	}
	if state.Weather.Description != "Scattered clouds" {
		t.Errorf("description = %q", state.Weather.Description)
	}
	if state.Weather.TemperatureC != 15.0 {
		t.Errorf("temperatureC = %v", state.Weather.TemperatureC)
	}
	if state.Weather.TemperatureDisplay != "15.0°C" {
		t.Errorf("display = %q", state.Weather.TemperatureDisplay)
	}
	if len(state.Suggestions) != 0 {
		t.Error("suggestions not cleared")
	}
	if state.DateFrom != "2025-06-15" || state.DateTo != "2025-06-15" {
		t.Errorf("default dates = %q..%q", state.DateFrom, state.DateTo)
	}
}

func TestSelectAPIError(t *testing.T) {
	provider := &mockProvider{
		currentCoordsFn: func(_ context.Context, _, _ float64) (*domain.CurrentWeather, error) {
			return nil, &openweather.APIError{StatusCode: 404, Message: "city not found"}
		},
	}
	s := newTestSession(provider)

	state := s.Select(context.Background(), london())
	if state.ErrorMessage != "Error 404: city not found" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
	if state.HasWeather || state.Weather != nil {
		t.Error("expected no weather after provider error")
	}
}

func TestSelectUnreachable(t *testing.T) {
	provider := &mockProvider{
		forecastCoordsFn: func(_ context.Context, _, _ float64) (*domain.Forecast, error) {
			return nil, fmt.Errorf("get forecast: %w", openweather.ErrUnreachable)
		},
	}
	s := newTestSession(provider)

	state := s.Select(context.Background(), london())
	if state.ErrorMessage != "Could not reach the weather service. Please try again." {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestFetchByNameEmpty(t *testing.T) {
	s := newTestSession(&mockProvider{})

	state := s.FetchByName(context.Background(), "   ")
	if state.ErrorMessage != "Please select a location first" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestToggleUnit(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())

	state := s.ToggleUnit()
	if state.UseCelsius {
		t.Error("expected Fahrenheit after toggle")
	}
	if state.Weather.TemperatureDisplay != "59.0°F" {
		t.Errorf("display = %q", state.Weather.TemperatureDisplay)
	}

	state = s.ToggleUnit()
	if !state.UseCelsius {
		t.Error("expected Celsius after second toggle")
	}
	if state.Weather.TemperatureDisplay != "15.0°C" {
		t.Errorf("display = %q", state.Weather.TemperatureDisplay)
	}
}

func TestSaveRecordNoWeather(t *testing.T) {
	s := newTestSession(&mockProvider{})

	state := s.SaveRecord(context.Background())
	if state.ErrorMessage != "No weather data to save" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestSaveRecordMissingDates(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("", "")

	state := s.SaveRecord(context.Background())
	if state.ErrorMessage != "Please select a date range" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestSaveRecordInvalidRange(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-20", "2025-06-16")

	state := s.SaveRecord(context.Background())
	if state.ErrorMessage != "Start date must be before end date" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
	if len(state.Records) != 0 {
		t.Error("record persisted despite invalid range")
	}
}

func TestSaveRecordSuccess(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-18")

	state := s.SaveRecord(context.Background())
	if state.ErrorMessage != "" {
		t.Fatalf("unexpected error: %q", state.ErrorMessage)
	}
	if state.SuccessMessage != "Weather record saved successfully!" {
		t.Errorf("success = %q", state.SuccessMessage)
	}
	if len(state.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(state.Records))
	}
	rec := state.Records[0]
	if rec.LocationName != "London, GB" {
		t.Errorf("location = %q", rec.LocationName)
	}
	if rec.TemperatureC != 15.0 {
		t.Errorf("temperatureC = %v", rec.TemperatureC)
	}
	if rec.DateFrom != "2025-06-15" || rec.DateTo != "2025-06-18" {
		t.Errorf("dates = %q..%q", rec.DateFrom, rec.DateTo)
	}
}

func TestUpdateRecordPartial(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-16")
	state := s.SaveRecord(context.Background())
	id := state.Records[0].ID

	state = s.UpdateRecord(context.Background(), id, EditForm{Description: "Light rain"})
	if state.SuccessMessage != "Record updated successfully!" {
		t.Fatalf("success = %q (error %q)", state.SuccessMessage, state.ErrorMessage)
	}
	rec := state.Records[0]
	if rec.Description != "Light rain" {
		t.Errorf("description = %q", rec.Description)
	}
	if rec.LocationName != "London, GB" {
		t.Error("location changed by partial update")
	}
	if rec.DateFrom != "2025-06-15" {
		t.Error("dates changed by partial update")
	}
}

func TestUpdateRecordInvalidRange(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-16")
	state := s.SaveRecord(context.Background())
	id := state.Records[0].ID

	state = s.UpdateRecord(context.Background(), id, EditForm{
		DateFrom: "2025-06-15",
		DateTo:   "2025-06-30",
	})
	if state.ErrorMessage != "Date range cannot exceed 5 days" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestUpdateRecordMissing(t *testing.T) {
	s := newTestSession(&mockProvider{})

	state := s.UpdateRecord(context.Background(), 99, EditForm{Description: "x"})
	if state.ErrorMessage != "Record not found" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestDeleteRecord(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-16")
	state := s.SaveRecord(context.Background())
	id := state.Records[0].ID

	state = s.DeleteRecord(context.Background(), id)
	if state.SuccessMessage != "Record deleted successfully!" {
		t.Errorf("success = %q", state.SuccessMessage)
	}
	if len(state.Records) != 0 {
		t.Errorf("expected empty list, got %d", len(state.Records))
	}

	state = s.DeleteRecord(context.Background(), id)
	if state.ErrorMessage != "Record not found" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestStartEditAndCancel(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-16")
	state := s.SaveRecord(context.Background())
	id := state.Records[0].ID

	state = s.StartEdit(context.Background(), id)
	if state.Editing == nil {
		t.Fatal("expected edit form")
	}
	if state.Editing.LocationName != "London, GB" {
		t.Errorf("location = %q", state.Editing.LocationName)
	}
	if state.Editing.DateFrom != "2025-06-15" {
		t.Errorf("dateFrom = %q", state.Editing.DateFrom)
	}

	state = s.CancelEdit()
	if state.Editing != nil {
		t.Error("expected edit form discarded")
	}

	state = s.StartEdit(context.Background(), 999)
	if state.ErrorMessage != "Record not found" {
		t.Errorf("error = %q", state.ErrorMessage)
	}
}

func TestClearSearch(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())

	state := s.ClearSearch()
	if state.Query != "" || state.SelectedName != "" {
		t.Error("query not cleared")
	}
	if state.HasWeather || state.Weather != nil {
		t.Error("weather not cleared")
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-16")
	s.SaveRecord(context.Background())

	export, state := s.ExportCSV(context.Background())
	if state.ErrorMessage != "" {
		t.Fatalf("unexpected error: %q", state.ErrorMessage)
	}
	if export.Filename != "weather_history_2025-06-15.csv" {
		t.Errorf("filename = %q", export.Filename)
	}
	lines := strings.Split(strings.TrimRight(export.Data, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := newTestSession(&mockProvider{})
	s.Select(context.Background(), london())
	s.SetDateRange("2025-06-15", "2025-06-16")

	before := s.SaveRecord(context.Background())
	before.Records[0].LocationName = "mutated"
	before.Weather.TemperatureC = -1

	after := s.Current()
	if after.Records[0].LocationName != "London, GB" {
		t.Error("snapshot shares record slice with session")
	}
	if after.Weather.TemperatureC != 15.0 {
		t.Error("snapshot shares weather view with session")
	}
}
