package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"

	"weatherlog/internal/domain"
	"weatherlog/internal/openweather"
)

const maxSuggestions = 5

// Session orchestrates the user-facing flows by composing the weather
// provider, the record repository and the validation rules. It owns the
// current (unsaved) weather view; persisted records belong to the
// repository and the session holds display copies only.
//
// Each flow runs to completion under the session lock and returns a State
// snapshot. Errors from the provider or the store never escape a flow: they
// are converted to a user-facing message on the snapshot.
type Session struct {
	mu      sync.Mutex
	weather domain.WeatherProvider
	records domain.RecordRepository
	now     func() time.Time

	selLat float64
	selLon float64
	view   State
}

// NewSession creates a Session with Celsius as the initial unit preference.
func NewSession(weather domain.WeatherProvider, records domain.RecordRepository) *Session {
	return &Session{
		weather: weather,
		records: records,
		now:     time.Now,
		view:    State{UseCelsius: true},
	}
}

// Current returns the latest snapshot without running a flow.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Search implements search-as-you-type: queries shorter than 2 characters
// clear the suggestions, anything else asks the provider. Provider failures
// surface as an empty suggestion list, never as an error message.
func (s *Session) Search(ctx context.Context, query string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Query = query
	s.clearMessages()

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 2 {
		s.view.Suggestions = nil
		return s.snapshot()
	}

	locs := s.weather.SearchLocations(ctx, trimmed, maxSuggestions)
	suggestions := make([]Suggestion, 0, len(locs))
	for _, loc := range locs {
		suggestions = append(suggestions, Suggestion{Location: loc, DisplayName: loc.DisplayName()})
	}
	s.view.Suggestions = suggestions
	return s.snapshot()
}

// Select records the chosen location, clears the suggestions and fetches
// current weather plus forecast for its coordinates.
func (s *Session) Select(ctx context.Context, loc domain.Location) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selLat, s.selLon = loc.Latitude, loc.Longitude
	s.view.Query = loc.DisplayName()
	s.view.SelectedName = loc.DisplayName()
	s.view.Suggestions = nil
	s.clearMessages()

	cur, err := s.weather.CurrentByCoords(ctx, s.selLat, s.selLon)
	if err != nil {
		return s.weatherError(err)
	}
	fc, err := s.weather.ForecastByCoords(ctx, s.selLat, s.selLon)
	if err != nil {
		return s.weatherError(err)
	}
	s.applyWeather(cur, fc)
	return s.snapshot()
}

// FetchByName fetches weather via the provider's free-text query instead of
// coordinates.
func (s *Session) FetchByName(ctx context.Context, location string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	location = strings.TrimSpace(location)
	s.view.Query = location
	s.view.SelectedName = location
	s.view.Suggestions = nil
	s.clearMessages()
	if location == "" {
		s.view.ErrorMessage = "Please select a location first"
		return s.snapshot()
	}

	cur, err := s.weather.CurrentByName(ctx, location)
	if err != nil {
		return s.weatherError(err)
	}
	fc, err := s.weather.ForecastByName(ctx, location)
	if err != nil {
		return s.weatherError(err)
	}
	s.applyWeather(cur, fc)
	return s.snapshot()
}

// ToggleUnit flips the Celsius/Fahrenheit display preference.
func (s *Session) ToggleUnit() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.UseCelsius = !s.view.UseCelsius
	return s.snapshot()
}

// SetDateRange stores the save date range as entered.
func (s *Session) SetDateRange(from, to string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.DateFrom = from
	s.view.DateTo = to
	return s.snapshot()
}

// ClearSearch resets the query, suggestions and weather view.
func (s *Session) ClearSearch() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Query = ""
	s.view.Suggestions = nil
	s.view.SelectedName = ""
	s.view.HasWeather = false
	s.view.Weather = nil
	s.view.ForecastDays = nil
	s.clearMessages()
	return s.snapshot()
}

// SaveRecord validates the date range and persists the current weather view
// with its canonical Kelvin values.
func (s *Session) SaveRecord(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMessages()

	if !s.view.HasWeather || s.view.Weather == nil {
		s.view.ErrorMessage = "No weather data to save"
		return s.snapshot()
	}
	if s.view.DateFrom == "" || s.view.DateTo == "" {
		s.view.ErrorMessage = "Please select a date range"
		return s.snapshot()
	}

	from, err := time.Parse(dateLayout, s.view.DateFrom)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error saving record: %v", err)
		return s.snapshot()
	}
	to, err := time.Parse(dateLayout, s.view.DateTo)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error saving record: %v", err)
		return s.snapshot()
	}

	if ok, reason := domain.ValidateDateRange(from, to, s.today()); !ok {
		s.view.ErrorMessage = reason
		return s.snapshot()
	}

	w := s.view.Weather
	_, err = s.records.Create(ctx, domain.RecordFields{
		LocationName:      w.LocationDisplay,
		Latitude:          w.Latitude,
		Longitude:         w.Longitude,
		DateFrom:          from,
		DateTo:            to,
		TemperatureKelvin: w.TemperatureKelvin,
		FeelsLikeKelvin:   w.FeelsLikeKelvin,
		Humidity:          w.Humidity,
		Description:       w.Description,
		IconCode:          w.IconCode,
		WindSpeed:         w.WindSpeed,
	})
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error saving record: %v", err)
		return s.snapshot()
	}

	s.view.SuccessMessage = "Weather record saved successfully!"
	s.loadRecordsLocked(ctx)
	return s.snapshot()
}

// LoadRecords refreshes the saved-records list.
func (s *Session) LoadRecords(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadRecordsLocked(ctx)
	return s.snapshot()
}

// StartEdit loads a record's editable fields into scratch state.
func (s *Session) StartEdit(ctx context.Context, id int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMessages()

	rec, err := s.records.GetByID(ctx, id)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error loading record: %v", err)
		return s.snapshot()
	}
	if rec == nil {
		s.view.ErrorMessage = "Record not found"
		return s.snapshot()
	}
	s.view.Editing = &EditForm{
		RecordID:     rec.ID,
		LocationName: rec.LocationName,
		DateFrom:     rec.DateFrom.Format(dateLayout),
		DateTo:       rec.DateTo.Format(dateLayout),
		Description:  rec.Description,
	}
	return s.snapshot()
}

// CancelEdit discards the in-progress edit.
func (s *Session) CancelEdit() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Editing = nil
	return s.snapshot()
}

// UpdateRecord applies a partial update to an existing record. Empty form
// fields leave the stored values unchanged; when both dates are present the
// range is re-validated first.
func (s *Session) UpdateRecord(ctx context.Context, id int64, form EditForm) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMessages()

	var upd domain.RecordUpdate
	var from, to *time.Time
	if form.DateFrom != "" {
		parsed, err := time.Parse(dateLayout, form.DateFrom)
		if err != nil {
			s.view.ErrorMessage = fmt.Sprintf("Error updating record: %v", err)
			return s.snapshot()
		}
		from = &parsed
	}
	if form.DateTo != "" {
		parsed, err := time.Parse(dateLayout, form.DateTo)
		if err != nil {
			s.view.ErrorMessage = fmt.Sprintf("Error updating record: %v", err)
			return s.snapshot()
		}
		to = &parsed
	}
	if from != nil && to != nil {
		if ok, reason := domain.ValidateDateRange(*from, *to, s.today()); !ok {
			s.view.ErrorMessage = reason
			return s.snapshot()
		}
	}
	upd.DateFrom = from
	upd.DateTo = to
	if form.LocationName != "" {
		upd.LocationName = &form.LocationName
	}
	if form.Description != "" {
		upd.Description = &form.Description
	}

	rec, err := s.records.Update(ctx, id, upd)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error updating record: %v", err)
		return s.snapshot()
	}
	if rec == nil {
		s.view.ErrorMessage = "Record not found"
		return s.snapshot()
	}

	s.view.SuccessMessage = "Record updated successfully!"
	s.view.Editing = nil
	s.loadRecordsLocked(ctx)
	return s.snapshot()
}

// DeleteRecord removes a record by id. A repeated delete reports "Record
// not found" rather than failing.
func (s *Session) DeleteRecord(ctx context.Context, id int64) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMessages()

	deleted, err := s.records.Delete(ctx, id)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error deleting record: %v", err)
		return s.snapshot()
	}
	if !deleted {
		s.view.ErrorMessage = "Record not found"
		return s.snapshot()
	}
	s.view.SuccessMessage = "Record deleted successfully!"
	s.loadRecordsLocked(ctx)
	return s.snapshot()
}

// ExportCSV serializes all saved records to CSV for download.
func (s *Session) ExportCSV(ctx context.Context) (Export, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearMessages()

	records, err := s.records.List(ctx)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error exporting CSV: %v", err)
		return Export{}, s.snapshot()
	}
	data, err := RenderCSV(records)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error exporting CSV: %v", err)
		return Export{}, s.snapshot()
	}
	export := Export{
		Filename: fmt.Sprintf("weather_history_%s.csv", s.now().Format(dateLayout)),
		Data:     data,
	}
	return export, s.snapshot()
}

// --- internals, caller must hold s.mu ---

func (s *Session) clearMessages() {
	s.view.ErrorMessage = ""
	s.view.SuccessMessage = ""
}

func (s *Session) today() time.Time {
	y, m, d := s.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weatherError converts a provider error into the user-facing message and
// marks the view as having no weather data.
func (s *Session) weatherError(err error) State {
	var apiErr *openweather.APIError
	switch {
	case errors.As(err, &apiErr):
		s.view.ErrorMessage = fmt.Sprintf("Error %d: %s", apiErr.StatusCode, apiErr.Message)
	case errors.Is(err, openweather.ErrUnreachable):
		s.view.ErrorMessage = "Could not reach the weather service. Please try again."
	default:
		s.view.ErrorMessage = fmt.Sprintf("Error: %v", err)
	}
	s.view.HasWeather = false
	s.view.Weather = nil
	s.view.ForecastDays = nil
	return s.snapshot()
}

func (s *Session) applyWeather(cur *domain.CurrentWeather, fc *domain.Forecast) {
	display := fmt.Sprintf("%s, %s", cur.LocationName, cur.Country)
	s.view.Weather = &WeatherView{
		LocationDisplay:   display,
		Latitude:          cur.Latitude,
		Longitude:         cur.Longitude,
		TemperatureKelvin: cur.TemperatureKelvin,
		FeelsLikeKelvin:   cur.FeelsLikeKelvin,
		TemperatureC:      domain.Round1(domain.ToCelsius(cur.TemperatureKelvin)),
		FeelsLikeC:        domain.Round1(domain.ToCelsius(cur.FeelsLikeKelvin)),
		Humidity:          cur.Humidity,
		WindSpeed:         cur.WindSpeed,
		Description:       capitalize(cur.Condition.Description),
		IconCode:          cur.Condition.IconCode,
		IconURL:           cur.Condition.IconURL(),
	}
	s.view.HasWeather = true
	s.view.ForecastDays = fc.DailySummaries()

	today := s.now().Format(dateLayout)
	s.view.DateFrom = today
	s.view.DateTo = today
}

func (s *Session) loadRecordsLocked(ctx context.Context) {
	records, err := s.records.List(ctx)
	if err != nil {
		s.view.ErrorMessage = fmt.Sprintf("Error loading records: %v", err)
		return
	}
	views := make([]RecordView, 0, len(records))
	for _, r := range records {
		views = append(views, RecordView{
			ID:           r.ID,
			LocationName: r.LocationName,
			Latitude:     r.Latitude,
			Longitude:    r.Longitude,
			DateFrom:     r.DateFrom.Format(dateLayout),
			DateTo:       r.DateTo.Format(dateLayout),
			TemperatureC: domain.Round1(domain.ToCelsius(r.TemperatureKelvin)),
			Humidity:     r.Humidity,
			Description:  r.Description,
			IconCode:     r.IconCode,
			WindSpeed:    r.WindSpeed,
			CreatedAt:    r.CreatedAt.Format(displayTimeLayout),
		})
	}
	s.view.Records = views
}

// snapshot deep-copies the view so callers never share mutable state, and
// recomputes the unit-dependent display strings.
func (s *Session) snapshot() State {
	out := s.view
	out.Suggestions = append([]Suggestion(nil), s.view.Suggestions...)
	out.ForecastDays = append([]domain.DailySummary(nil), s.view.ForecastDays...)
	out.Records = append([]RecordView(nil), s.view.Records...)
	if s.view.Editing != nil {
		form := *s.view.Editing
		out.Editing = &form
	}
	if s.view.Weather != nil {
		w := *s.view.Weather
		unit := "°C"
		temp, feels := w.TemperatureC, w.FeelsLikeC
		if !s.view.UseCelsius {
			unit = "°F"
			temp = domain.Round1(domain.ToFahrenheit(domain.ToCelsius(w.TemperatureKelvin)))
			feels = domain.Round1(domain.ToFahrenheit(domain.ToCelsius(w.FeelsLikeKelvin)))
		}
		w.TemperatureDisplay = fmt.Sprintf("%.1f%s", temp, unit)
		w.FeelsLikeDisplay = fmt.Sprintf("%.1f%s", feels, unit)
		out.Weather = &w
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
