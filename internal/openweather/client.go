// Package openweather is a thin client for the OpenWeatherMap REST API,
// mapping its JSON responses into domain values.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weatherlog/internal/domain"
)

const (
	// DefaultBaseURL serves current weather and the 5-day/3-hour forecast.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	// DefaultGeoURL serves the geocoding (location search) endpoint.
	DefaultGeoURL = "https://api.openweathermap.org/geo/1.0"

	defaultTimeout = 10 * time.Second
	maxSuggestions = 5
)

// ErrUnreachable wraps transport-level failures (timeout, DNS, connection
// refused) so callers can tell "could not reach the service" apart from
// "the service said no".
var ErrUnreachable = errors.New("weather service unreachable")

// APIError is a non-success response from the provider, carrying its status
// code and message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openweathermap: status %d: %s", e.StatusCode, e.Message)
}

// Client talks to one configured OpenWeatherMap deployment.
type Client struct {
	apiKey  string
	baseURL string
	geoURL  string
	http    *http.Client
}

// Ensure the provider port is met.
var _ domain.WeatherProvider = (*Client)(nil)

// New creates a Client. Empty baseURL/geoURL and a zero timeout fall back to
// the production defaults.
func New(apiKey, baseURL, geoURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if geoURL == "" {
		geoURL = DefaultGeoURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		geoURL:  geoURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SearchLocations returns up to limit geocoded candidates for a free-text
// query. It is deliberately silent: short queries, transport failures,
// non-200 responses and malformed bodies all yield an empty slice.
// Suggestions are a non-critical, high-frequency path and must never surface
// an error to the user.
func (c *Client) SearchLocations(ctx context.Context, query string, limit int) []domain.Location {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil
	}
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", strconv.Itoa(limit))
	values.Set("appid", c.apiKey)

	resp, err := c.get(ctx, c.geoURL+"/direct?"+values.Encode())
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}

	var payload []struct {
		Name    string  `json:"name"`
		Country string  `json:"country"`
		State   string  `json:"state"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil
	}

	locations := make([]domain.Location, 0, len(payload))
	for _, item := range payload {
		if len(locations) == limit {
			break
		}
		locations = append(locations, domain.Location{
			Name:      item.Name,
			Country:   item.Country,
			State:     item.State,
			Latitude:  item.Lat,
			Longitude: item.Lon,
		})
	}
	return locations
}

// CurrentByCoords fetches current conditions at the given coordinates.
func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*domain.CurrentWeather, error) {
	return c.fetchCurrent(ctx, coordQuery(lat, lon))
}

// CurrentByName fetches current conditions using the provider's free-text
// location query.
func (c *Client) CurrentByName(ctx context.Context, location string) (*domain.CurrentWeather, error) {
	v := url.Values{}
	v.Set("q", location)
	return c.fetchCurrent(ctx, v)
}

// ForecastByCoords fetches the 5-day/3-hour forecast at the given coordinates.
func (c *Client) ForecastByCoords(ctx context.Context, lat, lon float64) (*domain.Forecast, error) {
	return c.fetchForecast(ctx, coordQuery(lat, lon))
}

// ForecastByName fetches the 5-day/3-hour forecast by free-text location.
func (c *Client) ForecastByName(ctx context.Context, location string) (*domain.Forecast, error) {
	v := url.Values{}
	v.Set("q", location)
	return c.fetchForecast(ctx, v)
}

func coordQuery(lat, lon float64) url.Values {
	v := url.Values{}
	v.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return v
}

func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	return resp, nil
}

// apiError reads an error response body and extracts the provider's message
// field, falling back to the raw body when it is not the expected shape.
func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		msg = payload.Message
	}
	if msg == "" {
		msg = "unknown error"
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

type conditionPayload struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (p conditionPayload) toDomain() domain.WeatherCondition {
	return domain.WeatherCondition{
		ID:          p.ID,
		Main:        p.Main,
		Description: p.Description,
		IconCode:    p.Icon,
	}
}

func (c *Client) fetchCurrent(ctx context.Context, v url.Values) (*domain.CurrentWeather, error) {
	v.Set("appid", c.apiKey)
	resp, err := c.get(ctx, c.baseURL+"/weather?"+v.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		Name  string `json:"name"`
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		// Optional per the provider docs; zero when absent.
		Visibility int `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
			Deg   int     `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Weather []conditionPayload `json:"weather"`
		Sys     struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Dt int64 `json:"dt"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode current weather: %w", err)
	}
	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("current weather response missing condition")
	}

	return &domain.CurrentWeather{
		LocationName:      payload.Name,
		Country:           payload.Sys.Country,
		Latitude:          payload.Coord.Lat,
		Longitude:         payload.Coord.Lon,
		TemperatureKelvin: payload.Main.Temp,
		FeelsLikeKelvin:   payload.Main.FeelsLike,
		TempMinKelvin:     payload.Main.TempMin,
		TempMaxKelvin:     payload.Main.TempMax,
		Humidity:          payload.Main.Humidity,
		Pressure:          payload.Main.Pressure,
		Visibility:        payload.Visibility,
		WindSpeed:         payload.Wind.Speed,
		WindDeg:           payload.Wind.Deg,
		Clouds:            payload.Clouds.All,
		Condition:         payload.Weather[0].toDomain(),
		Sunrise:           time.Unix(payload.Sys.Sunrise, 0).UTC(),
		Sunset:            time.Unix(payload.Sys.Sunset, 0).UTC(),
		Timestamp:         time.Unix(payload.Dt, 0).UTC(),
	}, nil
}

func (c *Client) fetchForecast(ctx context.Context, v url.Values) (*domain.Forecast, error) {
	v.Set("appid", c.apiKey)
	resp, err := c.get(ctx, c.baseURL+"/forecast?"+v.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var payload struct {
		City struct {
			Name    string `json:"name"`
			Country string `json:"country"`
			Coord   struct {
				Lat float64 `json:"lat"`
				Lon float64 `json:"lon"`
			} `json:"coord"`
		} `json:"city"`
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp      float64 `json:"temp"`
				FeelsLike float64 `json:"feels_like"`
				TempMin   float64 `json:"temp_min"`
				TempMax   float64 `json:"temp_max"`
				Humidity  int     `json:"humidity"`
				Pressure  int     `json:"pressure"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
				Deg   int     `json:"deg"`
			} `json:"wind"`
			Clouds struct {
				All int `json:"all"`
			} `json:"clouds"`
			Weather []conditionPayload `json:"weather"`
			// Precipitation probability, 0 when absent.
			Pop float64 `json:"pop"`
		} `json:"list"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}

	items := make([]domain.ForecastItem, 0, len(payload.List))
	for _, entry := range payload.List {
		if len(entry.Weather) == 0 {
			return nil, fmt.Errorf("forecast slot missing condition")
		}
		items = append(items, domain.ForecastItem{
			Timestamp:         time.Unix(entry.Dt, 0).UTC(),
			TemperatureKelvin: entry.Main.Temp,
			FeelsLikeKelvin:   entry.Main.FeelsLike,
			TempMinKelvin:     entry.Main.TempMin,
			TempMaxKelvin:     entry.Main.TempMax,
			Humidity:          entry.Main.Humidity,
			Pressure:          entry.Main.Pressure,
			WindSpeed:         entry.Wind.Speed,
			WindDeg:           entry.Wind.Deg,
			Clouds:            entry.Clouds.All,
			Condition:         entry.Weather[0].toDomain(),
			PrecipProbability: entry.Pop,
		})
	}

	return &domain.Forecast{
		LocationName: payload.City.Name,
		Country:      payload.City.Country,
		Latitude:     payload.City.Coord.Lat,
		Longitude:    payload.City.Coord.Lon,
		Items:        items,
	}, nil
}
