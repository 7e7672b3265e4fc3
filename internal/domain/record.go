package domain

import (
	"context"
	"time"
)

// WeatherRecord is a user-saved weather snapshot tied to a date range,
// persisted across sessions. The id is assigned by the store on insert and
// immutable afterwards. UpdatedAt stays nil until the first edit.
type WeatherRecord struct {
	ID                int64      `json:"id"`
	LocationName      string     `json:"locationName"`
	Latitude          float64    `json:"latitude"`
	Longitude         float64    `json:"longitude"`
	DateFrom          time.Time  `json:"dateFrom"`
	DateTo            time.Time  `json:"dateTo"`
	TemperatureKelvin float64    `json:"temperatureKelvin"`
	FeelsLikeKelvin   float64    `json:"feelsLikeKelvin"`
	Humidity          int        `json:"humidity"`
	Description       string     `json:"description"`
	IconCode          string     `json:"iconCode"`
	WindSpeed         float64    `json:"windSpeed"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         *time.Time `json:"updatedAt"`
}

// RecordFields carries everything the caller supplies when creating a
// record; id and timestamps are set by the store.
type RecordFields struct {
	LocationName      string
	Latitude          float64
	Longitude         float64
	DateFrom          time.Time
	DateTo            time.Time
	TemperatureKelvin float64
	FeelsLikeKelvin   float64
	Humidity          int
	Description       string
	IconCode          string
	WindSpeed         float64
}

// RecordUpdate is a partial update of the editable record fields. A nil
// field means "leave unchanged"; there is no way to clear a field, which
// keeps omitted and empty inputs unambiguous.
type RecordUpdate struct {
	LocationName *string
	DateFrom     *time.Time
	DateTo       *time.Time
	Description  *string
}

// RecordRepository is the port for weather record persistence. Lookups for
// a missing id return (nil, nil) rather than an error, and Delete reports
// false; not-found is an expected outcome, not a failure.
type RecordRepository interface {
	Create(ctx context.Context, fields RecordFields) (*WeatherRecord, error)
	List(ctx context.Context) ([]WeatherRecord, error)
	GetByID(ctx context.Context, id int64) (*WeatherRecord, error)
	Update(ctx context.Context, id int64, upd RecordUpdate) (*WeatherRecord, error)
	Delete(ctx context.Context, id int64) (bool, error)
}
