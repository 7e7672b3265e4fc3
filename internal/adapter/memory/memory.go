// Package memory implements an in-memory record repository for development
// and testing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"weatherlog/internal/domain"
)

// DB implements an in-memory record store.
type DB struct {
	mu        sync.Mutex
	records   []domain.WeatherRecord
	idCounter int64
	now       func() time.Time
}

// New creates a new in-memory store.
func New() *DB {
	return &DB{now: time.Now}
}

// Ensure the interface is met.
var _ domain.RecordRepository = (*DB)(nil)

// Create assigns a new id, stamps CreatedAt and stores the record.
func (db *DB) Create(ctx context.Context, fields domain.RecordFields) (*domain.WeatherRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.idCounter++
	rec := domain.WeatherRecord{
		ID:                db.idCounter,
		LocationName:      fields.LocationName,
		Latitude:          fields.Latitude,
		Longitude:         fields.Longitude,
		DateFrom:          fields.DateFrom,
		DateTo:            fields.DateTo,
		TemperatureKelvin: fields.TemperatureKelvin,
		FeelsLikeKelvin:   fields.FeelsLikeKelvin,
		Humidity:          fields.Humidity,
		Description:       fields.Description,
		IconCode:          fields.IconCode,
		WindSpeed:         fields.WindSpeed,
		CreatedAt:         db.now().UTC(),
	}
	db.records = append(db.records, rec)

	ret := rec
	return &ret, nil
}

// List returns all records, most recently created first.
func (db *DB) List(ctx context.Context) ([]domain.WeatherRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.WeatherRecord, len(db.records))
	copy(out, db.records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID returns the record with the given id, or nil if absent.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.WeatherRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.records {
		if db.records[i].ID == id {
			ret := db.records[i]
			return &ret, nil
		}
	}
	return nil, nil
}

// Update applies the provided fields and stamps UpdatedAt. Returns nil with
// no side effects when the id does not exist.
func (db *DB) Update(ctx context.Context, id int64, upd domain.RecordUpdate) (*domain.WeatherRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.records {
		if db.records[i].ID != id {
			continue
		}
		rec := &db.records[i]
		if upd.LocationName != nil {
			rec.LocationName = *upd.LocationName
		}
		if upd.DateFrom != nil {
			rec.DateFrom = *upd.DateFrom
		}
		if upd.DateTo != nil {
			rec.DateTo = *upd.DateTo
		}
		if upd.Description != nil {
			rec.Description = *upd.Description
		}
		updatedAt := db.now().UTC()
		rec.UpdatedAt = &updatedAt

		ret := *rec
		return &ret, nil
	}
	return nil, nil
}

// Delete removes a record by id, reporting whether a record was removed.
func (db *DB) Delete(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for i := range db.records {
		if db.records[i].ID == id {
			db.records = append(db.records[:i], db.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
