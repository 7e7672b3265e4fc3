package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weatherlog/internal/domain"
)

// Ensure the interface is met.
var _ domain.RecordRepository = (*DB)(nil)

// Dates and timestamps are stored as text so rows stay readable with any
// sqlite tooling.
const (
	dateFormat = "2006-01-02"
	timeFormat = time.RFC3339Nano
)

const recordColumns = `id, location_name, latitude, longitude, date_from, date_to,
	temperature_kelvin, feels_like_kelvin, humidity, description, icon_code, wind_speed,
	created_at, updated_at`

// Create inserts a new record, assigning its id and CreatedAt.
func (d *DB) Create(ctx context.Context, f domain.RecordFields) (*domain.WeatherRecord, error) {
	rec := domain.WeatherRecord{
		LocationName:      f.LocationName,
		Latitude:          f.Latitude,
		Longitude:         f.Longitude,
		DateFrom:          f.DateFrom,
		DateTo:            f.DateTo,
		TemperatureKelvin: f.TemperatureKelvin,
		FeelsLikeKelvin:   f.FeelsLikeKelvin,
		Humidity:          f.Humidity,
		Description:       f.Description,
		IconCode:          f.IconCode,
		WindSpeed:         f.WindSpeed,
		CreatedAt:         time.Now().UTC(),
	}
	res, err := d.sql.ExecContext(ctx,
		`INSERT INTO weather_records(location_name, latitude, longitude, date_from, date_to,
			temperature_kelvin, feels_like_kelvin, humidity, description, icon_code, wind_speed, created_at)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.LocationName, rec.Latitude, rec.Longitude,
		rec.DateFrom.Format(dateFormat), rec.DateTo.Format(dateFormat),
		rec.TemperatureKelvin, rec.FeelsLikeKelvin, rec.Humidity, rec.Description,
		rec.IconCode, rec.WindSpeed, rec.CreatedAt.Format(timeFormat),
	)
	if err != nil {
		return nil, err
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns all records, most recently created first.
func (d *DB) List(ctx context.Context) ([]domain.WeatherRecord, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM weather_records ORDER BY created_at DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.WeatherRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

// GetByID returns the record with the given id, or nil if absent.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.WeatherRecord, error) {
	row := d.sql.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM weather_records WHERE id=?;`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Update applies the provided fields inside one transaction and stamps
// UpdatedAt. Returns nil with no side effects when the id does not exist.
func (d *DB) Update(ctx context.Context, id int64, upd domain.RecordUpdate) (*domain.WeatherRecord, error) {
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM weather_records WHERE id=?;`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

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
	updatedAt := time.Now().UTC()
	rec.UpdatedAt = &updatedAt

	_, err = tx.ExecContext(ctx,
		`UPDATE weather_records SET location_name=?, date_from=?, date_to=?, description=?, updated_at=? WHERE id=?;`,
		rec.LocationName, rec.DateFrom.Format(dateFormat), rec.DateTo.Format(dateFormat),
		rec.Description, updatedAt.Format(timeFormat), id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record by id, reporting whether a row was removed.
func (d *DB) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := d.sql.ExecContext(ctx, `DELETE FROM weather_records WHERE id=?;`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.WeatherRecord, error) {
	var rec domain.WeatherRecord
	var dateFrom, dateTo, createdAt string
	var updatedAt sql.NullString
	err := row.Scan(
		&rec.ID, &rec.LocationName, &rec.Latitude, &rec.Longitude, &dateFrom, &dateTo,
		&rec.TemperatureKelvin, &rec.FeelsLikeKelvin, &rec.Humidity, &rec.Description,
		&rec.IconCode, &rec.WindSpeed, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if rec.DateFrom, err = time.Parse(dateFormat, dateFrom); err != nil {
		return nil, err
	}
	if rec.DateTo, err = time.Parse(dateFormat, dateTo); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		t, err := time.Parse(timeFormat, updatedAt.String)
		if err != nil {
			return nil, err
		}
		rec.UpdatedAt = &t
	}
	return &rec, nil
}
