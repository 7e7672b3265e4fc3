// Package sqlite implements the record repository on a local SQLite file
// using the pure-Go modernc driver, so single-user deployments need no
// database server.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a *sql.DB and implements the domain record repository.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and runs
// migrations.
func Open(path string) (*DB, error) {
	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent sessions.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS weather_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			location_name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			date_from TEXT NOT NULL,
			date_to TEXT NOT NULL,
			temperature_kelvin REAL NOT NULL,
			feels_like_kelvin REAL NOT NULL,
			humidity INTEGER NOT NULL,
			description TEXT NOT NULL,
			icon_code TEXT NOT NULL,
			wind_speed REAL NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_weather_records_created_at ON weather_records(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
