package main

import (
	"errors"
	"log"
	"net/http"
	"strings"

	adapthttp "weatherlog/internal/adapter/http"
	"weatherlog/internal/adapter/memory"
	"weatherlog/internal/adapter/postgres"
	"weatherlog/internal/adapter/sqlite"
	"weatherlog/internal/app"
	"weatherlog/internal/config"
	"weatherlog/internal/domain"
	"weatherlog/internal/openweather"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	records, closeStore, err := openStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("store open: %v", err)
	}
	defer closeStore()

	provider := openweather.New(cfg.OpenWeatherAPIKey, cfg.WeatherBaseURL, cfg.GeoBaseURL, cfg.WeatherTimeout)
	session := app.NewSession(provider, records)

	h := adapthttp.New(session).Handler()
	log.Printf("listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// openStore selects the record store from the DATABASE_URL: a postgres://
// URL, a SQLite file path, or empty for the in-memory store.
func openStore(databaseURL string) (domain.RecordRepository, func(), error) {
	switch {
	case databaseURL == "":
		log.Print("DATABASE_URL empty, using in-memory store")
		return memory.New(), func() {}, nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		db, err := postgres.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		db, err := sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}
}
