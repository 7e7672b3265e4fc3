package domain_test

import (
	"testing"
	"time"

	"weatherlog/internal/domain"
)

func slot(ts string, kelvin float64, humidity int, pop float64, main string) domain.ForecastItem {
	parsed, err := time.Parse("2006-01-02 15:04", ts)
	if err != nil {
		panic(err)
	}
	return domain.ForecastItem{
		Timestamp:         parsed,
		TemperatureKelvin: kelvin,
		Humidity:          humidity,
		PrecipProbability: pop,
		Condition:         domain.WeatherCondition{Main: main, Description: main, IconCode: "01d"},
	}
}

func TestDailySummaries_TwoDays(t *testing.T) {
	f := &domain.Forecast{
		Items: []domain.ForecastItem{
			slot("2025-03-01 09:00", 280.15, 60, 0.1, "Clouds"),
			slot("2025-03-01 12:00", 285.15, 50, 0.4, "Clear"),
			slot("2025-03-01 18:00", 278.15, 70, 0.2, "Rain"),
			slot("2025-03-02 00:00", 275.15, 80, 0.0, "Snow"),
			slot("2025-03-02 15:00", 279.15, 90, 0.7, "Clouds"),
		},
	}

	summaries := f.DailySummaries()
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}

	d1 := summaries[0]
	if d1.Date != "2025-03-01" || d1.DateShort != "03-01" {
		t.Errorf("unexpected date fields: %+v", d1)
	}
	// 285.15K = 12C max, 278.15K = 5C min.
	if !almostEqual(d1.TempMaxC, 12.0, 1e-9) || !almostEqual(d1.TempMinC, 5.0, 1e-9) {
		t.Errorf("day 1 temps = min %v max %v; want 5.0 / 12.0", d1.TempMinC, d1.TempMaxC)
	}
	if !almostEqual(d1.TempMaxF, 53.6, 1e-9) || !almostEqual(d1.TempMinF, 41.0, 1e-9) {
		t.Errorf("day 1 temps F = min %v max %v; want 41.0 / 53.6", d1.TempMinF, d1.TempMaxF)
	}
	if d1.Condition != "Clear" {
		t.Errorf("day 1 condition = %q; want the 12:00 slot's condition", d1.Condition)
	}
	if d1.HumidityAvg != 60 {
		t.Errorf("day 1 humidity avg = %d; want 60", d1.HumidityAvg)
	}
	if !almostEqual(d1.PrecipProbability, 0.4, 1e-9) {
		t.Errorf("day 1 precip = %v; want 0.4", d1.PrecipProbability)
	}

	d2 := summaries[1]
	if d2.Date != "2025-03-02" {
		t.Errorf("day 2 date = %q", d2.Date)
	}
	if d2.Condition != "Clouds" {
		t.Errorf("day 2 condition = %q; want the 15:00 slot's condition", d2.Condition)
	}
	if d2.HumidityAvg != 85 {
		t.Errorf("day 2 humidity avg = %d; want 85", d2.HumidityAvg)
	}
	if !almostEqual(d2.PrecipProbability, 0.7, 1e-9) {
		t.Errorf("day 2 precip = %v; want 0.7", d2.PrecipProbability)
	}
}

// 09:00 and 15:00 are equally far from noon; the earlier slot must win.
func TestDailySummaries_NoonTieBreak(t *testing.T) {
	f := &domain.Forecast{
		Items: []domain.ForecastItem{
			slot("2025-03-01 09:00", 280.15, 60, 0, "Clouds"),
			slot("2025-03-01 15:00", 281.15, 60, 0, "Clear"),
		},
	}
	summaries := f.DailySummaries()
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].Condition != "Clouds" {
		t.Errorf("condition = %q; want first slot on tie", summaries[0].Condition)
	}
}

func TestDailySummaries_Empty(t *testing.T) {
	f := &domain.Forecast{}
	if got := f.DailySummaries(); len(got) != 0 {
		t.Fatalf("expected no summaries, got %d", len(got))
	}
}

func TestLocationDisplayName(t *testing.T) {
	withState := domain.Location{Name: "Portland", State: "Oregon", Country: "US"}
	if got := withState.DisplayName(); got != "Portland, Oregon, US" {
		t.Errorf("DisplayName = %q", got)
	}
	noState := domain.Location{Name: "London", Country: "GB"}
	if got := noState.DisplayName(); got != "London, GB" {
		t.Errorf("DisplayName = %q", got)
	}
}
