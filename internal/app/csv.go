package app

import (
	"encoding/csv"
	"strconv"
	"strings"

	"weatherlog/internal/domain"
)

// csvHeader is a fixed external interface: 13 columns, this order.
var csvHeader = []string{
	"ID",
	"Location",
	"Latitude",
	"Longitude",
	"Date From",
	"Date To",
	"Temperature (°C)",
	"Feels Like (°C)",
	"Humidity (%)",
	"Description",
	"Wind Speed (m/s)",
	"Created At",
	"Updated At",
}

// RenderCSV serializes records as CSV text, one row per record after the
// header. Temperatures convert Kelvin to Celsius rounded to 1 decimal at
// this boundary only; the stored values stay Kelvin. A nil UpdatedAt
// renders as an empty string.
func RenderCSV(records []domain.WeatherRecord) (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range records {
		updated := ""
		if r.UpdatedAt != nil {
			updated = r.UpdatedAt.Format(timestampLayout)
		}
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.LocationName,
			strconv.FormatFloat(r.Latitude, 'f', -1, 64),
			strconv.FormatFloat(r.Longitude, 'f', -1, 64),
			r.DateFrom.Format(dateLayout),
			r.DateTo.Format(dateLayout),
			strconv.FormatFloat(domain.Round1(domain.ToCelsius(r.TemperatureKelvin)), 'f', 1, 64),
			strconv.FormatFloat(domain.Round1(domain.ToCelsius(r.FeelsLikeKelvin)), 'f', 1, 64),
			strconv.Itoa(r.Humidity),
			r.Description,
			strconv.FormatFloat(r.WindSpeed, 'f', -1, 64),
			r.CreatedAt.Format(timestampLayout),
			updated,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
