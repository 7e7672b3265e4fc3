package domain

import "math"

// DailySummary aggregates one calendar day of forecast slots into a single
// representative row for display. Temperatures are rounded to 1 decimal here
// because the summary exists only for presentation.
type DailySummary struct {
	Date              string  `json:"date"`
	DateShort         string  `json:"dateShort"`
	TempMinC          float64 `json:"tempMinC"`
	TempMaxC          float64 `json:"tempMaxC"`
	TempMinF          float64 `json:"tempMinF"`
	TempMaxF          float64 `json:"tempMaxF"`
	Condition         string  `json:"condition"`
	Description       string  `json:"description"`
	IconCode          string  `json:"iconCode"`
	IconURL           string  `json:"iconUrl"`
	HumidityAvg       int     `json:"humidityAvg"`
	PrecipProbability float64 `json:"precipitationProb"`
}

// DailySummaries computes one summary per calendar day present in the
// forecast, in chronological order. The representative condition is taken
// from the slot whose hour is closest to 12:00; on a tie the earlier slot
// wins. Humidity is averaged and rounded to the nearest integer, the
// precipitation probability is the day's maximum.
func (f *Forecast) DailySummaries() []DailySummary {
	byDay := make(map[string][]ForecastItem)
	var order []string
	for _, it := range f.Items {
		key := it.Timestamp.Format("2006-01-02")
		if _, ok := byDay[key]; !ok {
			order = append(order, key)
		}
		byDay[key] = append(byDay[key], it)
	}

	summaries := make([]DailySummary, 0, len(order))
	for _, day := range order {
		items := byDay[day]

		noon := items[0]
		best := noonDistance(items[0])
		minC := ToCelsius(items[0].TemperatureKelvin)
		maxC := minC
		humiditySum := 0
		maxPop := 0.0

		for i, it := range items {
			if i > 0 {
				if d := noonDistance(it); d < best {
					noon, best = it, d
				}
				c := ToCelsius(it.TemperatureKelvin)
				if c < minC {
					minC = c
				}
				if c > maxC {
					maxC = c
				}
			}
			humiditySum += it.Humidity
			if it.PrecipProbability > maxPop {
				maxPop = it.PrecipProbability
			}
		}

		summaries = append(summaries, DailySummary{
			Date:              day,
			DateShort:         day[5:],
			TempMinC:          Round1(minC),
			TempMaxC:          Round1(maxC),
			TempMinF:          Round1(ToFahrenheit(minC)),
			TempMaxF:          Round1(ToFahrenheit(maxC)),
			Condition:         noon.Condition.Main,
			Description:       noon.Condition.Description,
			IconCode:          noon.Condition.IconCode,
			IconURL:           noon.Condition.IconURL(),
			HumidityAvg:       int(math.Round(float64(humiditySum) / float64(len(items)))),
			PrecipProbability: maxPop,
		})
	}
	return summaries
}

func noonDistance(it ForecastItem) int {
	d := it.Timestamp.Hour() - 12
	if d < 0 {
		d = -d
	}
	return d
}
