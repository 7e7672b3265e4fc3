package domain

import "math"

const zeroCelsiusKelvin = 273.15

// ToCelsius converts a Kelvin temperature to Celsius.
func ToCelsius(kelvin float64) float64 {
	return kelvin - zeroCelsiusKelvin
}

// ToFahrenheit converts a Celsius temperature to Fahrenheit.
func ToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// Round1 rounds to 1 decimal place. Used at the display and export
// boundaries only; stored values stay unrounded.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
