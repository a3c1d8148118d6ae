// Package units maps raw METAR numeric fields to the display units selected
// in the configuration.
package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unit selection flags, matching the display configuration values.
const (
	WindKnots = 0
	WindMPH   = 1
	WindKMH   = 2

	CloudFeet   = 0
	CloudMeters = 1

	VisStatuteMiles = 0
	VisKilometers   = 1

	TempCelsius    = 0
	TempFahrenheit = 1
)

// Conversion factors
const (
	KnotsToMPH   = 1.15078
	KnotsToKMH   = 1.852
	FeetToMeters = 0.3048
	MilesToKM    = 1.609344
)

// Selection holds the configured unit flags for all displayed fields.
type Selection struct {
	WindSpeedUnit   int
	CloudHeightUnit int
	VisibilityUnit  int
	TemperatureUnit int
}

// WindSpeed converts a wind speed in knots to the selected unit.
// Returns the converted value and its label ("kts", "mph", "km/h").
func (s Selection) WindSpeed(knots float64) (float64, string) {
	switch s.WindSpeedUnit {
	case WindMPH:
		return knots * KnotsToMPH, "mph"
	case WindKMH:
		return knots * KnotsToKMH, "km/h"
	default:
		return knots, "kts"
	}
}

// CloudHeight converts a cloud base in feet to the selected unit.
// Returns the converted value and its label ("ft", "m").
func (s Selection) CloudHeight(feet int) (int, string) {
	if s.CloudHeightUnit == CloudMeters {
		return int(math.Round(float64(feet) * FeetToMeters)), "m"
	}
	return feet, "ft"
}

// Visibility converts a visibility in statute miles to the selected unit.
// Returns the converted value and its label ("SM", "km").
func (s Selection) Visibility(miles float64) (float64, string) {
	if s.VisibilityUnit == VisKilometers {
		return miles * MilesToKM, "km"
	}
	return miles, "SM"
}

// Temperature converts a temperature in Celsius to the selected unit.
// Returns the converted value and its label ("°C", "°F").
func (s Selection) Temperature(celsius float64) (float64, string) {
	if s.TemperatureUnit == TempFahrenheit {
		return celsius*9.0/5.0 + 32.0, "°F"
	}
	return celsius, "°C"
}

// FormatVisibility renders a visibility value for display, trimming
// trailing zeros ("10 SM", "2.5 SM", "0.25 SM").
func (s Selection) FormatVisibility(miles float64) string {
	v, label := s.Visibility(miles)
	text := strconv.FormatFloat(v, 'f', 2, 64)
	text = strings.TrimRight(text, "0")
	text = strings.TrimRight(text, ".")
	return fmt.Sprintf("%s %s", text, label)
}

// ParseNumber parses a numeric string from a METAR field. Strings that fail
// to parse (including the "Calm" and "VRB" sentinels) are treated as 0
// rather than an error, matching how calm/unknown winds are displayed.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	// "10+" style visibility caps parse as their numeric prefix
	raw = strings.TrimSuffix(raw, "+")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
