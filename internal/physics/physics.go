// Package physics holds the small amount of aviation math the display
// needs: wind components relative to a runway and magnetic variation at
// the station.
package physics

import (
	"fmt"
	"math"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
)

// Conversion constants
const (
	FeetToMeters = 0.3048
	DegToRad     = math.Pi / 180.0
)

// WindComponents resolves a wind vector into headwind and crosswind
// components for a runway. Positive headwind blows down the runway toward
// the threshold; positive crosswind blows from the right.
func WindComponents(windDirDeg, windSpeedKts, runwayHeadingDeg float64) (headwind, crosswind float64) {
	relRad := (windDirDeg - runwayHeadingDeg) * DegToRad
	headwind = windSpeedKts * math.Cos(relRad)
	crosswind = windSpeedKts * math.Sin(relRad)
	return headwind, crosswind
}

// CalculateMagneticVariation calculates the magnetic declination for a given
// position and time. Returns declination in degrees (+East, -West); 0 when
// the model cannot produce a value.
func CalculateMagneticVariation(lat, lon, altFt float64, date time.Time) float64 {
	altM := altFt * FeetToMeters

	loc := egm96.NewLocationGeodetic(lat, lon, altM)

	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		return 0.0
	}

	return mag.D() // Declination
}

// FormatVariation renders a declination in the conventional "10.5°W" form
func FormatVariation(declinationDeg float64) string {
	suffix := "E"
	v := declinationDeg
	if v < 0 {
		suffix = "W"
		v = -v
	}
	return fmt.Sprintf("%.1f°%s", v, suffix)
}
