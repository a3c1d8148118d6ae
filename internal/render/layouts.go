package render

import (
	"fmt"
	"math"
	"time"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/internal/physics"
	"github.com/yegors/metar-epd/internal/units"
	"github.com/yegors/metar-epd/internal/weather"
	"github.com/yegors/metar-epd/pkg/logger"
)

// Layout pixel constants shared by the layouts
const (
	headerHeight = 65
	windInfoY    = 85
	columnsY     = 125
	columnStep   = 55
	leftMargin   = 10
	maxWxChars   = 25
)

// Layout is a named drawing routine. Exactly one layout runs per render
// cycle and is the sole writer of the canvas during that cycle.
type Layout struct {
	Name string
	Draw func(c *Canvas, report *weather.Report, now time.Time)
}

// Renderer owns the fonts, unit selection, and station settings the
// layouts draw with.
type Renderer struct {
	fonts   *FontSet
	units   units.Selection
	station config.StationConfig
	logger  *logger.Logger

	showRemarks bool
}

// NewRenderer creates a renderer for the given station and unit selection
func NewRenderer(fonts *FontSet, sel units.Selection, station config.StationConfig, showRemarks bool, logger *logger.Logger) *Renderer {
	return &Renderer{
		fonts:       fonts,
		units:       sel,
		station:     station,
		logger:      logger.Named("render"),
		showRemarks: showRemarks,
	}
}

// Layouts returns the ordered list of available layouts. Layout indices in
// the configuration refer to positions in this list.
func (r *Renderer) Layouts() []Layout {
	return []Layout{
		{Name: "wind", Draw: r.layoutWind},
		{Name: "bigtext", Draw: r.layoutBigText},
		{Name: "detail", Draw: r.layoutDetail},
	}
}

// layoutWind is the wind visualization layout: header, wind summary, side
// columns, runway diagram with wind arrow, footer.
func (r *Renderer) layoutWind(c *Canvas, report *weather.Report, now time.Time) {
	r.drawHeader(c, report)

	c.DrawText(leftMargin, windInfoY, r.windText(report), r.fonts.Bold24, Black)

	// Left column
	yPos := columnsY
	c.DrawText(leftMargin, yPos, "Weather:", r.fonts.Bold16, Black)
	descript := report.Description
	if descript == "" {
		descript = "N/A"
	}
	c.DrawText(leftMargin+5, yPos+20, truncate(descript, maxWxChars), r.fonts.Regular16, Black)
	if len(descript) > maxWxChars {
		c.DrawText(leftMargin+5, yPos+40, truncate(descript[maxWxChars:], maxWxChars), r.fonts.Regular16, Black)
	}
	yPos += columnStep

	c.DrawText(leftMargin, yPos, "Clouds:", r.fonts.Bold16, Black)
	if len(report.Clouds) > 0 {
		for i := 0; i < len(report.Clouds) && i < 2; i++ {
			layer := report.Clouds[i]
			height, heightUnit := r.units.CloudHeight(layer.BaseFt)
			c.DrawText(leftMargin+5, yPos+20+i*20,
				fmt.Sprintf("%s %d%s", layer.Cover, height, heightUnit),
				r.fonts.Regular16, Black)
		}
	} else {
		c.DrawText(leftMargin+5, yPos+20, "Clear", r.fonts.Regular16, Black)
	}
	yPos += columnStep

	c.DrawText(leftMargin, yPos, "Visibility:", r.fonts.Bold16, Black)
	c.DrawText(leftMargin+5, yPos+20, r.visibilityText(report), r.fonts.Regular16, Black)

	// Right column
	rightX := c.Width() - 100
	c.DrawText(rightX, columnsY, "Temp:", r.fonts.Bold16, Black)
	c.DrawText(rightX+5, columnsY+20, r.temperatureText(report), r.fonts.Regular16, Black)

	// Center visualization
	viz := NewWindViz(c.Width(), r.station.RunwayNumber)
	windDir := float64(report.WindDir)
	if report.WindVariable {
		windDir = 0
	}
	viz.Draw(c, r.fonts, windDir, report.WindSpeedKts, r.station.RunwayNumber)

	r.drawFooter(c, now)
}

// layoutBigText shows the airport, category, and the raw METAR text
func (r *Renderer) layoutBigText(c *Canvas, report *weather.Report, now time.Time) {
	airport := report.Airport
	c.DrawText(CenterX(c.Width(), airport, r.fonts.Bold48), 10, airport, r.fonts.Bold48, Black)

	category := string(report.Category)
	catX := CenterX(c.Width(), category, r.fonts.Bold36)
	catW := TextWidth(r.fonts.Bold36, category)
	catH := TextHeight(r.fonts.Bold36)
	switch report.Category {
	case weather.CategoryVFR, weather.CategoryMVFR:
		c.DrawText(catX, 70, category, r.fonts.Bold36, Black)
	default:
		c.FillRect(catX-5, 65, catX+catW+5, 70+catH, Black)
		c.DrawText(catX, 70, category, r.fonts.Bold36, White)
	}

	raw := report.Raw
	if raw == "" {
		raw = "No METAR text available"
	}
	y := 130
	for _, line := range wrapText(raw, 38) {
		if y > c.Height()-40 {
			break
		}
		c.DrawText(leftMargin, y, line, r.fonts.Regular16, Black)
		y += 22
	}

	r.drawFooter(c, now)
}

// layoutDetail lists every decoded field plus derived station data
func (r *Renderer) layoutDetail(c *Canvas, report *weather.Report, now time.Time) {
	r.drawHeader(c, report)

	type row struct {
		label string
		value string
	}
	rows := []row{
		{"Wind", r.windValueText(report)},
		{"Visibility", r.visibilityText(report)},
		{"Temp", r.temperatureText(report)},
		{"Dewpoint", r.dewpointText(report)},
		{"Clouds", r.cloudSummary(report)},
	}

	if report.WindSpeedKts > 0 && report.WindDir > 0 {
		headwind, crosswind := physics.WindComponents(
			float64(report.WindDir), report.WindSpeedKts,
			float64(r.station.RunwayNumber)*10)
		rows = append(rows, row{
			fmt.Sprintf("Rwy %02d", r.station.RunwayNumber),
			fmt.Sprintf("%+.0f head / %+.0f cross kts", headwind, crosswind),
		})
	}

	variation := physics.CalculateMagneticVariation(
		r.station.Latitude, r.station.Longitude,
		float64(r.station.ElevationFeet), now)
	rows = append(rows, row{"MagVar", physics.FormatVariation(variation)})

	y := 80
	for _, rw := range rows {
		c.DrawText(leftMargin, y, rw.label+":", r.fonts.Bold16, Black)
		c.DrawText(leftMargin+120, y, rw.value, r.fonts.Regular16, Black)
		y += 24
	}

	if r.showRemarks && report.Remarks != "" {
		c.DrawText(leftMargin, y+4, "Remarks:", r.fonts.Bold16, Black)
		y += 28
		entries := weather.DecodeRemarks(report.Remarks)
		if len(entries) == 0 {
			for _, line := range wrapText(report.Remarks, 44) {
				if y > c.Height()-40 {
					break
				}
				c.DrawText(leftMargin+5, y, line, r.fonts.Regular16, DarkGray)
				y += 20
			}
		}
		for _, entry := range entries {
			if y > c.Height()-40 {
				break
			}
			c.DrawText(leftMargin+5, y, fmt.Sprintf("%s  %s", entry.Code, entry.Meaning), r.fonts.Regular16, DarkGray)
			y += 20
		}
	}

	r.drawFooter(c, now)
}

// drawHeader draws the black header band with the airport identifier and
// the flight category badge.
func (r *Renderer) drawHeader(c *Canvas, report *weather.Report) {
	c.FillRect(0, 0, c.Width(), headerHeight, Black)
	c.DrawText(leftMargin, 10, truncate(report.Airport, 10), r.fonts.Bold48, White)

	category := string(report.Category)
	fcX := c.Width() - 75
	fcY := 15
	fcFont := r.fonts.Bold24
	switch report.Category {
	case weather.CategoryVFR, weather.CategoryMVFR:
		c.DrawText(fcX, fcY, category, fcFont, White)
	default:
		// IFR, LIFR, and unknown get a badge box
		fcW := TextWidth(fcFont, category)
		fcH := TextHeight(fcFont)
		boxMargin := 5
		c.FillRect(fcX-boxMargin, fcY-boxMargin, fcX+fcW+boxMargin, fcY+fcH+boxMargin, White)
		c.DrawText(fcX, fcY, category, fcFont, Black)
	}
}

// drawFooter draws the last-updated timestamp right-aligned at the bottom
func (r *Renderer) drawFooter(c *Canvas, now time.Time) {
	text := "Last Updated at " + now.Format("15:04 MST")
	w := TextWidth(r.fonts.Regular16, text)
	h := TextHeight(r.fonts.Regular16)
	c.DrawText(c.Width()-w-leftMargin, c.Height()-h-5, text, r.fonts.Regular16, Black)
}

// DrawNoData draws the fallback message when no report is available. The
// rest of the cycle proceeds with an otherwise blank screen.
func (r *Renderer) DrawNoData(c *Canvas, airport string, now time.Time) {
	c.DrawText(20, 100, fmt.Sprintf("No METAR Data for %s", airport), r.fonts.Regular24, Black)
	r.drawFooter(c, now)
}

// DrawSelectionError draws a visible message for a layout-selection failure
func (r *Renderer) DrawSelectionError(c *Canvas, err error) {
	c.DrawText(10, 100, fmt.Sprintf("Error: %v", err), r.fonts.Regular24, Black)
}

// DrawErrorScreen draws the cycle-failure screen shown before the 60s retry
func (r *Renderer) DrawErrorScreen(c *Canvas, err error, location string) {
	msg1 := "- Error Occurred -"
	msg2 := "Check Logs. Retrying in 60s..."
	c.DrawText(CenterX(c.Width(), msg1, r.fonts.Bold36), 80, msg1, r.fonts.Bold36, Black)
	c.DrawText(CenterX(c.Width(), msg2, r.fonts.Regular24), 130, msg2, r.fonts.Regular24, Black)

	if location != "" {
		c.DrawText(20, 180, fmt.Sprintf("At: %s", location), r.fonts.Regular16, DarkGray)
	}
	c.DrawText(20, 200, truncate(fmt.Sprintf("%v", err), 40), r.fonts.Regular16, DarkGray)
}

func (r *Renderer) windText(report *weather.Report) string {
	speed, speedUnit := r.units.WindSpeed(report.WindSpeedKts)
	switch {
	case report.WindVariable:
		return fmt.Sprintf("Wind: VRB at %d %s", int(math.Round(speed)), speedUnit)
	case report.WindSpeedKts <= 0:
		return "Wind: Calm"
	default:
		return fmt.Sprintf("Wind: %03d° at %d %s", report.WindDir, int(math.Round(speed)), speedUnit)
	}
}

func (r *Renderer) windValueText(report *weather.Report) string {
	text := r.windText(report)
	if report.WindGustKts > 0 {
		gust, gustUnit := r.units.WindSpeed(report.WindGustKts)
		text += fmt.Sprintf(" G%d %s", int(math.Round(gust)), gustUnit)
	}
	return text[len("Wind: "):]
}

func (r *Renderer) visibilityText(report *weather.Report) string {
	if !report.HasVisibility {
		return "N/A"
	}
	return r.units.FormatVisibility(report.VisibilitySM)
}

func (r *Renderer) temperatureText(report *weather.Report) string {
	if !report.HasTemp {
		return "N/A"
	}
	temp, unit := r.units.Temperature(report.TempC)
	return fmt.Sprintf("%.0f%s", temp, unit)
}

func (r *Renderer) dewpointText(report *weather.Report) string {
	if !report.HasDewp {
		return "N/A"
	}
	dewp, unit := r.units.Temperature(report.DewpC)
	return fmt.Sprintf("%.0f%s", dewp, unit)
}

func (r *Renderer) cloudSummary(report *weather.Report) string {
	if len(report.Clouds) == 0 {
		return "Clear"
	}
	text := ""
	for i, layer := range report.Clouds {
		if i >= 3 {
			break
		}
		if i > 0 {
			text += ", "
		}
		height, unit := r.units.CloudHeight(layer.BaseFt)
		text += fmt.Sprintf("%s %d%s", layer.Cover, height, unit)
	}
	return text
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// wrapText splits a string into lines of at most n characters, breaking on
// spaces where possible.
func wrapText(s string, n int) []string {
	var lines []string
	for len(s) > n {
		cut := n
		for i := n; i > 0; i-- {
			if s[i-1] == ' ' {
				cut = i - 1
				break
			}
		}
		if cut == 0 {
			cut = n
		}
		lines = append(lines, s[:cut])
		s = s[cut:]
		for len(s) > 0 && s[0] == ' ' {
			s = s[1:]
		}
	}
	if len(s) > 0 {
		lines = append(lines, s)
	}
	return lines
}
