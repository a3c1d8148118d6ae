package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/metar-epd/internal/config"
	"github.com/yegors/metar-epd/internal/units"
	"github.com/yegors/metar-epd/internal/weather"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	station := config.StationConfig{
		AirportCode:   "KFLG",
		Latitude:      35.14,
		Longitude:     -111.67,
		ElevationFeet: 7015,
		RunwayNumber:  21,
	}
	return NewRenderer(BasicFontSet(), units.Selection{}, station, true, testLogger(t))
}

func testReport() *weather.Report {
	return &weather.Report{
		Airport:       "KFLG",
		ObservedAt:    time.Date(2024, 1, 9, 22, 51, 0, 0, time.UTC),
		WindDir:       210,
		WindSpeedKts:  12,
		WindGustKts:   18,
		VisibilitySM:  10,
		HasVisibility: true,
		TempC:         4,
		HasTemp:       true,
		DewpC:         -2,
		HasDewp:       true,
		Clouds: []weather.CloudLayer{
			{Cover: "SCT", BaseFt: 4500},
			{Cover: "BKN", BaseFt: 8000},
		},
		Category:    weather.CategoryVFR,
		Description: "Light Snow",
		Remarks:     "AO2 SLP123",
		Raw:         "KFLG 092251Z 21012G18KT 10SM -SN SCT045 BKN080 04/M02 A3002 RMK AO2 SLP123",
	}
}

func TestEveryLayoutDraws(t *testing.T) {
	r := testRenderer(t)
	layouts := r.Layouts()
	require.Len(t, layouts, 3)

	now := time.Now()
	for _, layout := range layouts {
		t.Run(layout.Name, func(t *testing.T) {
			c := NewCanvas(400, 300)
			layout.Draw(c, testReport(), now)

			// Every layout puts ink on the canvas
			var inked int
			for _, p := range c.Image().Pix {
				if p != White {
					inked++
				}
			}
			assert.Greater(t, inked, 100)
		})
	}
}

func TestWindLayoutHeaderBand(t *testing.T) {
	r := testRenderer(t)
	c := NewCanvas(400, 300)
	r.layoutWind(c, testReport(), time.Now())

	// Header band is solid black at its corners (outside any text)
	img := c.Image()
	assert.Equal(t, uint8(Black), img.GrayAt(2, 2).Y)
	assert.Equal(t, uint8(Black), img.GrayAt(2, 62).Y)
}

func TestWindLayoutHandlesDegradedReport(t *testing.T) {
	r := testRenderer(t)
	c := NewCanvas(400, 300)

	// Calm wind, nothing reported: the layout still draws with sentinels
	report := &weather.Report{
		Airport:  "N/A",
		Category: weather.CategoryUnknown,
	}
	r.layoutWind(c, report, time.Now())

	var inked int
	for _, p := range c.Image().Pix {
		if p != White {
			inked++
		}
	}
	assert.Greater(t, inked, 100)
}

func TestFallbackScreens(t *testing.T) {
	r := testRenderer(t)

	c := NewCanvas(400, 300)
	r.DrawNoData(c, "KFLG", time.Now())
	var inked int
	for _, p := range c.Image().Pix {
		if p != White {
			inked++
		}
	}
	assert.Greater(t, inked, 0)

	c = NewCanvas(400, 300)
	r.DrawErrorScreen(c, assert.AnError, "KFLG")
	inked = 0
	for _, p := range c.Image().Pix {
		if p != White {
			inked++
		}
	}
	assert.Greater(t, inked, 0)
}

func TestWrapText(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrapText("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrapText("one two three", 8))
	assert.Equal(t, []string{"abcdefgh", "ij"}, wrapText("abcdefghij", 8))
	assert.Nil(t, wrapText("", 8))
}
