package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRelativeAngle(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0, 0},
		{45, 45},
		{180, 180},
		{-180, 180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{540, 180},
		{720, 0},
		{-350, 10},
	}

	for _, tt := range tests {
		got := NormalizeRelativeAngle(tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "input %v", tt.in)
		assert.Greater(t, got, -180.0)
		assert.LessOrEqual(t, got, 180.0)
	}
}

func TestTaperRatio(t *testing.T) {
	v := NewWindViz(400, 18)
	assert.InDelta(t, 50.0/85.0, v.TaperRatio(), 1e-9)

	v.Runway.WidthNear = 0
	assert.Equal(t, 1.0, v.TaperRatio())
}

func TestArrowPolygonsZeroRotation(t *testing.T) {
	// Wind straight down runway 18: relative angle is zero, so the arrow
	// points straight down the screen with no rotation.
	v := NewWindViz(400, 18)
	shaft, head := v.ArrowPolygons(180)

	require.Len(t, shaft, 4)
	require.Len(t, head, 3)

	anchorX := 200
	anchorY := v.Runway.CenterY + v.Arrow.BaseYOffset

	// Head tip lies on the vertical axis below the anchor
	assert.Equal(t, anchorX, head[0].X)
	assert.Greater(t, head[0].Y, anchorY)

	// Tail edge is horizontal and above the anchor
	assert.Equal(t, shaft[0].Y, shaft[1].Y)
	assert.Less(t, shaft[0].Y, anchorY)

	// Shaft tapers: tail is narrower than the head base
	tailWidth := shaft[1].X - shaft[0].X
	baseWidth := shaft[2].X - shaft[3].X
	assert.Less(t, tailWidth, baseWidth)
}

func TestArrowPolygonsQuarterTurn(t *testing.T) {
	// Wind from 270 against runway 18 is a 90 degree relative angle: the
	// head tip rotates from below the anchor to the left of it.
	v := NewWindViz(400, 18)
	_, head := v.ArrowPolygons(270)

	anchorY := v.Runway.CenterY + v.Arrow.BaseYOffset
	assert.Less(t, head[0].X, 200)
	assert.Equal(t, anchorY, head[0].Y)
}

func TestDrawSkipsArrowForCalmOrUnknownWind(t *testing.T) {
	fonts := BasicFontSet()
	for _, tt := range []struct {
		name     string
		dir, spd float64
	}{
		{"calm", 180, 0},
		{"unknown direction", 0, 12},
	} {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(400, 300)
			v := NewWindViz(c.Width(), 18)
			v.Draw(c, fonts, tt.dir, tt.spd, 18)

			img := c.Image()
			for i, p := range img.Pix {
				if p == DarkGray {
					t.Fatalf("arrow pixel drawn at offset %d", i)
				}
			}
		})
	}
}

func TestDrawRendersArrowAndRunway(t *testing.T) {
	fonts := BasicFontSet()
	c := NewCanvas(400, 300)
	v := NewWindViz(c.Width(), 18)
	v.Draw(c, fonts, 90, 10, 18)

	img := c.Image()
	var arrowPixels, blackPixels int
	for _, p := range img.Pix {
		switch p {
		case DarkGray:
			arrowPixels++
		case Black:
			blackPixels++
		}
	}
	assert.Greater(t, arrowPixels, 0, "expected arrow pixels")
	assert.Greater(t, blackPixels, 0, "expected runway pixels")

	// Centerline dash starts one gap below the far threshold
	baseY := v.Runway.CenterY + v.Runway.BaseYOffset
	dashY := baseY - v.Runway.Length/2 + v.Runway.GapLength
	assert.Equal(t, uint8(White), img.GrayAt(200, dashY).Y)
}

func TestRunwayFillIsSolidBlack(t *testing.T) {
	fonts := BasicFontSet()
	c := NewCanvas(400, 300)
	v := NewWindViz(c.Width(), 18)
	v.Draw(c, fonts, 180, 15, 18)

	baseY := v.Runway.CenterY + v.Runway.BaseYOffset
	farY := baseY - v.Runway.Length/2
	assert.Equal(t, uint8(Black), c.Image().GrayAt(190, farY+2).Y)
}
