package render

import (
	"fmt"
	"image"
	"math"
)

// RunwayGeometry holds the pixel constants of the runway diagram. The
// values were tuned visually against the 400x300 panel and are kept
// configurable rather than derived.
type RunwayGeometry struct {
	CenterX     int // horizontal center of the visualization
	CenterY     int // base Y of the visualization area
	BaseYOffset int // runway center offset below CenterY
	WidthNear   int // width of the near (bottom) runway edge
	WidthFar    int // width of the far (top) runway edge
	Length      int // runway length on screen

	DashLength int // centerline dash length
	GapLength  int // centerline gap length

	NumberInset   int // runway number inset from the near edge
	NumberYAdjust int // extra upward shift of the runway number
}

// ArrowGeometry holds the pixel constants of the wind arrow
type ArrowGeometry struct {
	Length         int     // total arrow length
	HeadLength     int     // arrowhead length
	ShaftWidthNear float64 // shaft width where the head attaches
	HeadWidth      float64 // arrowhead base width
	BaseYOffset    int     // arrow anchor offset above CenterY
}

// tickOffsets are the symmetric horizontal offsets of the eight runway
// threshold marks
var tickOffsets = [8]int{-25, -18, -11, -4, 4, 11, 18, 25}

// WindViz draws the runway diagram with a wind arrow rotated to show wind
// direction relative to the runway heading.
type WindViz struct {
	Runway        RunwayGeometry
	Arrow         ArrowGeometry
	RunwayHeading float64 // degrees, e.g. 180 for runway 18
}

// NewWindViz returns a visualization with the tuned default geometry,
// centered horizontally on a canvas of the given width.
func NewWindViz(canvasWidth, runwayNumber int) WindViz {
	return WindViz{
		Runway: RunwayGeometry{
			CenterX:       canvasWidth / 2,
			CenterY:       170,
			BaseYOffset:   35,
			WidthNear:     85,
			WidthFar:      50,
			Length:        55,
			DashLength:    6,
			GapLength:     4,
			NumberInset:   6,
			NumberYAdjust: 13,
		},
		Arrow: ArrowGeometry{
			Length:         35,
			HeadLength:     18,
			ShaftWidthNear: 14,
			HeadWidth:      25,
			BaseYOffset:    -25,
		},
		RunwayHeading: float64(runwayNumber) * 10,
	}
}

// NormalizeRelativeAngle normalizes an angle in degrees into (-180, 180]
// by repeated ±360 adjustment.
func NormalizeRelativeAngle(deg float64) float64 {
	for deg > 180 {
		deg -= 360
	}
	for deg <= -180 {
		deg += 360
	}
	return deg
}

// TaperRatio returns the runway's far/near width ratio used to taper the
// arrow shaft. A zero near width yields ratio 1 (no taper).
func (v WindViz) TaperRatio() float64 {
	if v.Runway.WidthNear == 0 {
		return 1
	}
	return float64(v.Runway.WidthFar) / float64(v.Runway.WidthNear)
}

// ArrowPolygons computes the rotated shaft trapezoid and head triangle for
// the given wind direction, in screen coordinates.
func (v WindViz) ArrowPolygons(windDirDeg float64) (shaft, head []image.Point) {
	relativeAngle := NormalizeRelativeAngle(windDirDeg - v.RunwayHeading)
	angleRad := relativeAngle * math.Pi / 180
	cosA := math.Cos(angleRad)
	sinA := math.Sin(angleRad)

	anchorX := float64(v.Runway.CenterX)
	anchorY := float64(v.Runway.CenterY + v.Arrow.BaseYOffset)

	rotate := func(x, y float64) image.Point {
		return image.Pt(
			int(anchorX+x*cosA-y*sinA),
			int(anchorY+x*sinA+y*cosA),
		)
	}

	// The shaft tapers to match the runway's perspective: the tail (far)
	// half-width is the head-base (near) half-width scaled by the runway's
	// far/near width ratio.
	nearHalfW := v.Arrow.ShaftWidthNear / 2
	farHalfW := nearHalfW * v.TaperRatio()

	shaftLen := float64(v.Arrow.Length - v.Arrow.HeadLength)
	shaftHalfL := shaftLen / 2

	shaft = []image.Point{
		rotate(-farHalfW, -shaftHalfL), // tail left
		rotate(farHalfW, -shaftHalfL),  // tail right
		rotate(nearHalfW, shaftHalfL),  // head base right
		rotate(-nearHalfW, shaftHalfL), // head base left
	}

	headBaseY := shaftHalfL
	headTipY := headBaseY + float64(v.Arrow.HeadLength)
	headHalfW := v.Arrow.HeadWidth / 2
	head = []image.Point{
		rotate(0, headTipY),           // tip
		rotate(-headHalfW, headBaseY), // base left
		rotate(headHalfW, headBaseY),  // base right
	}

	return shaft, head
}

// Draw renders the runway diagram and, when the wind is neither calm nor of
// unknown direction, the wind arrow. Z-order: arrow shaft, arrow head,
// runway fill, centerline dashes, runway number, threshold ticks.
func (v WindViz) Draw(c *Canvas, fonts *FontSet, windDirDeg, windSpeedKts float64, runwayNumber int) {
	if windSpeedKts > 0 && windDirDeg > 0 {
		shaft, head := v.ArrowPolygons(windDirDeg)
		c.FillPolygon(shaft, DarkGray)
		c.FillPolygon(head, DarkGray)
	}

	centerX := v.Runway.CenterX
	baseY := v.Runway.CenterY + v.Runway.BaseYOffset
	halfNear := v.Runway.WidthNear / 2
	halfFar := v.Runway.WidthFar / 2
	halfLen := v.Runway.Length / 2

	c.FillPolygon([]image.Point{
		image.Pt(centerX-halfNear, baseY+halfLen),
		image.Pt(centerX-halfFar, baseY-halfLen),
		image.Pt(centerX+halfFar, baseY-halfLen),
		image.Pt(centerX+halfNear, baseY+halfLen),
	}, Black)

	// Dashed centerline: exactly two dashes from the far end
	yStart := baseY - halfLen + v.Runway.GapLength
	yEnd := baseY + halfLen - v.Runway.GapLength
	for y := yStart; y < yStart+16; y += v.Runway.DashLength + v.Runway.GapLength {
		dashEnd := y + v.Runway.DashLength
		if dashEnd > yEnd {
			dashEnd = yEnd
		}
		c.VLine(centerX, y, dashEnd, 2, White)
	}

	// Runway number on the near end
	numberText := fmt.Sprintf("%02d", runwayNumber)
	numberFont := fonts.Bold36
	numberW := TextWidth(numberFont, numberText)
	numberH := TextHeight(numberFont)
	numberX := centerX - numberW/2
	numberY := baseY + halfLen - numberH - v.Runway.NumberInset - v.Runway.NumberYAdjust
	c.DrawText(numberX, numberY, numberText, numberFont, White)

	// Threshold tick marks on the near edge
	markerY1 := baseY + halfLen - 5
	markerY2 := baseY + halfLen
	for _, offset := range tickOffsets {
		c.Line(centerX+offset, markerY1, centerX+offset, markerY2, White)
	}
}
