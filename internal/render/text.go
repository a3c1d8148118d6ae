package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DrawText draws a string with (x, y) as the top-left corner of the text
// box. The layouts were tuned against top-left anchoring, so the baseline
// offset is derived from the face's ascent.
func (c *Canvas) DrawText(x, y int, s string, face font.Face, shade uint8) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(color.Gray{Y: shade}),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// TextWidth returns the advance width of a string in pixels
func TextWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// TextHeight returns the line height of a face in pixels
func TextHeight(face font.Face) int {
	m := face.Metrics()
	return (m.Ascent + m.Descent).Ceil()
}

// CenterX returns the x coordinate that horizontally centers a string
// within the given total width
func CenterX(width int, s string, face font.Face) int {
	return (width - TextWidth(face, s)) / 2
}
