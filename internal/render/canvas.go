// Package render draws METAR layouts onto a 4-level grayscale canvas.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"sort"
)

// The four shades of the panel's 4-gray mode. Values match the Waveshare
// grayscale palette so the display transfer can quantize by exact value.
const (
	White     uint8 = 0xFF // GRAY1
	LightGray uint8 = 0xC0 // GRAY2
	DarkGray  uint8 = 0x80 // GRAY3
	Black     uint8 = 0x00 // GRAY4
)

// Canvas is a 4-level grayscale drawing surface. It exists for exactly one
// render cycle: created white, mutated in place by one layout routine, then
// handed to the display transfer and discarded.
type Canvas struct {
	img *image.Gray
}

// NewCanvas creates a white canvas of the given size
func NewCanvas(width, height int) *Canvas {
	img := image.NewGray(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Gray{Y: White}}, image.Point{}, draw.Src)
	return &Canvas{img: img}
}

// Image returns the underlying grayscale image
func (c *Canvas) Image() *image.Gray {
	return c.img
}

// Width returns the canvas width in pixels
func (c *Canvas) Width() int {
	return c.img.Rect.Dx()
}

// Height returns the canvas height in pixels
func (c *Canvas) Height() int {
	return c.img.Rect.Dy()
}

// SetPixel sets a single pixel, ignoring out-of-bounds coordinates
func (c *Canvas) SetPixel(x, y int, shade uint8) {
	if image.Pt(x, y).In(c.img.Rect) {
		c.img.SetGray(x, y, color.Gray{Y: shade})
	}
}

// FillRect fills the rectangle spanning (x0,y0)-(x1,y1) inclusive
func (c *Canvas) FillRect(x0, y0, x1, y1 int, shade uint8) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.SetPixel(x, y, shade)
		}
	}
}

// RectOutline draws the one-pixel outline of a rectangle
func (c *Canvas) RectOutline(x0, y0, x1, y1 int, shade uint8) {
	c.Line(x0, y0, x1, y0, shade)
	c.Line(x0, y1, x1, y1, shade)
	c.Line(x0, y0, x0, y1, shade)
	c.Line(x1, y0, x1, y1, shade)
}

// Line draws a line using Bresenham's algorithm
func (c *Canvas) Line(x0, y0, x1, y1 int, shade uint8) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		c.SetPixel(x0, y0, shade)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// VLine draws a vertical line of the given width, centered on x for widths
// greater than one
func (c *Canvas) VLine(x, y0, y1, width int, shade uint8) {
	if width < 1 {
		width = 1
	}
	x0 := x - (width-1)/2
	c.FillRect(x0, y0, x0+width-1, y1, shade)
}

// FillPolygon fills a closed polygon using an even-odd scanline fill
func (c *Canvas) FillPolygon(points []image.Point, shade uint8) {
	if len(points) < 3 {
		return
	}

	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	xs := make([]int, 0, len(points))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		j := len(points) - 1
		for i := 0; i < len(points); i++ {
			pi, pj := points[i], points[j]
			if (pi.Y <= y && pj.Y > y) || (pj.Y <= y && pi.Y > y) {
				// Edge crosses this scanline
				t := float64(y-pi.Y) / float64(pj.Y-pi.Y)
				xs = append(xs, pi.X+int(t*float64(pj.X-pi.X)))
			}
			j = i
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			c.FillRect(xs[i], y, xs[i+1], y, shade)
		}
	}

	// Outline the polygon so single-pixel edges and vertices are not lost
	// to scanline rounding
	j := len(points) - 1
	for i := 0; i < len(points); i++ {
		c.Line(points[j].X, points[j].Y, points[i].X, points[i].Y, shade)
		j = i
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
