// Package display drives the Waveshare 4.2" e-paper panel in 4-gray mode.
package display

import (
	"fmt"
	"image"
)

// Panel dimensions in pixels
const (
	PanelWidth  = 400
	PanelHeight = 300
)

// planeSize is the size of one bit plane in bytes (one bit per pixel)
const planeSize = PanelWidth * PanelHeight / 8

// quantize maps an 8-bit gray value to a 2-bit panel level:
// 0 black, 1 dark gray, 2 light gray, 3 white.
func quantize(pix uint8) uint8 {
	switch {
	case pix >= 0xE0:
		return 3
	case pix >= 0xA0:
		return 2
	case pix >= 0x40:
		return 1
	default:
		return 0
	}
}

// Pack4Gray converts a grayscale frame into the two bit planes the panel's
// 4-gray mode takes. The controller combines one bit from each plane to pick
// the waveform for a pixel: plane1 carries the low bit of the 2-bit level,
// plane2 the high bit.
func Pack4Gray(img *image.Gray) (plane1, plane2 []byte, err error) {
	b := img.Bounds()
	if b.Dx() != PanelWidth || b.Dy() != PanelHeight {
		return nil, nil, fmt.Errorf("frame is %dx%d, panel is %dx%d", b.Dx(), b.Dy(), PanelWidth, PanelHeight)
	}

	plane1 = make([]byte, planeSize)
	plane2 = make([]byte, planeSize)
	for y := 0; y < PanelHeight; y++ {
		for x := 0; x < PanelWidth; x++ {
			level := quantize(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			idx := (y*PanelWidth + x) / 8
			bit := byte(0x80 >> uint(x%8))
			if level&0x01 != 0 {
				plane1[idx] |= bit
			}
			if level&0x02 != 0 {
				plane2[idx] |= bit
			}
		}
	}
	return plane1, plane2, nil
}
