package render

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// FontSet holds the monospace faces used by the layouts, mirroring the
// regular/bold pairs at 16/24/36/48 px that the layouts were tuned against.
type FontSet struct {
	Regular16 font.Face
	Bold16    font.Face
	Regular24 font.Face
	Bold24    font.Face
	Regular36 font.Face
	Bold36    font.Face
	Regular48 font.Face
	Bold48    font.Face
}

// NewFontSet builds the font set from the embedded Go Mono faces
func NewFontSet() (*FontSet, error) {
	regular, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}

	fs := &FontSet{}
	sizes := []struct {
		size    float64
		regular *font.Face
		bold    *font.Face
	}{
		{16, &fs.Regular16, &fs.Bold16},
		{24, &fs.Regular24, &fs.Bold24},
		{36, &fs.Regular36, &fs.Bold36},
		{48, &fs.Regular48, &fs.Bold48},
	}
	for _, s := range sizes {
		*s.regular, err = opentype.NewFace(regular, &opentype.FaceOptions{
			Size:    s.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %gpx regular face: %w", s.size, err)
		}
		*s.bold, err = opentype.NewFace(bold, &opentype.FaceOptions{
			Size:    s.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create %gpx bold face: %w", s.size, err)
		}
	}
	return fs, nil
}

// BasicFontSet returns a fallback font set built on the fixed 7x13 face,
// used when the embedded fonts cannot be loaded
func BasicFontSet() *FontSet {
	face := basicfont.Face7x13
	return &FontSet{
		Regular16: face,
		Bold16:    face,
		Regular24: face,
		Bold24:    face,
		Regular36: face,
		Bold36:    face,
		Regular48: face,
		Bold48:    face,
	}
}
