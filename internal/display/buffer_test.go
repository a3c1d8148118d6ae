package display

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		pix  uint8
		want uint8
	}{
		{0xFF, 3},
		{0xE0, 3},
		{0xC0, 2},
		{0xA0, 2},
		{0x80, 1},
		{0x40, 1},
		{0x3F, 0},
		{0x00, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quantize(tt.pix), "pixel 0x%02X", tt.pix)
	}
}

func TestPack4GrayRejectsWrongSize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	_, _, err := Pack4Gray(img)
	assert.Error(t, err)
}

func TestPack4GrayAllWhite(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, PanelWidth, PanelHeight))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}

	plane1, plane2, err := Pack4Gray(img)
	require.NoError(t, err)
	require.Len(t, plane1, planeSize)
	require.Len(t, plane2, planeSize)

	for i := range plane1 {
		assert.Equal(t, byte(0xFF), plane1[i])
		assert.Equal(t, byte(0xFF), plane2[i])
	}
}

func TestPack4GrayAllBlack(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, PanelWidth, PanelHeight))

	plane1, plane2, err := Pack4Gray(img)
	require.NoError(t, err)
	for i := range plane1 {
		assert.Equal(t, byte(0x00), plane1[i])
		assert.Equal(t, byte(0x00), plane2[i])
	}
}

func TestPack4GraySplitsLevelBits(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, PanelWidth, PanelHeight))

	// First pixel dark gray (level 1), second light gray (level 2)
	img.Pix[0] = 0x80
	img.Pix[1] = 0xC0

	plane1, plane2, err := Pack4Gray(img)
	require.NoError(t, err)

	// Level 1: low bit only. Level 2: high bit only. MSB-first packing.
	assert.Equal(t, byte(0x80), plane1[0])
	assert.Equal(t, byte(0x40), plane2[0])
}
