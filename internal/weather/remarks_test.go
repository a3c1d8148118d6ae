package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRemarks(t *testing.T) {
	entries := DecodeRemarks("AO2 SLP013 T01220100 $")

	require.Len(t, entries, 3)
	assert.Equal(t, "AO2", entries[0].Code)
	assert.Equal(t, "SLP013", entries[1].Code)
	assert.Equal(t, "Sea level pressure 1001.3 hPa", entries[1].Meaning)
	assert.Equal(t, "$", entries[2].Code)
}

func TestDecodeRemarksHighPressureOffset(t *testing.T) {
	entries := DecodeRemarks("SLP982")

	require.Len(t, entries, 1)
	assert.Equal(t, "Sea level pressure 998.2 hPa", entries[0].Meaning)
}

func TestDecodeRemarksPeakWind(t *testing.T) {
	entries := DecodeRemarks("PK WND 28045/2215 PRESFR")

	require.Len(t, entries, 2)
	assert.Equal(t, "PK WND 28045/2215", entries[0].Code)
	assert.Equal(t, "PRESFR", entries[1].Code)
}

func TestDecodeRemarksEmpty(t *testing.T) {
	assert.Nil(t, DecodeRemarks(""))
	assert.Empty(t, DecodeRemarks("UNRECOGNIZED TOKENS"))
}
