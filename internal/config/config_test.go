package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EPD.Simulate = true
	require.NoError(t, cfg.Validate())
}

func TestValidateUppercasesAirportCode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EPD.Simulate = true
	cfg.Station.AirportCode = "kbos"

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "KBOS", cfg.Station.AirportCode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty airport", func(c *Config) { c.Station.AirportCode = "" }},
		{"long airport", func(c *Config) { c.Station.AirportCode = "TOOLONG" }},
		{"runway zero", func(c *Config) { c.Station.RunwayNumber = 0 }},
		{"runway too high", func(c *Config) { c.Station.RunwayNumber = 37 }},
		{"layout below sentinels", func(c *Config) { c.Display.Layout = -3 }},
		{"negative interval", func(c *Config) { c.Display.IntervalSecs = -5 }},
		{"bad wind units", func(c *Config) { c.Display.WindSpeedUnits = 3 }},
		{"bad preferred list", func(c *Config) { c.Display.PreferredLayouts = "1,x" }},
		{"no epd pins", func(c *Config) { c.EPD.Simulate = false; c.EPD.DCPin = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.EPD.Simulate = true
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParsePreferredLayouts(t *testing.T) {
	parse := func(s string) ([]int, error) {
		d := DisplayConfig{PreferredLayouts: s}
		return d.ParsePreferredLayouts()
	}

	got, err := parse("na")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parse("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parse("2,0")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, got)

	got, err = parse("20")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, got)

	_, err = parse("a,b")
	assert.Error(t, err)

	_, err = parse("1x")
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[station]
airport_code = "cyyz"
runway_number = 24

[display]
layout = -2
preferred_layouts = "2,0"

[epd]
simulate = true

[logging]
level = "debug"
format = "json"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "CYYZ", cfg.Station.AirportCode)
	assert.Equal(t, 24, cfg.Station.RunwayNumber)
	assert.Equal(t, LayoutCycleAll, cfg.Display.Layout)
	assert.True(t, cfg.EPD.Simulate)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Unset sections keep their defaults
	assert.Equal(t, "https://aviationweather.gov/api/data", cfg.Weather.APIBaseURL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	assert.Error(t, err)
}
