package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yegors/metar-epd/internal/weather"
)

func TestSleepIntervalByCategory(t *testing.T) {
	tests := []struct {
		category weather.FlightCategory
		want     time.Duration
	}{
		{weather.CategoryVFR, 60 * time.Minute},
		{weather.CategoryMVFR, 30 * time.Minute},
		{weather.CategoryIFR, 20 * time.Minute},
		{weather.CategoryLIFR, 10 * time.Minute},
		{weather.CategoryUnknown, 30 * time.Minute},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SleepInterval(tt.category, 0), "category %s", tt.category)
	}
}

func TestSleepIntervalOverride(t *testing.T) {
	assert.Equal(t, 45*time.Second, SleepInterval(weather.CategoryVFR, 45))
	assert.Equal(t, time.Hour, SleepInterval(weather.CategoryLIFR, 3600))
}
