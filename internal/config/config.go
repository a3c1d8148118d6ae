package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Layout selector sentinels used by the display.layout setting.
const (
	LayoutRandom   = -1 // pick a random layout every cycle
	LayoutCycleAll = -2 // cycle through all layouts in order
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Station StationConfig `toml:"station"` // Airport and physical location settings
	Display DisplayConfig `toml:"display"` // Layout selection and unit settings
	EPD     EPDConfig     `toml:"epd"`     // E-paper panel wiring settings
	Weather WeatherConfig `toml:"wx"`      // Weather data fetching settings
	Server  ServerConfig  `toml:"server"`  // Admin HTTP server settings
	Logging LoggingConfig `toml:"logging"` // Application logging settings
}

// StationConfig contains the airport and physical location of the display
type StationConfig struct {
	AirportCode   string  `toml:"airport_code"`   // ICAO code of the airport (e.g., "KJFK")
	Latitude      float64 `toml:"latitude"`       // Latitude of the station in decimal degrees
	Longitude     float64 `toml:"longitude"`      // Longitude of the station in decimal degrees
	ElevationFeet int     `toml:"elevation_feet"` // Elevation of the station above sea level in feet
	RunwayNumber  int     `toml:"runway_number"`  // Two-digit runway identifier used by the wind layout (e.g., 18)
}

// DisplayConfig contains layout selection and unit conversion settings
type DisplayConfig struct {
	// Layout index to render. Use LayoutRandom (-1) for a random layout each
	// cycle, LayoutCycleAll (-2) to cycle through all layouts in order.
	Layout int `toml:"layout"`

	// Update interval in seconds. 0 selects the interval automatically from
	// the current flight category (VFR 1h, MVFR 30m, IFR 20m, LIFR 10m).
	IntervalSecs int `toml:"interval_seconds"`

	// Preferred layout subset for cycling, e.g. "2,0" or "20". The sentinel
	// "na" disables preferred cycling and uses the full layout list.
	PreferredLayouts string `toml:"preferred_layouts"`

	// Unit selection flags (see internal/units)
	WindSpeedUnits   int `toml:"wind_speed_units"`   // 0=knots, 1=mph, 2=km/h
	CloudHeightUnits int `toml:"cloud_height_units"` // 0=feet, 1=meters
	VisibilityUnits  int `toml:"visibility_units"`   // 0=statute miles, 1=kilometers
	TemperatureUnits int `toml:"temperature_units"`  // 0=Celsius, 1=Fahrenheit

	// Show decoded remarks on layouts that have room for them
	ShowRemarks bool `toml:"show_remarks"`
}

// EPDConfig contains the e-paper panel wiring configuration
type EPDConfig struct {
	SPIPort string `toml:"spi_port"` // SPI port name for periph.io spireg (empty = first available)
	DCPin   string `toml:"dc_pin"`   // Data/command GPIO pin name (e.g., "GPIO25")
	RSTPin  string `toml:"rst_pin"`  // Reset GPIO pin name (e.g., "GPIO17")
	BusyPin string `toml:"busy_pin"` // Busy GPIO pin name (e.g., "GPIO24")
	SPIHz   int    `toml:"spi_hz"`   // SPI clock frequency in Hz (default 4 MHz)

	// Simulate renders each frame to a PNG file instead of driving hardware.
	// Useful for layout development on a workstation.
	Simulate    bool   `toml:"simulate"`
	SimulateDir string `toml:"simulate_dir"` // Directory for simulated frame PNGs
}

// WeatherConfig contains weather data fetching configuration
type WeatherConfig struct {
	APIBaseURL            string `toml:"api_base_url"`            // Base URL of the aviationweather.gov data API
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"` // HTTP request timeout in seconds
	MaxRetries            int    `toml:"max_retries"`             // Number of retries after a failed fetch
}

// ServerConfig contains the admin HTTP server configuration
type ServerConfig struct {
	Enabled          bool   `toml:"enabled"`               // Enable the admin/status HTTP server
	Host             string `toml:"host"`                  // Host address to bind to
	Port             int    `toml:"port"`                  // HTTP port for the admin server
	ReadTimeoutSecs  int    `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request
	WriteTimeoutSecs int    `toml:"write_timeout_seconds"` // Maximum duration for writing the response
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// DefaultConfig returns a configuration populated with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Station: StationConfig{
			AirportCode:  "KFLG",
			RunwayNumber: 18,
		},
		Display: DisplayConfig{
			Layout:           0,
			IntervalSecs:     0,
			PreferredLayouts: "na",
		},
		EPD: EPDConfig{
			DCPin:       "GPIO25",
			RSTPin:      "GPIO17",
			BusyPin:     "GPIO24",
			SPIHz:       4000000,
			SimulateDir: ".",
		},
		Weather: WeatherConfig{
			APIBaseURL:            "https://aviationweather.gov/api/data",
			RequestTimeoutSeconds: 10,
			MaxRetries:            2,
		},
		Server: ServerConfig{
			Enabled:          true,
			Host:             "0.0.0.0",
			Port:             8080,
			ReadTimeoutSecs:  15,
			WriteTimeoutSecs: 15,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from the specified TOML file path
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// LoadWithFallback loads configuration with fallback logic:
// 1. User-specified path (if provided)
// 2. configs/config.toml
// 3. config.toml in the working directory
// 4. Built-in defaults if no config file is found
func LoadWithFallback(preferredPath string) (*Config, error) {
	// List of paths to check in order of preference
	searchPaths := []string{
		preferredPath,
		"configs/config.toml",
		"config.toml",
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
			}
			return config, nil
		}
	}

	// A missing config file is not fatal for this appliance: the display can
	// run entirely from defaults plus command line flags.
	return DefaultConfig(), nil
}

// Validate checks the configuration for errors and fills in defaults
func (c *Config) Validate() error {
	// Validate station config
	if c.Station.AirportCode == "" {
		return fmt.Errorf("airport_code is required")
	}
	if len(c.Station.AirportCode) < 3 || len(c.Station.AirportCode) > 4 {
		return fmt.Errorf("invalid airport code: %s (must be a 3-4 character identifier)", c.Station.AirportCode)
	}
	c.Station.AirportCode = strings.ToUpper(c.Station.AirportCode)

	if c.Station.Latitude < -90 || c.Station.Latitude > 90 {
		return fmt.Errorf("invalid station latitude: %f", c.Station.Latitude)
	}
	if c.Station.Longitude < -180 || c.Station.Longitude > 180 {
		return fmt.Errorf("invalid station longitude: %f", c.Station.Longitude)
	}
	if c.Station.ElevationFeet < -2000 || c.Station.ElevationFeet > 30000 {
		return fmt.Errorf("station elevation out of typical range: %d ft", c.Station.ElevationFeet)
	}
	if c.Station.RunwayNumber < 1 || c.Station.RunwayNumber > 36 {
		return fmt.Errorf("invalid runway number: %d (must be 1-36)", c.Station.RunwayNumber)
	}

	// Validate display config
	if c.Display.Layout < LayoutCycleAll {
		return fmt.Errorf("invalid layout selector: %d (must be a layout index, -1 for random, or -2 to cycle)", c.Display.Layout)
	}
	if c.Display.IntervalSecs < 0 {
		return fmt.Errorf("invalid interval_seconds: %d (must be >= 0, 0 = auto by flight category)", c.Display.IntervalSecs)
	}
	if c.Display.WindSpeedUnits < 0 || c.Display.WindSpeedUnits > 2 {
		return fmt.Errorf("invalid wind_speed_units: %d (must be 0=knots, 1=mph, 2=km/h)", c.Display.WindSpeedUnits)
	}
	if c.Display.CloudHeightUnits < 0 || c.Display.CloudHeightUnits > 1 {
		return fmt.Errorf("invalid cloud_height_units: %d (must be 0=feet, 1=meters)", c.Display.CloudHeightUnits)
	}
	if c.Display.VisibilityUnits < 0 || c.Display.VisibilityUnits > 1 {
		return fmt.Errorf("invalid visibility_units: %d (must be 0=statute miles, 1=kilometers)", c.Display.VisibilityUnits)
	}
	if c.Display.TemperatureUnits < 0 || c.Display.TemperatureUnits > 1 {
		return fmt.Errorf("invalid temperature_units: %d (must be 0=Celsius, 1=Fahrenheit)", c.Display.TemperatureUnits)
	}
	if _, err := c.Display.ParsePreferredLayouts(); err != nil {
		return err
	}

	// Validate EPD config
	if c.EPD.SPIHz <= 0 {
		c.EPD.SPIHz = 4000000
	}
	if !c.EPD.Simulate {
		if c.EPD.DCPin == "" || c.EPD.RSTPin == "" || c.EPD.BusyPin == "" {
			return fmt.Errorf("epd dc_pin, rst_pin, and busy_pin are required")
		}
	}

	// Validate weather config
	if c.Weather.APIBaseURL == "" {
		return fmt.Errorf("api_base_url cannot be empty")
	}
	if c.Weather.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be greater than 0")
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be 0 or greater")
	}

	// Validate server config
	if c.Server.Enabled {
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			return fmt.Errorf("invalid server port: %d", c.Server.Port)
		}
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid log level
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
		// Valid log format
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	return nil
}

// ParsePreferredLayouts parses the preferred_layouts setting into a list of
// layout indices. The sentinel "na" (or an empty string) returns nil,
// meaning preferred cycling is disabled. Accepts either a comma-separated
// list ("2,0") or a bare digit string ("20").
func (d *DisplayConfig) ParsePreferredLayouts() ([]int, error) {
	raw := strings.TrimSpace(d.PreferredLayouts)
	if raw == "" || strings.EqualFold(raw, "na") {
		return nil, nil
	}

	var indices []int
	if strings.Contains(raw, ",") {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			idx, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid preferred layout entry: %q", part)
			}
			indices = append(indices, idx)
		}
	} else {
		// Bare digit string: each character is one layout index
		for _, r := range raw {
			if r < '0' || r > '9' {
				return nil, fmt.Errorf("invalid preferred layout character: %q", string(r))
			}
			indices = append(indices, int(r-'0'))
		}
	}

	if len(indices) == 0 {
		return nil, fmt.Errorf("preferred_layouts is set but contains no layout indices")
	}
	return indices, nil
}
