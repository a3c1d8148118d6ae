package weather

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// FlightCategory is the VFR/MVFR/IFR/LIFR classification derived from
// visibility and ceiling.
type FlightCategory string

const (
	CategoryVFR     FlightCategory = "VFR"
	CategoryMVFR    FlightCategory = "MVFR"
	CategoryIFR     FlightCategory = "IFR"
	CategoryLIFR    FlightCategory = "LIFR"
	CategoryUnknown FlightCategory = "N/A"
)

// METARResponse represents a single METAR observation from the
// aviationweather.gov data API (https://aviationweather.gov/data/api/).
// The API returns an array of these for /metar?ids=...&format=json.
type METARResponse struct {
	ICAOID      string       `json:"icaoId"`
	ReportTime  string       `json:"reportTime"` // "2024-01-09 22:51:00"
	Temp        *float64     `json:"temp"`       // Celsius
	Dewp        *float64     `json:"dewp"`       // Celsius
	Wdir        FlexDir      `json:"wdir"`       // degrees, or "VRB"
	Wspd        *float64     `json:"wspd"`       // knots
	Wgst        *float64     `json:"wgst"`       // knots
	Visib       FlexVisib    `json:"visib"`      // statute miles, or "10+"
	Altim       *float64     `json:"altim"`      // hPa
	WxString    string       `json:"wxString"`   // e.g. "-RA BR"
	FltCat      string       `json:"fltCat"`     // VFR/MVFR/IFR/LIFR when provided
	Clouds      []CloudGroup `json:"clouds"`
	RawOb       string       `json:"rawOb"` // raw METAR text
	ReceiptTime string       `json:"receiptTime"`
}

// CloudGroup is one cloud layer entry in the API response
type CloudGroup struct {
	Cover string `json:"cover"` // FEW/SCT/BKN/OVC/OVX/CLR/SKC/CAVOK
	Base  *int   `json:"base"`  // feet AGL, nil for CLR/SKC
}

// FlexDir holds a wind direction that the API reports either as a number
// (degrees) or as the string "VRB" for variable winds.
type FlexDir struct {
	Degrees  int
	Variable bool
	Present  bool
}

// UnmarshalJSON accepts both numeric and string encodings
func (d *FlexDir) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*d = FlexDir{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "VRB" {
			*d = FlexDir{Variable: true, Present: true}
			return nil
		}
		// Some responses wrap the number in quotes
		v, err := strconv.Atoi(s)
		if err != nil {
			*d = FlexDir{}
			return nil
		}
		*d = FlexDir{Degrees: v, Present: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = FlexDir{Degrees: int(v), Present: true}
	return nil
}

// FlexVisib holds a visibility that the API reports either as a number
// (statute miles) or as a capped string like "10+".
type FlexVisib struct {
	Miles   float64
	Present bool
}

// UnmarshalJSON accepts both numeric and string encodings
func (v *FlexVisib) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*v = FlexVisib{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if len(s) > 0 && s[len(s)-1] == '+' {
			s = s[:len(s)-1]
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*v = FlexVisib{}
			return nil
		}
		*v = FlexVisib{Miles: f, Present: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = FlexVisib{Miles: f, Present: true}
	return nil
}

// CloudLayer is one decoded cloud layer (type + height in feet AGL)
type CloudLayer struct {
	Cover  string
	BaseFt int
}

// Report is the fixed-shape decoded weather report built once per fetch
// cycle. Missing fields carry explicit sentinels instead of ad hoc presence
// checks: wind direction 0 with Speed 0 means calm/unknown, text fields
// render as "N/A" when empty.
type Report struct {
	Airport    string
	ObservedAt time.Time

	WindDir      int  // degrees true, 0 when calm or unavailable
	WindVariable bool // true when the report carries "VRB"
	WindSpeedKts float64
	WindGustKts  float64

	VisibilitySM  float64
	HasVisibility bool

	TempC   float64
	HasTemp bool
	DewpC   float64
	HasDewp bool

	Clouds   []CloudLayer
	Category FlightCategory

	// Description is the human-readable weather phenomena string
	// ("Light Rain, Mist"), empty when the report carries none.
	Description string

	Remarks string // raw text after "RMK", empty when absent
	Raw     string // full raw METAR text
}

// CeilingFt returns the lowest broken or overcast layer base in feet, and
// whether a ceiling exists.
func (r *Report) CeilingFt() (int, bool) {
	ceiling := 0
	found := false
	for _, layer := range r.Clouds {
		switch layer.Cover {
		case "BKN", "OVC", "OVX":
			if !found || layer.BaseFt < ceiling {
				ceiling = layer.BaseFt
				found = true
			}
		}
	}
	return ceiling, found
}
