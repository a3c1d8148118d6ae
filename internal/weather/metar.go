package weather

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reWind     = regexp.MustCompile(`\b(VRB|\d{3})(\d{2,3})(?:G(\d{2,3}))?KT\b`)
	reVisib    = regexp.MustCompile(`\b(\d{1,2})?(?: )?(\d)/(\d)SM\b|\b(\d{1,2})SM\b`)
	reTempDew  = regexp.MustCompile(`\s(M)?(\d{2})/(M)?(\d{2})\b`)
	reCloud    = regexp.MustCompile(`\b(FEW|SCT|BKN|OVC|VV)(\d{3})\b`)
	reTGroup   = regexp.MustCompile(`T([01])(\d{3})([01])(\d{3})`)
	reStation  = regexp.MustCompile(`^([A-Z][A-Z0-9]{2,3})\s`)
	reObsTime  = regexp.MustCompile(`\b(\d{2})(\d{2})(\d{2})Z\b`)
	reWeather  = regexp.MustCompile(`(^|\s)([-+]?(?:VC)?(?:MI|PR|BC|DR|BL|SH|TS|FZ)?(?:DZ|RA|SN|SG|IC|PL|GR|GS|UP|BR|FG|FU|VA|DU|SA|HZ|PY|PO|SQ|FC|SS|DS)+)(\s|$)`)
	timeLayout = "2006-01-02 15:04:05"
)

// wxCodes maps METAR weather phenomena codes to readable text, used to
// build the description line when decoding.
var wxCodes = map[string]string{
	"DZ": "Drizzle", "RA": "Rain", "SN": "Snow", "SG": "Snow Grains",
	"IC": "Ice Crystals", "PL": "Ice Pellets", "GR": "Hail", "GS": "Small Hail",
	"UP": "Unknown Precip", "BR": "Mist", "FG": "Fog", "FU": "Smoke",
	"VA": "Volcanic Ash", "DU": "Dust", "SA": "Sand", "HZ": "Haze",
	"PO": "Dust Whirls", "SQ": "Squalls", "FC": "Funnel Cloud", "SS": "Sandstorm",
	"DS": "Duststorm", "TS": "Thunderstorm", "SH": "Showers", "FZ": "Freezing",
	"MI": "Shallow", "PR": "Partial", "BC": "Patches", "DR": "Drifting",
	"BL": "Blowing", "VC": "Nearby", "PY": "Spray",
}

// DecodeReport turns an API response into a fixed-shape Report. Structured
// JSON fields are preferred; anything the JSON omits is scraped from the
// raw METAR text. Fields that cannot be recovered keep their zero-value
// sentinels (calm wind, "N/A" text) so a partial report still renders.
func DecodeReport(resp *METARResponse) *Report {
	r := &Report{
		Airport:  "N/A",
		Category: CategoryUnknown,
		Raw:      resp.RawOb,
	}

	if resp.ICAOID != "" {
		r.Airport = resp.ICAOID
	} else if m := reStation.FindStringSubmatch(resp.RawOb); m != nil {
		r.Airport = m[1]
	}

	if t, err := time.Parse(timeLayout, resp.ReportTime); err == nil {
		r.ObservedAt = t
	} else if m := reObsTime.FindStringSubmatch(resp.RawOb); m != nil {
		// ddhhmmZ relative to the current month
		now := time.Now().UTC()
		day, _ := strconv.Atoi(m[1])
		hour, _ := strconv.Atoi(m[2])
		min, _ := strconv.Atoi(m[3])
		r.ObservedAt = time.Date(now.Year(), now.Month(), day, hour, min, 0, 0, time.UTC)
	}

	decodeWind(r, resp)
	decodeVisibility(r, resp)
	decodeTemperature(r, resp)
	decodeClouds(r, resp)
	decodeDescription(r, resp)

	if idx := strings.Index(resp.RawOb, "RMK"); idx >= 0 {
		r.Remarks = strings.TrimSpace(resp.RawOb[idx+len("RMK"):])
	}

	r.Category = flightCategory(resp, r)

	return r
}

func decodeWind(r *Report, resp *METARResponse) {
	if resp.Wdir.Present {
		r.WindDir = resp.Wdir.Degrees
		r.WindVariable = resp.Wdir.Variable
	}
	if resp.Wspd != nil {
		r.WindSpeedKts = *resp.Wspd
	}
	if resp.Wgst != nil {
		r.WindGustKts = *resp.Wgst
	}
	if resp.Wdir.Present || resp.Wspd != nil {
		return
	}

	// Scrape the dddssKT (or VRBssGssKT) group from the raw text
	m := reWind.FindStringSubmatch(resp.RawOb)
	if m == nil {
		return
	}
	if m[1] == "VRB" {
		r.WindVariable = true
	} else if deg, err := strconv.Atoi(m[1]); err == nil {
		r.WindDir = deg
	}
	if spd, err := strconv.ParseFloat(m[2], 64); err == nil {
		r.WindSpeedKts = spd
	}
	if m[3] != "" {
		if gust, err := strconv.ParseFloat(m[3], 64); err == nil {
			r.WindGustKts = gust
		}
	}
}

func decodeVisibility(r *Report, resp *METARResponse) {
	if resp.Visib.Present {
		r.VisibilitySM = resp.Visib.Miles
		r.HasVisibility = true
		return
	}

	m := reVisib.FindStringSubmatch(resp.RawOb)
	if m == nil {
		return
	}
	if m[4] != "" {
		// Whole miles: "10SM"
		if v, err := strconv.ParseFloat(m[4], 64); err == nil {
			r.VisibilitySM = v
			r.HasVisibility = true
		}
		return
	}
	// Fractional: "1/2SM" or "1 1/2SM"
	num, err1 := strconv.ParseFloat(m[2], 64)
	den, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return
	}
	v := num / den
	if m[1] != "" {
		if whole, err := strconv.ParseFloat(m[1], 64); err == nil {
			v += whole
		}
	}
	r.VisibilitySM = v
	r.HasVisibility = true
}

// decodeTemperature prefers the JSON field, then the high-precision RMK
// T-group, then the standard temperature/dewpoint group.
func decodeTemperature(r *Report, resp *METARResponse) {
	if resp.Temp != nil {
		r.TempC = *resp.Temp
		r.HasTemp = true
	}
	if resp.Dewp != nil {
		r.DewpC = *resp.Dewp
		r.HasDewp = true
	}
	if r.HasTemp && r.HasDewp {
		return
	}

	// T-group: T s ttt s ddd (s=sign 0=pos,1=neg; ttt=temp*10)
	if strings.Contains(resp.RawOb, "RMK") {
		if m := reTGroup.FindStringSubmatch(resp.RawOb); m != nil {
			if !r.HasTemp {
				if val, err := strconv.ParseFloat(m[2], 64); err == nil {
					val /= 10.0
					if m[1] == "1" {
						val = -val
					}
					r.TempC = val
					r.HasTemp = true
				}
			}
			if !r.HasDewp {
				if val, err := strconv.ParseFloat(m[4], 64); err == nil {
					val /= 10.0
					if m[3] == "1" {
						val = -val
					}
					r.DewpC = val
					r.HasDewp = true
				}
			}
		}
	}
	if r.HasTemp && r.HasDewp {
		return
	}

	// Standard group: " 22/10", " M03/M05", " 00/M01"
	if m := reTempDew.FindStringSubmatch(resp.RawOb); m != nil {
		if !r.HasTemp {
			if val, err := strconv.ParseFloat(m[2], 64); err == nil {
				if m[1] == "M" {
					val = -val
				}
				r.TempC = val
				r.HasTemp = true
			}
		}
		if !r.HasDewp {
			if val, err := strconv.ParseFloat(m[4], 64); err == nil {
				if m[3] == "M" {
					val = -val
				}
				r.DewpC = val
				r.HasDewp = true
			}
		}
	}
}

func decodeClouds(r *Report, resp *METARResponse) {
	if len(resp.Clouds) > 0 {
		for _, cg := range resp.Clouds {
			switch cg.Cover {
			case "CLR", "SKC", "CAVOK", "NSC":
				continue
			}
			layer := CloudLayer{Cover: cg.Cover}
			if cg.Base != nil {
				layer.BaseFt = *cg.Base
			}
			if cg.Cover == "VV" {
				layer.Cover = "OVX"
			}
			r.Clouds = append(r.Clouds, layer)
		}
		return
	}

	// Strip the remarks section so cloud groups in RMK are not picked up
	raw := resp.RawOb
	if idx := strings.Index(raw, "RMK"); idx >= 0 {
		raw = raw[:idx]
	}
	for _, m := range reCloud.FindAllStringSubmatch(raw, -1) {
		height, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		cover := m[1]
		if cover == "VV" {
			cover = "OVX"
		}
		r.Clouds = append(r.Clouds, CloudLayer{Cover: cover, BaseFt: height * 100})
	}
}

func decodeDescription(r *Report, resp *METARResponse) {
	wx := resp.WxString
	if wx == "" {
		// Scrape present-weather groups from the body of the raw text
		raw := resp.RawOb
		if idx := strings.Index(raw, "RMK"); idx >= 0 {
			raw = raw[:idx]
		}
		var groups []string
		for _, m := range reWeather.FindAllStringSubmatch(raw, -1) {
			groups = append(groups, m[2])
		}
		wx = strings.Join(groups, " ")
	}
	r.Description = describeWx(wx)
}

// describeWx expands a METAR weather string ("-RA BR") into readable text
// ("Light Rain, Mist").
func describeWx(wx string) string {
	wx = strings.TrimSpace(wx)
	if wx == "" {
		return ""
	}

	var parts []string
	for _, group := range strings.Fields(wx) {
		var words []string
		switch {
		case strings.HasPrefix(group, "-"):
			words = append(words, "Light")
			group = group[1:]
		case strings.HasPrefix(group, "+"):
			words = append(words, "Heavy")
			group = group[1:]
		}
		for len(group) >= 2 {
			code := group[:2]
			if name, ok := wxCodes[code]; ok {
				words = append(words, name)
			} else {
				words = append(words, code)
			}
			group = group[2:]
		}
		if len(words) > 0 {
			parts = append(parts, strings.Join(words, " "))
		}
	}
	return strings.Join(parts, ", ")
}

// flightCategory returns the API-provided category when present, otherwise
// derives it from visibility and ceiling:
//
//	LIFR: vis < 1 SM or ceiling < 500 ft
//	IFR:  vis < 3 SM or ceiling < 1000 ft
//	MVFR: vis <= 5 SM or ceiling <= 3000 ft
//	VFR:  everything better
func flightCategory(resp *METARResponse, r *Report) FlightCategory {
	switch resp.FltCat {
	case "VFR":
		return CategoryVFR
	case "MVFR":
		return CategoryMVFR
	case "IFR":
		return CategoryIFR
	case "LIFR":
		return CategoryLIFR
	}

	ceiling, hasCeiling := r.CeilingFt()
	if !r.HasVisibility && !hasCeiling {
		return CategoryUnknown
	}

	vis := r.VisibilitySM
	if !r.HasVisibility {
		// No visibility reported: classify on ceiling alone
		vis = 10
	}
	if !hasCeiling {
		ceiling = 100000
	}

	switch {
	case vis < 1 || ceiling < 500:
		return CategoryLIFR
	case vis < 3 || ceiling < 1000:
		return CategoryIFR
	case vis <= 5 || ceiling <= 3000:
		return CategoryMVFR
	default:
		return CategoryVFR
	}
}
