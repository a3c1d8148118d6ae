package weather

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RemarkEntry is one decoded remark token with its expansion
type RemarkEntry struct {
	Code    string
	Meaning string
}

// remarkCodes holds the fixed-token remarks from the FAA METAR remarks
// definitions. Parameterized groups (SLP, T-group, peak wind) are handled
// separately in DecodeRemarks.
var remarkCodes = map[string]string{
	"AO1":    "Automated station, no precip sensor",
	"AO2":    "Automated station with precip sensor",
	"PRESFR": "Pressure falling rapidly",
	"PRESRR": "Pressure rising rapidly",
	"NOSIG":  "No significant change expected",
	"PNO":    "Precip amount not available",
	"RVRNO":  "RVR not available",
	"FZRANO": "Freezing rain sensor not working",
	"TSNO":   "Thunderstorm info not available",
	"PWINO":  "Present weather sensor not working",
	"VISNO":  "Visibility sensor not working",
	"CHINO":  "Ceiling height sensor not working",
	"$":      "Station needs maintenance",
}

var (
	reSLP      = regexp.MustCompile(`^SLP(\d{3})$`)
	rePeakWind = regexp.MustCompile(`^PK$`)
)

// DecodeRemarks expands the recognized tokens of a METAR remarks section
// into a printable table. Unrecognized tokens are skipped; the raw remarks
// text is kept on the Report regardless.
func DecodeRemarks(remarks string) []RemarkEntry {
	if remarks == "" {
		return nil
	}

	var entries []RemarkEntry
	tokens := strings.Fields(remarks)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if meaning, ok := remarkCodes[tok]; ok {
			entries = append(entries, RemarkEntry{Code: tok, Meaning: meaning})
			continue
		}

		if m := reSLP.FindStringSubmatch(tok); m != nil {
			// SLP013 -> sea level pressure 1001.3 hPa (values >= 550 are 9xx)
			raw, _ := strconv.Atoi(m[1])
			pressure := 1000.0 + float64(raw)/10.0
			if raw >= 550 {
				pressure = 900.0 + float64(raw)/10.0
			}
			entries = append(entries, RemarkEntry{
				Code:    tok,
				Meaning: fmt.Sprintf("Sea level pressure %.1f hPa", pressure),
			})
			continue
		}

		if rePeakWind.MatchString(tok) && i+2 < len(tokens) && tokens[i+1] == "WND" {
			entries = append(entries, RemarkEntry{
				Code:    strings.Join(tokens[i:i+3], " "),
				Meaning: "Peak wind",
			})
			i += 2
			continue
		}
	}
	return entries
}
