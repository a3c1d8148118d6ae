package weather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i(v int) *int           { return &v }

func TestDecodeReportFromStructuredFields(t *testing.T) {
	resp := &METARResponse{
		ICAOID:     "KJFK",
		ReportTime: "2024-01-09 22:51:00",
		Temp:       f64(12.2),
		Dewp:       f64(10.0),
		Wdir:       FlexDir{Degrees: 190, Present: true},
		Wspd:       f64(15),
		Wgst:       f64(25),
		Visib:      FlexVisib{Miles: 10, Present: true},
		WxString:   "-RA BR",
		FltCat:     "VFR",
		Clouds: []CloudGroup{
			{Cover: "FEW", Base: i(2500)},
			{Cover: "BKN", Base: i(8000)},
		},
		RawOb: "KJFK 092251Z 19015G25KT 10SM -RA BR FEW025 BKN080 12/10 A2992",
	}

	r := DecodeReport(resp)

	assert.Equal(t, "KJFK", r.Airport)
	assert.Equal(t, 2024, r.ObservedAt.Year())
	assert.Equal(t, 190, r.WindDir)
	assert.False(t, r.WindVariable)
	assert.Equal(t, 15.0, r.WindSpeedKts)
	assert.Equal(t, 25.0, r.WindGustKts)
	assert.True(t, r.HasVisibility)
	assert.Equal(t, 10.0, r.VisibilitySM)
	assert.Equal(t, 12.2, r.TempC)
	assert.Equal(t, 10.0, r.DewpC)
	assert.Equal(t, "Light Rain, Mist", r.Description)
	assert.Equal(t, CategoryVFR, r.Category)

	require.Len(t, r.Clouds, 2)
	assert.Equal(t, CloudLayer{Cover: "FEW", BaseFt: 2500}, r.Clouds[0])
	assert.Equal(t, CloudLayer{Cover: "BKN", BaseFt: 8000}, r.Clouds[1])
}

func TestDecodeReportFromRawTextOnly(t *testing.T) {
	resp := &METARResponse{
		RawOb: "KBOS 092251Z 19015G25KT 1 1/2SM -RA BR BKN008 OVC015 12/10 A2992 RMK AO2 SLP013 T01220100",
	}

	r := DecodeReport(resp)

	assert.Equal(t, "KBOS", r.Airport)
	assert.Equal(t, 190, r.WindDir)
	assert.Equal(t, 15.0, r.WindSpeedKts)
	assert.Equal(t, 25.0, r.WindGustKts)

	assert.True(t, r.HasVisibility)
	assert.InDelta(t, 1.5, r.VisibilitySM, 1e-9)

	// The high-precision T-group wins over the whole-degree body group
	assert.True(t, r.HasTemp)
	assert.InDelta(t, 12.2, r.TempC, 1e-9)
	assert.InDelta(t, 10.0, r.DewpC, 1e-9)

	require.Len(t, r.Clouds, 2)
	assert.Equal(t, CloudLayer{Cover: "BKN", BaseFt: 800}, r.Clouds[0])
	assert.Equal(t, CloudLayer{Cover: "OVC", BaseFt: 1500}, r.Clouds[1])

	assert.Equal(t, "Light Rain, Mist", r.Description)
	assert.Equal(t, "AO2 SLP013 T01220100", r.Remarks)

	// vis 1.5 SM and ceiling 800 ft both classify as IFR
	assert.Equal(t, CategoryIFR, r.Category)
}

func TestDecodeReportVariableWind(t *testing.T) {
	resp := &METARResponse{
		RawOb: "KLAX 092253Z VRB03KT 10SM CLR 22/10 A2999",
	}

	r := DecodeReport(resp)

	assert.True(t, r.WindVariable)
	assert.Equal(t, 0, r.WindDir)
	assert.Equal(t, 3.0, r.WindSpeedKts)
	assert.Empty(t, r.Clouds)
}

func TestDecodeReportNegativeTemperatures(t *testing.T) {
	resp := &METARResponse{
		RawOb: "CYYZ 092300Z 36010KT 15SM SKC M03/M05 A3012",
	}

	r := DecodeReport(resp)

	assert.Equal(t, -3.0, r.TempC)
	assert.Equal(t, -5.0, r.DewpC)
}

func TestDecodeReportEmptyRaw(t *testing.T) {
	r := DecodeReport(&METARResponse{})

	assert.Equal(t, "N/A", r.Airport)
	assert.Equal(t, CategoryUnknown, r.Category)
	assert.Equal(t, 0.0, r.WindSpeedKts)
	assert.False(t, r.HasVisibility)
}

func TestFlightCategoryDerivation(t *testing.T) {
	tests := []struct {
		name    string
		visib   float64
		ceiling int
		cover   string
		want    FlightCategory
	}{
		{"clear and 10", 10, 0, "", CategoryVFR},
		{"high scattered ignored", 10, 25000, "SCT", CategoryVFR},
		{"marginal visibility", 5, 0, "", CategoryMVFR},
		{"marginal ceiling", 10, 3000, "BKN", CategoryMVFR},
		{"low visibility", 2.5, 0, "", CategoryIFR},
		{"low ceiling", 10, 900, "OVC", CategoryIFR},
		{"very low visibility", 0.5, 0, "", CategoryLIFR},
		{"very low ceiling", 10, 400, "OVC", CategoryLIFR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &METARResponse{
				Visib: FlexVisib{Miles: tt.visib, Present: true},
			}
			if tt.cover != "" {
				resp.Clouds = []CloudGroup{{Cover: tt.cover, Base: i(tt.ceiling)}}
			}
			r := DecodeReport(resp)
			assert.Equal(t, tt.want, r.Category)
		})
	}
}

func TestFlexFieldsUnmarshal(t *testing.T) {
	var resp METARResponse
	data := []byte(`{"icaoId":"KSEA","wdir":"VRB","wspd":4,"visib":"10+","temp":null}`)
	require.NoError(t, json.Unmarshal(data, &resp))

	assert.True(t, resp.Wdir.Variable)
	assert.True(t, resp.Wdir.Present)
	assert.True(t, resp.Visib.Present)
	assert.Equal(t, 10.0, resp.Visib.Miles)
	assert.Nil(t, resp.Temp)

	data = []byte(`{"wdir":240,"visib":2.5}`)
	resp = METARResponse{}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, 240, resp.Wdir.Degrees)
	assert.False(t, resp.Wdir.Variable)
	assert.Equal(t, 2.5, resp.Visib.Miles)
}

func TestDescribeWx(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-RA BR", "Light Rain, Mist"},
		{"+TSRA", "Heavy Thunderstorm Rain"},
		{"FZFG", "Freezing Fog"},
		{"SHSN", "Showers Snow"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, describeWx(tt.in), "input %q", tt.in)
	}
}

func TestCeilingIgnoresScatteredLayers(t *testing.T) {
	r := &Report{Clouds: []CloudLayer{
		{Cover: "FEW", BaseFt: 500},
		{Cover: "SCT", BaseFt: 1200},
		{Cover: "BKN", BaseFt: 4000},
		{Cover: "OVC", BaseFt: 2500},
	}}

	ceiling, ok := r.CeilingFt()
	require.True(t, ok)
	assert.Equal(t, 2500, ceiling)

	r.Clouds = r.Clouds[:2]
	_, ok = r.CeilingFt()
	assert.False(t, ok)
}
