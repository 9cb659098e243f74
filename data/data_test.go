package data

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	assert.Equal(t, None(), FromFloat(math.NaN()))
	assert.Equal(t, None(), FromFloat(math.Inf(1)))
	assert.Equal(t, Some(0), FromFloat(0))
	v, ok := FromFloat(21.5).Float64()
	assert.True(t, ok)
	assert.Equal(t, 21.5, v)
}

func TestMapPercent(t *testing.T) {
	assert.Equal(t, 0, MapPercent(0, 4095))
	assert.Equal(t, 50, MapPercent(2048, 4095))
	assert.Equal(t, 100, MapPercent(4095, 4095))
	assert.Equal(t, 0, MapPercent(-20, 4095))
	assert.Equal(t, 100, MapPercent(5000, 4095))
	assert.Equal(t, 0, MapPercent(10, 0))
}

func TestMapPercentMonotonic(t *testing.T) {
	last := MapPercent(0, 4095)
	for raw := 1; raw <= 4095; raw++ {
		pct := MapPercent(raw, 4095)
		require.GreaterOrEqual(t, pct, last, "raw %d", raw)
		require.LessOrEqual(t, pct, 100)
		last = pct
	}
}

var testBattery = BatteryConfig{
	ADCMax:     4095,
	VRef:       3.3,
	Divider:    2.0,
	EmptyVolts: 3.3,
	FullVolts:  4.2,
}

func rawForVolts(v float64) int {
	return int(math.Round(v / testBattery.Divider / testBattery.VRef * float64(testBattery.ADCMax)))
}

func TestBatteryPercent(t *testing.T) {
	// 3.3V at the cell is half scale on the ADC with a 2:1 divider
	assert.InDelta(t, 0, BatteryPercent(rawForVolts(3.3), testBattery).Percent, 0.5)
	assert.InDelta(t, 100, BatteryPercent(rawForVolts(4.2), testBattery).Percent, 0.5)
	assert.InDelta(t, 50, BatteryPercent(rawForVolts(3.75), testBattery).Percent, 0.5)
	assert.Equal(t, 0.0, BatteryPercent(2047, testBattery).Percent)

	// clamp rather than extrapolate
	assert.Equal(t, 0.0, BatteryPercent(0, testBattery).Percent)
	assert.Equal(t, 100.0, BatteryPercent(4095, testBattery).Percent)
}

func TestSensorReadingWater(t *testing.T) {
	assert.True(t, SensorReading{Water: 0}.WaterPresent())
	assert.True(t, SensorReading{Water: 1}.WaterAbsent())
}

func samplePayload() Payload {
	return Payload{
		DeviceID: "KIT123",
		Reading: SensorReading{
			SoilMoisture:    50,
			Water:           1,
			AirTemperature:  Some(22.456),
			AirHumidity:     Some(61.24),
			SoilTemperature: Some(18),
			Pressure:        Some(1013.2),
			Light:           40,
		},
		Fix:       GeoFix{Lat: -12.1234567, Lon: -76.1},
		Battery:   BatteryStatus{Percent: 92.54},
		Timestamp: time.Date(2025, 8, 18, 0, 12, 34, 0, time.UTC),
	}
}

func TestPayloadMarshal(t *testing.T) {
	js, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	want := `{"id_agrokit":"KIT123","humedad_tierra":50,"temp_aire":22.46,"humedad_aire":61.2,` +
		`"temp_suelo":18.00,"agua":1,"luz":40,"presion":1013.20,` +
		`"gps":{"lat":-12.123457,"lon":-76.100000},"bateria":92.5,"fechaHora":"2025-08-18 00:12:34"}`
	assert.Equal(t, want, string(js))
}

func TestPayloadMarshalUndefinedIsNull(t *testing.T) {
	p := samplePayload()
	p.Reading.AirTemperature = None()
	p.Reading.AirHumidity = None()
	p.Reading.SoilTemperature = None()
	p.Reading.Pressure = None()

	js, err := json.Marshal(p)
	require.NoError(t, err)
	s := string(js)
	assert.Contains(t, s, `"temp_aire":null`)
	assert.Contains(t, s, `"humedad_aire":null`)
	assert.Contains(t, s, `"temp_suelo":null`)
	assert.Contains(t, s, `"presion":null`)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js, &decoded))
	assert.Nil(t, decoded["temp_aire"])
	assert.Equal(t, "KIT123", decoded["id_agrokit"])
}

func TestPayloadMarshalZeroIsNotNull(t *testing.T) {
	p := samplePayload()
	p.Reading.AirTemperature = Some(0)
	js, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(js), `"temp_aire":0.00`)
}
