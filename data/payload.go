package data

import (
	"encoding/json"
	"strconv"
)

const TimestampLayout = "2006-01-02 15:04:05"

// fixed renders a Reading with a set number of decimals, or null.
type fixed struct {
	r    Reading
	prec int
}

func (f fixed) MarshalJSON() ([]byte, error) {
	if !f.r.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f.r.Value, 'f', f.prec, 64), nil
}

type wireFix struct {
	Lat fixed `json:"lat"`
	Lon fixed `json:"lon"`
}

type wirePayload struct {
	ID            string  `json:"id_agrokit"`
	SoilMoisture  int     `json:"humedad_tierra"`
	AirTemp       fixed   `json:"temp_aire"`
	AirHumidity   fixed   `json:"humedad_aire"`
	SoilTemp      fixed   `json:"temp_suelo"`
	Water         int     `json:"agua"`
	Light         int     `json:"luz"`
	Pressure      fixed   `json:"presion"`
	GPS           wireFix `json:"gps"`
	Battery       fixed   `json:"bateria"`
	TimestampText string  `json:"fechaHora"`
}

func (p Payload) MarshalJSON() ([]byte, error) {
	r := p.Reading
	return json.Marshal(wirePayload{
		ID:           p.DeviceID,
		SoilMoisture: r.SoilMoisture,
		AirTemp:      fixed{r.AirTemperature, 2},
		AirHumidity:  fixed{r.AirHumidity, 1},
		SoilTemp:     fixed{r.SoilTemperature, 2},
		Water:        r.Water,
		Light:        r.Light,
		Pressure:     fixed{r.Pressure, 2},
		GPS: wireFix{
			Lat: fixed{Some(p.Fix.Lat), 6},
			Lon: fixed{Some(p.Fix.Lon), 6},
		},
		Battery:       fixed{Some(p.Battery.Percent), 1},
		TimestampText: p.Timestamp.Format(TimestampLayout),
	})
}
