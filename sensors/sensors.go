package sensors

import (
	"github.com/gr-butler/agrokit/buffer"
	"github.com/gr-butler/agrokit/data"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
)

/*
 * Sensors reads every input line once per call and converts raw output to
 * readings. A failed read becomes an undefined reading, nothing is retried.
 */

type DigitalIn interface {
	Read() gpio.Level
}

// AnalogIn returns a raw count in [0, ADCMax].
type AnalogIn interface {
	ReadRaw() (int, error)
}

// Barometer reports temperature in C and pressure in hPa.
type Barometer interface {
	Temperature() (float64, error)
	Pressure() (float64, error)
}

// Hygrometer reports temperature in C and relative humidity in percent. The
// two calls can fail independently.
type Hygrometer interface {
	Temperature() (float64, error)
	Humidity() (float64, error)
}

// SoilProbe needs a conversion request before Temperature returns a fresh
// value.
type SoilProbe interface {
	RequestConversion() error
	Temperature() (float64, error)
}

type Sensors struct {
	Button DigitalIn
	Water  DigitalIn

	Soil    AnalogIn
	Light   AnalogIn
	Battery AnalogIn
	ADCMax  int

	Baro        Barometer
	BarometerOK bool // false when the barometer failed to start
	Hygro       Hygrometer
	Probe       SoilProbe

	Bus i2c.BusCloser

	waterBuf *buffer.SampleBuffer
	debounce int
}

// SetWaterDebounce majority votes the water line over the last n reads.
// n <= 1 uses each raw read as is.
func (s *Sensors) SetWaterDebounce(n int) {
	if n <= 1 {
		s.debounce = 0
		s.waterBuf = nil
		return
	}
	logger.Infof("Water sensor debounce over [%v] reads", n)
	s.debounce = n
	s.waterBuf = buffer.NewBuffer(n)
}

// ButtonPressed reports the active low sequence button.
func (s *Sensors) ButtonPressed() bool {
	if s.Button == nil {
		return false
	}
	return s.Button.Read() == gpio.Low
}

// WaterLevel returns the water line level, 0 (Low) when water is present.
func (s *Sensors) WaterLevel() int {
	if s.Water == nil {
		return 1
	}
	level := 0
	if s.Water.Read() == gpio.High {
		level = 1
	}
	if s.waterBuf == nil {
		return level
	}
	s.waterBuf.AddItem(float64(level))
	avg := float64(s.waterBuf.AverageLast(s.debounce))
	switch {
	case avg > 0.5:
		return 1
	case avg < 0.5:
		return 0
	}
	return level
}

func (s *Sensors) SoilMoisturePercent() int {
	return s.percent("soil moisture", s.Soil)
}

func (s *Sensors) LightPercent() int {
	return s.percent("light", s.Light)
}

// BatteryRaw is the raw battery count, 0 when the line can't be read.
func (s *Sensors) BatteryRaw() int {
	return s.raw("battery", s.Battery)
}

func (s *Sensors) percent(name string, a AnalogIn) int {
	return data.MapPercent(s.raw(name, a), s.ADCMax)
}

func (s *Sensors) raw(name string, a AnalogIn) int {
	if a == nil {
		return 0
	}
	v, err := a.ReadRaw()
	if err != nil {
		logger.Warnf("%v read failed [%v]", name, err)
		return 0
	}
	return v
}

func (s *Sensors) BarometerTemperature() data.Reading {
	if !s.BarometerOK || s.Baro == nil {
		return data.None()
	}
	return reading("barometer temperature", s.Baro.Temperature)
}

func (s *Sensors) Pressure() data.Reading {
	if !s.BarometerOK || s.Baro == nil {
		return data.None()
	}
	return reading("pressure", s.Baro.Pressure)
}

func (s *Sensors) AirTemperature() data.Reading {
	if s.Hygro == nil {
		return data.None()
	}
	return reading("air temperature", s.Hygro.Temperature)
}

func (s *Sensors) AirHumidity() data.Reading {
	if s.Hygro == nil {
		return data.None()
	}
	return reading("air humidity", s.Hygro.Humidity)
}

func (s *Sensors) SoilTemperature() data.Reading {
	if s.Probe == nil {
		return data.None()
	}
	if err := s.Probe.RequestConversion(); err != nil {
		logger.Warnf("Soil probe conversion failed [%v]", err)
		return data.None()
	}
	return reading("soil temperature", s.Probe.Temperature)
}

func reading(name string, read func() (float64, error)) data.Reading {
	v, err := read()
	if err != nil {
		logger.Warnf("%v read failed [%v]", name, err)
		return data.None()
	}
	return data.FromFloat(v)
}

// SampleTelemetry takes the reading set uploaded each cycle. Air
// temperature comes from the barometer.
func (s *Sensors) SampleTelemetry() data.SensorReading {
	r := data.SensorReading{}
	r.AirTemperature = s.BarometerTemperature()
	r.AirHumidity = s.AirHumidity()
	r.Pressure = s.Pressure()
	r.Light = s.LightPercent()
	r.Water = s.WaterLevel()
	r.SoilMoisture = s.SoilMoisturePercent()
	r.SoilTemperature = s.SoilTemperature()
	return r
}

// SampleDisplay takes the reading set shown by the button sequence. Air
// temperature comes from the hygrometer.
func (s *Sensors) SampleDisplay() data.SensorReading {
	r := data.SensorReading{}
	r.Water = s.WaterLevel()
	r.SoilMoisture = s.SoilMoisturePercent()
	r.SoilTemperature = s.SoilTemperature()
	r.AirTemperature = s.AirTemperature()
	r.Light = s.LightPercent()
	r.AirHumidity = s.AirHumidity()
	r.Pressure = s.Pressure()
	return r
}

// Missing names the irrigation inputs that failed to start. Without them
// soil reads 0 % and water reads absent, which keeps the relays on.
func (s *Sensors) Missing() []string {
	var out []string
	if s.Water == nil {
		out = append(out, "water")
	}
	if s.Soil == nil {
		out = append(out, "soil moisture")
	}
	return out
}

func (s *Sensors) Close() {
	if s.Bus != nil {
		_ = s.Bus.Close()
	}
}
