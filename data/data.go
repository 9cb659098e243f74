package data

import (
	"math"
	"time"
)

// holder for one cycle's worth of station readings

// Reading is a sensor value that may be missing. A failed read is never
// reported as zero.
type Reading struct {
	Value float64
	Valid bool
}

func Some(v float64) Reading {
	return Reading{Value: v, Valid: true}
}

func None() Reading {
	return Reading{}
}

// FromFloat treats NaN and infinities as a failed read.
func FromFloat(v float64) Reading {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return None()
	}
	return Some(v)
}

func (r Reading) Float64() (float64, bool) {
	return r.Value, r.Valid
}

type SensorReading struct {
	SoilMoisture    int // percent
	Water           int // raw line level, 0 (Low) means water present
	AirTemperature  Reading
	AirHumidity     Reading
	SoilTemperature Reading
	Pressure        Reading // hPa
	Light           int     // percent
}

func (s SensorReading) WaterPresent() bool {
	return s.Water == 0
}

func (s SensorReading) WaterAbsent() bool {
	return !s.WaterPresent()
}

// GeoFix is the last known position. It keeps its value until a newer fix
// replaces it.
type GeoFix struct {
	Lat float64
	Lon float64
}

type BatteryStatus struct {
	Percent float64
}

// Payload is what gets uploaded each telemetry cycle.
type Payload struct {
	DeviceID  string
	Reading   SensorReading
	Fix       GeoFix
	Battery   BatteryStatus
	Timestamp time.Time
}
