package main

import (
	"github.com/gr-butler/agrokit/data"
	"github.com/gr-butler/agrokit/env"
	logger "github.com/sirupsen/logrus"
)

// Irrigate is true when no water is detected and the soil is drier than the
// threshold.
func Irrigate(r data.SensorReading) bool {
	return r.WaterAbsent() && r.SoilMoisture < env.SoilDryThresholdPct
}

// actuate drives every relay from a fresh water and soil reading.
func (a *agrokit) actuate() {
	r := data.SensorReading{
		Water:        a.s.WaterLevel(),
		SoilMoisture: a.s.SoilMoisturePercent(),
	}
	on := Irrigate(r)
	for _, rl := range a.relays {
		rl.Set(on)
	}
	if on {
		logger.Debugf("Irrigation ON soil [%v%%]", r.SoilMoisture)
		Prom_irrigation.Set(1)
	} else {
		Prom_irrigation.Set(0)
	}
}
