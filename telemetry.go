package main

import (
	"context"
	"encoding/json"
	"math"

	"github.com/gr-butler/agrokit/data"
	"github.com/gr-butler/agrokit/env"
	"github.com/prometheus/client_golang/prometheus"

	logger "github.com/sirupsen/logrus"
)

// gateOpen reports whether a telemetry cycle is due and restarts the
// interval when it is.
func (a *agrokit) gateOpen() bool {
	if a.clock.Since(a.lastGate) <= env.TelemetryInterval {
		return false
	}
	a.lastGate = a.clock.Now()
	return true
}

// telemetryCycle samples, builds the payload and makes exactly one delivery
// attempt. Nothing is kept for later: a payload that can't be sent is
// dropped.
func (a *agrokit) telemetryCycle() {
	logger.Info("Recording data")
	if missing := a.s.Missing(); len(missing) > 0 {
		logger.Warnf("Irrigation inputs missing %v, relays follow default readings", missing)
	}
	p := a.prepData()
	updateGauges(p)

	body, err := json.Marshal(p)
	if err != nil {
		logger.Errorf("JSON error [%v]", err)
		return
	}
	logger.Infof("Data: [%v]", string(body))

	if a.testMode {
		return
	}

	if !a.link.Connected() {
		logger.Warn("WiFi down, upload skipped")
		Prom_uploads.WithLabelValues("skipped").Inc()
		if err := a.link.Reconnect(); err != nil {
			logger.Errorf("WiFi reconnect request failed [%v]", err)
		}
		return
	}

	if a.mirror != nil {
		if err := a.mirror.Publish(body); err != nil {
			logger.Warnf("MQTT mirror publish failed [%v]", err)
		}
	}

	resp, err := a.uploader.Post(context.Background(), body)
	if err != nil {
		logger.Errorf("Failed to POST data [%v]", err)
		Prom_uploads.WithLabelValues("transport_error").Inc()
		return
	}
	Prom_uploadStatus.Set(float64(resp.StatusCode))
	logger.Infof("HTTP [%v] response [%v]", resp.StatusCode, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Errorf("Failed to POST data HTTP [%v]", resp.StatusCode)
		Prom_uploads.WithLabelValues("http_error").Inc()
		return
	}
	Prom_uploads.WithLabelValues("ok").Inc()
}

// prepData takes one snapshot of every input for the payload.
func (a *agrokit) prepData() data.Payload {
	r := a.s.SampleTelemetry()
	a.drainGPS()
	return data.Payload{
		DeviceID:  a.deviceID,
		Reading:   r,
		Fix:       a.gps.Fix(),
		Battery:   data.BatteryPercent(a.s.BatteryRaw(), a.battery),
		Timestamp: a.now,
	}
}

func updateGauges(p data.Payload) {
	r := p.Reading
	Prom_soilMoisture.Set(float64(r.SoilMoisture))
	Prom_light.Set(float64(r.Light))
	Prom_battery.Set(p.Battery.Percent)
	setReading(Prom_temperature, r.AirTemperature)
	setReading(Prom_humidity, r.AirHumidity)
	setReading(Prom_soilTemperature, r.SoilTemperature)
	setReading(Prom_atmPresure, r.Pressure)
	if r.WaterPresent() {
		Prom_waterPresent.Set(1)
	} else {
		Prom_waterPresent.Set(0)
	}
}

// undefined readings are exported as NaN
func setReading(g prometheus.Gauge, r data.Reading) {
	if v, ok := r.Float64(); ok {
		g.Set(v)
		return
	}
	g.Set(math.NaN())
}
