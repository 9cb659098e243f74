package main

import (
	"context"
	"io"
	"time"

	"github.com/gr-butler/agrokit/data"
	"github.com/gr-butler/agrokit/display"
	"github.com/gr-butler/agrokit/env"
	"github.com/gr-butler/agrokit/gps"
	"github.com/gr-butler/agrokit/relay"
	"github.com/gr-butler/agrokit/sensors"
	"github.com/gr-butler/agrokit/telemetry"
	"github.com/gr-butler/agrokit/wifi"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
)

type timeSource interface {
	Now() (time.Time, error)
}

type poster interface {
	Post(ctx context.Context, body []byte) (telemetry.Response, error)
}

type publisher interface {
	Publish(body []byte) error
}

// agrokit owns every device. All of its methods run on the control loop.
type agrokit struct {
	s      *sensors.Sensors
	relays []*relay.Relay
	seq    *display.Sequence

	gps     *gps.Accumulator
	gpsPort io.Reader
	rtc     timeSource

	link     wifi.Link
	uploader poster
	mirror   publisher

	clock    clockwork.Clock
	lastGate time.Time
	now      time.Time // last good RTC time

	deviceID string
	battery  data.BatteryConfig
	testMode bool
}

func (a *agrokit) run() {
	a.lastGate = a.clock.Now()
	for {
		a.iterate()
	}
}

// iterate is one pass of the control loop.
func (a *agrokit) iterate() {
	if a.s.ButtonPressed() {
		a.showSequence()
		a.clock.Sleep(env.PostSequencePause)
	}

	a.actuate()
	a.readClock()

	if a.gateOpen() {
		a.telemetryCycle()
	}

	a.drainGPS()
	a.clock.Sleep(env.LoopDelay)
}

func (a *agrokit) showSequence() {
	r := a.s.SampleDisplay()
	a.seq.Run(a.clock, r)
	logger.Info("Sequence shown (button)")
}

func (a *agrokit) readClock() {
	if a.rtc == nil {
		return
	}
	t, err := a.rtc.Now()
	if err != nil {
		logger.Warnf("RTC read failed, keeping [%v] [%v]", a.now.Format(data.TimestampLayout), err)
		return
	}
	a.now = t
}

func (a *agrokit) drainGPS() {
	if n := a.gps.Drain(a.gpsPort); n > 0 {
		fix := a.gps.Fix()
		logger.Debugf("GPS fix [%v,%v]", fix.Lat, fix.Lon)
	}
}
