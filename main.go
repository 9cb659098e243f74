package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gr-butler/agrokit/data"
	"github.com/gr-butler/agrokit/display"
	"github.com/gr-butler/agrokit/env"
	"github.com/gr-butler/agrokit/gps"
	"github.com/gr-butler/agrokit/relay"
	"github.com/gr-butler/agrokit/rtc"
	"github.com/gr-butler/agrokit/sensors"
	"github.com/gr-butler/agrokit/telemetry"
	"github.com/gr-butler/agrokit/wifi"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	logger "github.com/sirupsen/logrus"
)

const version = "AgroKit-1.0.0"

var Prom_soilMoisture = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "soil_moisture",
		Help: "Soil moisture %",
	},
)

var Prom_soilTemperature = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "soil_temperature",
		Help: "Soil temperature C",
	},
)

var Prom_temperature = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "temperature",
		Help: "Air temperature C",
	},
)

var Prom_humidity = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "relative_humidity",
		Help: "Relative Humidity",
	},
)

var Prom_atmPresure = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "atmospheric_pressure",
		Help: "Atmospheric pressure hPa",
	},
)

var Prom_light = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "light",
		Help: "Ambient light %",
	},
)

var Prom_waterPresent = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "water_present",
		Help: "1 when the water sensor detects water",
	},
)

var Prom_battery = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "battery",
		Help: "Battery charge %",
	},
)

var Prom_irrigation = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "irrigation",
		Help: "1 while the irrigation relays are on",
	},
)

var Prom_uploadStatus = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "upload_http_status",
		Help: "HTTP status of the last telemetry upload",
	},
)

var Prom_uploads = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "telemetry_uploads",
		Help: "Telemetry cycles by outcome",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(
		Prom_soilMoisture,
		Prom_soilTemperature,
		Prom_temperature,
		Prom_humidity,
		Prom_atmPresure,
		Prom_light,
		Prom_waterPresent,
		Prom_battery,
		Prom_irrigation,
		Prom_uploadStatus,
		Prom_uploads)
}

func main() {
	logger.Infof("Starting AgroKit station [%v]", version)

	args, err := env.ParseArgs(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Fatalf("Bad arguments [%v]", err)
	}
	if *args.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}
	if *args.Test {
		logger.Info("TEST MODE")
	}
	settings := env.LoadSettings()

	logger.Infof("%v: Initialize sensors...", time.Now().Format(time.RFC822))
	s := &sensors.Sensors{}
	if err := s.InitSensors(); err != nil {
		logger.Errorf("Failed to initialise sensors!! [%v]", err)
		logger.Exit(1)
	}
	defer s.Close()
	s.SetWaterDebounce(*args.Debounce)

	var screen display.Screen = display.LogScreen{}
	oled, err := display.NewOLED(s.Bus)
	if err != nil {
		logger.Errorf("Display unavailable, screens go to the log [%v]", err)
	} else {
		defer oled.Halt()
		screen = oled
	}

	a := &agrokit{
		s:        s,
		relays:   []*relay.Relay{relay.NewRelay("riego1", env.IrrigationRelay1), relay.NewRelay("riego2", env.IrrigationRelay2)},
		seq:      display.NewSequence(screen, env.ScreenDwell, env.AnalysisDwell),
		gps:      gps.NewAccumulator(),
		link:     wifi.NewNetLink(env.WifiIface),
		uploader: telemetry.NewUploader(settings.ServerURL, *args.Insecure, env.HTTPTimeout),
		clock:    clockwork.NewRealClock(),
		deviceID: settings.DeviceID,
		testMode: *args.Test,
		battery: data.BatteryConfig{
			ADCMax:     env.ADCMax,
			VRef:       env.ADCVRef,
			Divider:    env.BatteryDivider,
			EmptyVolts: env.BatteryEmptyVolts,
			FullVolts:  env.BatteryFullVolts,
		},
	}

	ds := rtc.NewDS3231(s.Bus, env.DS3231Addr)
	if err := ds.Probe(); err != nil {
		halt(fmt.Sprintf("RTC not found, stopping [%v]", err))
	}
	a.rtc = ds

	wifi.JoinAndWait(a.link, a.clock, settings.SSID, settings.Password, env.WifiJoinTimeout, env.WifiPollInterval)

	port, err := gps.OpenSerial(env.GPSPort, env.GPSBaud)
	if err != nil {
		logger.Errorf("GPS unavailable, position stays at 0,0 [%v]", err)
	} else {
		defer port.Close()
		a.gpsPort = port
	}

	if settings.MQTTBroker != "" && !*args.Test {
		m := telemetry.NewMirror(settings.MQTTBroker, "agrokit-"+settings.DeviceID, fmt.Sprintf(env.MQTTTopicFmt, settings.DeviceID))
		if err := m.Connect(env.HTTPTimeout); err != nil {
			logger.Errorf("MQTT mirror not connected [%v]", err)
		}
		defer m.Close()
		a.mirror = m
	}

	if settings.SendPromData && !*args.Test {
		go func() {
			logger.Info("Starting webservice...")
			http.Handle("/metrics", promhttp.Handler())
			logger.Errorf("Metrics listener stopped [%v]", http.ListenAndServe(":80", nil))
		}()
	}

	a.clock.Sleep(env.SplashDelay)
	display.Splash(screen)
	logger.Info("System ready")

	a.run()
}

// halt logs msg and never returns.
func halt(msg string) {
	logger.Error(msg)
	for {
		time.Sleep(time.Second)
	}
}
