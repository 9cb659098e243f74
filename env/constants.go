package env

import (
	"time"

	"periph.io/x/devices/v3/ads1x15"
)

const (
	GPIO04 = "GPIO4"
	GPIO05 = "GPIO5"
	GPIO06 = "GPIO6"
	GPIO13 = "GPIO13"
	GPIO17 = "GPIO17"
	GPIO22 = "GPIO22"
	GPIO23 = "GPIO23"
	GPIO24 = "GPIO24"
	GPIO27 = "GPIO27"

	SequenceButtonIn = GPIO04 // pulled up, Low when pressed
	WaterSensorIn    = GPIO17 // Low = water present
	IrrigationRelay1 = GPIO23
	IrrigationRelay2 = GPIO24

	// ADS1115 single ended inputs A0..A2
	SoilMoistureChannel = ads1x15.Channel0
	LightChannel        = ads1x15.Channel1
	BatteryChannel      = ads1x15.Channel2

	// I2C addresses
	BarometerAddr  = 0x77 // BMP180
	HygrometerAddr = 0x76 // BME280
	DS2482Addr     = 0x18
	DS3231Addr     = 0x68

	GPSPort = "/dev/serial0"
	GPSBaud = 9600

	// analog lines are scaled to a 12 bit count against ADCVRef
	ADCMax  = 4095
	ADCVRef = 3.3

	BatteryDivider    = 2.0 // 100k/100k
	BatteryEmptyVolts = 3.3
	BatteryFullVolts  = 4.2

	SoilDryThresholdPct = 45

	DeviceID = "KIT123"

	ServerURL   = "https://mi-dominio.com/api/sensores"
	UseInsecure = true // test servers only

	WifiSSID     = "GUAESC02"
	WifiPassword = "98013798"
	WifiIface    = "wlan0"

	MQTTTopicFmt = "agrokit/%s/telemetry"

	TelemetryInterval = 30 * time.Second
	WifiJoinTimeout   = 10 * time.Second
	WifiPollInterval  = 300 * time.Millisecond
	HTTPTimeout       = 15 * time.Second

	LoopDelay         = 50 * time.Millisecond
	SplashDelay       = time.Second
	ScreenDwell       = 1200 * time.Millisecond
	AnalysisDwell     = 2000 * time.Millisecond
	PostSequencePause = 800 * time.Millisecond
)
