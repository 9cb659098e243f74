package sensors

import (
	"fmt"

	"github.com/gr-butler/agrokit/env"
	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"
)

// InitSensors opens the host, the I2C bus and every device on it. Only a
// missing host or bus is an error. A device that fails to start is logged
// and its readings stay undefined.
func (s *Sensors) InitSensors() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host init: %w", err)
	}

	bus, err := i2creg.Open("")
	if err != nil {
		return fmt.Errorf("failed to open I²C: %w", err)
	}
	s.Bus = bus
	s.ADCMax = env.ADCMax

	s.Button = inputPin(env.SequenceButtonIn, gpio.PullUp)
	s.Water = inputPin(env.WaterSensorIn, gpio.Float)

	logger.Infof("Starting ADS1115 ADC I2C [%x]", ads1x15.DefaultOpts.I2cAddress)
	adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		logger.Errorf("ADS1115 failed to start [%v]", err)
	} else {
		s.Soil = analogLine(adc, analogInputs.Soil)
		s.Light = analogLine(adc, analogInputs.Light)
		s.Battery = analogLine(adc, analogInputs.Battery)
	}

	baro, err := newAtmosphere(bus, env.BarometerAddr, "BMP180")
	if err != nil {
		logger.Errorf("Barometer unavailable, pressure will be reported as null [%v]", err)
	} else {
		s.Baro = baro
		s.BarometerOK = true
	}

	hygro, err := newAtmosphere(bus, env.HygrometerAddr, "BME280")
	if err != nil {
		logger.Errorf("Hygrometer unavailable [%v]", err)
	} else {
		s.Hygro = hygro
	}

	probe, err := newSoilProbe(bus, env.DS2482Addr)
	if err != nil {
		logger.Errorf("Soil probe unavailable [%v]", err)
	} else {
		s.Probe = probe
	}

	logger.Info("Sensors initialized.")
	return nil
}

func inputPin(name string, pull gpio.Pull) DigitalIn {
	p := gpioreg.ByName(name)
	if p == nil {
		logger.Errorf("Failed to find %v pin", name)
		return nil
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		logger.Errorf("Failed to set %v as input [%v]", name, err)
		return nil
	}
	logger.Infof("%s: %s", p, p.Function())
	return p
}

// analogInputs is the ADS1115 input each analog line is opened on.
var analogInputs = struct {
	Soil, Light, Battery ads1x15.Channel
}{
	Soil:    env.SoilMoistureChannel,
	Light:   env.LightChannel,
	Battery: env.BatteryChannel,
}

func analogLine(adc *ads1x15.Dev, channel ads1x15.Channel) AnalogIn {
	pin, err := adc.PinForChannel(channel, 4096*physic.MilliVolt, 128*physic.Hertz, ads1x15.BestQuality)
	if err != nil {
		logger.Errorf("ADC channel %v unavailable [%v]", channel, err)
		return nil
	}
	return adcLine{pin: pin, vref: env.ADCVRef, max: env.ADCMax}
}
