package sensors

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/bmxx80"
)

// atmosphere wraps a Bosch BMP180/BME280. Each accessor triggers its own
// measurement.
type atmosphere struct {
	name string
	dev  *bmxx80.Dev
}

func newAtmosphere(bus i2c.Bus, addr uint16, name string) (*atmosphere, error) {
	logger.Infof("Starting %v reader [%x]", name, addr)
	dev, err := bmxx80.NewI2C(bus, addr, &bmxx80.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %v: %w", name, err)
	}
	logger.Infof("%v detected as [%v]", name, dev)
	return &atmosphere{name: name, dev: dev}, nil
}

func (a *atmosphere) sense() (physic.Env, error) {
	em := physic.Env{}
	if err := a.dev.Sense(&em); err != nil {
		return em, fmt.Errorf("%v read failed: %w", a.name, err)
	}
	return em, nil
}

func (a *atmosphere) Temperature() (float64, error) {
	em, err := a.sense()
	if err != nil {
		return 0, err
	}
	return em.Temperature.Celsius(), nil
}

func (a *atmosphere) Pressure() (float64, error) {
	em, err := a.sense()
	if err != nil {
		return 0, err
	}
	return toHPa(em.Pressure), nil
}

func (a *atmosphere) Humidity() (float64, error) {
	em, err := a.sense()
	if err != nil {
		return 0, err
	}
	return toPercentRH(em.Humidity), nil
}

func (a *atmosphere) Halt() error {
	return a.dev.Halt()
}

func toHPa(p physic.Pressure) float64 {
	return float64(p) / float64(100*physic.Pascal)
}

func toPercentRH(h physic.RelativeHumidity) float64 {
	return float64(h) / float64(physic.PercentRH)
}
