package sensors

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/onewire"
	"periph.io/x/devices/v3/ds18b20"
	"periph.io/x/devices/v3/ds248x"
)

const probeResolutionBits = 12

// soilProbe is the first DS18B20 found behind a DS2482 1-Wire bridge.
type soilProbe struct {
	bus onewire.Bus
	dev *ds18b20.Dev
}

func newSoilProbe(bus i2c.Bus, addr uint16) (*soilProbe, error) {
	logger.Infof("Starting DS2482 1-Wire bridge [%x]", addr)
	ow, err := ds248x.New(bus, addr, &ds248x.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("ds248x init: %w", err)
	}
	addrs, err := ow.Search(false)
	if err != nil {
		return nil, fmt.Errorf("1-wire search: %w", err)
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("no DS18B20 on the 1-wire bus")
	}
	logger.Infof("Soil probe at 1-wire address [%x]", uint64(addrs[0]))
	dev, err := ds18b20.New(ow, addrs[0], probeResolutionBits)
	if err != nil {
		return nil, fmt.Errorf("ds18b20 init: %w", err)
	}
	return &soilProbe{bus: ow, dev: dev}, nil
}

// RequestConversion starts a conversion on every probe and waits for it.
func (p *soilProbe) RequestConversion() error {
	return ds18b20.ConvertAll(p.bus, probeResolutionBits)
}

func (p *soilProbe) Temperature() (float64, error) {
	t, err := p.dev.LastTemp()
	if err != nil {
		return 0, err
	}
	return t.Celsius(), nil
}
