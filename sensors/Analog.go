package sensors

import (
	"fmt"
	"math"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

type sampler interface {
	Read() (analog.Sample, error)
}

// adcLine scales an ADC voltage to a count in [0, max] against vref, so
// every analog input looks like a 12 bit converter to the rest of the code.
type adcLine struct {
	pin  sampler
	vref float64
	max  int
}

func (a adcLine) ReadRaw() (int, error) {
	s, err := a.pin.Read()
	if err != nil {
		return 0, fmt.Errorf("adc read: %w", err)
	}
	v := float64(s.V) / float64(physic.Volt)
	raw := int(math.Round(v / a.vref * float64(a.max)))
	if raw < 0 {
		raw = 0
	}
	if raw > a.max {
		raw = a.max
	}
	return raw, nil
}
