package relay

import (
	"sync"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Relay is an active-high relay driver line. Set is called every loop
// iteration, only transitions are logged.
type Relay struct {
	Name    string
	lock    *sync.Mutex
	on      bool
	known   bool
	gpioPin gpio.PinOut
}

func NewRelay(name string, GPIOPin string) *Relay {
	logger.Infof("Creating new relay on pin [%v] called [%v]", GPIOPin, name)
	p := gpioreg.ByName(GPIOPin)
	if p == nil {
		logger.Errorf("Failed to find %v pin", GPIOPin)
		return New(name, nil)
	}
	return New(name, p)
}

// New wraps an output pin and drives it inactive.
func New(name string, pin gpio.PinOut) *Relay {
	r := &Relay{
		Name:    name,
		lock:    &sync.Mutex{},
		gpioPin: pin,
	}
	r.Set(false)
	return r
}

func (r *Relay) Set(on bool) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.known && r.on != on {
		logger.Infof("Relay [%v] %v", r.Name, onOff(on))
	}
	r.on = on
	r.known = true
	if r.gpioPin == nil {
		return
	}
	level := gpio.Low
	if on {
		level = gpio.High
	}
	if err := r.gpioPin.Out(level); err != nil {
		logger.Errorf("Relay [%v] write failed [%v]", r.Name, err)
	}
}

func (r *Relay) IsOn() bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	return r.on
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
