// Package gps turns the receiver's NMEA byte stream into a sticky position fix.
package gps

import (
	"bytes"

	"github.com/adrianmo/go-nmea"
	"github.com/gr-butler/agrokit/data"
	logger "github.com/sirupsen/logrus"
)

// longest legal NMEA 0183 sentence is 82 characters
const maxSentence = 128

// Accumulator is fed the receiver output one byte at a time.
type Accumulator struct {
	line    []byte
	fix     data.GeoFix
	hasFix  bool
	updates int
}

func NewAccumulator() *Accumulator {
	return &Accumulator{line: make([]byte, 0, maxSentence)}
}

// Encode consumes one byte and returns true when it completed a sentence
// carrying a valid position.
func (a *Accumulator) Encode(c byte) bool {
	switch c {
	case '$':
		a.line = append(a.line[:0], c)
		return false
	case '\r':
		return false
	case '\n':
		updated := a.parse()
		a.line = a.line[:0]
		return updated
	}
	if len(a.line) == 0 {
		// noise between sentences
		return false
	}
	if len(a.line) >= maxSentence {
		a.line = a.line[:0]
		return false
	}
	a.line = append(a.line, c)
	return false
}

func (a *Accumulator) parse() bool {
	if len(a.line) == 0 {
		return false
	}
	s, err := nmea.Parse(string(bytes.TrimSpace(a.line)))
	if err != nil {
		logger.Debugf("Dropping NMEA sentence [%v]", err)
		return false
	}
	switch m := s.(type) {
	case nmea.RMC:
		if m.Validity != nmea.ValidRMC {
			return false
		}
		a.set(m.Latitude, m.Longitude)
	case nmea.GGA:
		if m.FixQuality == nmea.Invalid {
			return false
		}
		a.set(m.Latitude, m.Longitude)
	default:
		return false
	}
	return true
}

func (a *Accumulator) set(lat, lon float64) {
	a.fix = data.GeoFix{Lat: lat, Lon: lon}
	a.hasFix = true
	a.updates++
}

// Fix returns the last known position, the zero fix until one arrives.
func (a *Accumulator) Fix() data.GeoFix {
	return a.fix
}

func (a *Accumulator) HasFix() bool {
	return a.hasFix
}

func (a *Accumulator) Updates() int {
	return a.updates
}
