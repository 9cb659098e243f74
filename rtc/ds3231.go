// Package rtc reads wall-clock time from a DS3231 real-time clock.
package rtc

import (
	"errors"
	"fmt"
	"time"

	logger "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
)

const (
	regSeconds = 0x00
	regCount   = 7
)

var ErrNotFound = errors.New("rtc not found")

// DS3231 keeps calendar time in BCD registers 0x00-0x06. The chip has no
// notion of time zone, values are returned as UTC.
type DS3231 struct {
	dev *i2c.Dev
}

func NewDS3231(bus i2c.Bus, addr uint16) *DS3231 {
	logger.Infof("Starting DS3231 RTC I2C [%x]", addr)
	return &DS3231{dev: &i2c.Dev{Addr: addr, Bus: bus}}
}

// Probe checks that the chip answers on the bus.
func (d *DS3231) Probe() error {
	if err := d.dev.Tx([]byte{regSeconds}, make([]byte, 1)); err != nil {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return nil
}

func (d *DS3231) Now() (time.Time, error) {
	read := make([]byte, regCount)
	if err := d.dev.Tx([]byte{regSeconds}, read); err != nil {
		return time.Time{}, fmt.Errorf("ds3231 read: %w", err)
	}
	return decode(read)
}

func decode(r []byte) (time.Time, error) {
	sec := bcd(r[0] & 0x7f)
	min := bcd(r[1] & 0x7f)
	var hour int
	if r[2]&0x40 != 0 {
		// 12 hour mode, bit 5 is PM
		hour = bcd(r[2]&0x1f) % 12
		if r[2]&0x20 != 0 {
			hour += 12
		}
	} else {
		hour = bcd(r[2] & 0x3f)
	}
	day := bcd(r[4] & 0x3f)
	month := bcd(r[5] & 0x1f)
	year := 2000 + bcd(r[6])
	if r[5]&0x80 != 0 {
		year += 100
	}
	if sec > 59 || min > 59 || hour > 23 || day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("ds3231 invalid registers [% x]", r)
	}
	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.UTC), nil
}

func bcd(b byte) int {
	return int(b>>4)*10 + int(b&0x0f)
}
