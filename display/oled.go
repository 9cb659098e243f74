// Package display renders short status texts on the station's OLED and runs
// the manual readings sequence.
package display

import (
	"fmt"
	"image"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	Width  = 128
	Height = 64

	lineHeight = 13
)

// Screen is a text only view of the display.
type Screen interface {
	// Show clears the screen and prints text starting at row y.
	Show(y int, text string) error
	Clear() error
}

type OLED struct {
	dev *ssd1306.Dev
	img *image1bit.VerticalLSB
}

// NewOLED starts the display at the driver's fixed address 0x3C.
func NewOLED(bus i2c.Bus) (*OLED, error) {
	logger.Info("Starting SSD1306 display")
	opts := ssd1306.DefaultOpts
	opts.W = Width
	opts.H = Height
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306 init: %w", err)
	}
	o := &OLED{
		dev: dev,
		img: image1bit.NewVerticalLSB(dev.Bounds()),
	}
	return o, o.Clear()
}

func (o *OLED) Show(y int, text string) error {
	o.blank()
	d := font.Drawer{
		Dst:  o.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, y+lineHeight-2),
	}
	d.DrawString(text)
	return o.flush()
}

func (o *OLED) Clear() error {
	o.blank()
	return o.flush()
}

func (o *OLED) Halt() error {
	return o.dev.Halt()
}

func (o *OLED) blank() {
	for i := range o.img.Pix {
		o.img.Pix[i] = 0
	}
}

func (o *OLED) flush() error {
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		return fmt.Errorf("ssd1306 draw: %w", err)
	}
	return nil
}

// LogScreen stands in for a missing display and writes texts to the log.
type LogScreen struct{}

func (LogScreen) Show(y int, text string) error {
	logger.Infof("Screen [%v]", text)
	return nil
}

func (LogScreen) Clear() error {
	return nil
}
