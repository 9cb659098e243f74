package gps

import (
	"fmt"
	"io"
	"time"

	logger "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// pollTimeout bounds how long a drain waits on an idle port.
const pollTimeout = 5 * time.Millisecond

// drainBudget caps the bytes taken per drain, about one UART buffer, so a
// receiver that never pauses can't hold up the loop.
const drainBudget = 256

// OpenSerial opens the receiver UART so that reads return promptly with
// zero bytes once the input is empty.
func OpenSerial(port string, baud int) (serial.Port, error) {
	p, err := serial.Open(port, &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("open gps port %v: %w", port, err)
	}
	if err := p.SetReadTimeout(pollTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("gps port read timeout: %w", err)
	}
	logger.Infof("GPS serial open on [%v] at [%v] baud", port, baud)
	return p, nil
}

// Drain feeds what is currently readable from src, at most drainBudget
// bytes, into the accumulator and returns how many fixes it produced. A nil
// source is a no-op.
func (a *Accumulator) Drain(src io.Reader) int {
	if src == nil {
		return 0
	}
	fixes := 0
	buf := make([]byte, 64)
	for left := drainBudget; left > 0; {
		if left < len(buf) {
			buf = buf[:left]
		}
		n, err := src.Read(buf)
		left -= n
		for _, c := range buf[:n] {
			if a.Encode(c) {
				fixes++
			}
		}
		if err != nil {
			if err != io.EOF {
				logger.Debugf("GPS read failed [%v]", err)
			}
			return fixes
		}
		if n == 0 {
			return fixes
		}
	}
	return fixes
}
