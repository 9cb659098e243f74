package gps

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	validRMC   = "$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*70\r\n"
	voidRMC    = "$GPRMC,220516,V,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*67\r\n"
	validGGA   = "$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n"
	noFixGGA   = "$GPGGA,123519,4807.038,N,01131.000,E,0,00,,,M,,M,,*52\r\n"
	gsa        = "$GPGSA,A,3,04,05,,09,12,,,24,,,,,2.5,1.3,2.1*39\r\n"
	badSumRMC  = "$GPRMC,220516,A,5133.82,N,00042.24,W,173.8,231.8,130694,004.2,W*00\r\n"
	rmcLat     = 51.0 + 33.82/60
	rmcLon     = -(42.24 / 60)
	ggaLat     = 48.0 + 7.038/60
	ggaLon     = 11.0 + 31.0/60
	coordDelta = 0.000001
)

func feed(a *Accumulator, s string) int {
	fixes := 0
	for i := 0; i < len(s); i++ {
		if a.Encode(s[i]) {
			fixes++
		}
	}
	return fixes
}

func TestAccumulatorRMC(t *testing.T) {
	a := NewAccumulator()
	assert.False(t, a.HasFix())

	require.Equal(t, 1, feed(a, validRMC))
	assert.True(t, a.HasFix())
	assert.InDelta(t, rmcLat, a.Fix().Lat, coordDelta)
	assert.InDelta(t, rmcLon, a.Fix().Lon, coordDelta)
}

func TestAccumulatorGGA(t *testing.T) {
	a := NewAccumulator()
	require.Equal(t, 1, feed(a, validGGA))
	assert.InDelta(t, ggaLat, a.Fix().Lat, coordDelta)
	assert.InDelta(t, ggaLon, a.Fix().Lon, coordDelta)
}

func TestAccumulatorIgnoresInvalid(t *testing.T) {
	a := NewAccumulator()
	assert.Equal(t, 0, feed(a, voidRMC+noFixGGA+gsa+badSumRMC+"garbage\r\n"))
	assert.False(t, a.HasFix())
	assert.Equal(t, 0, a.Updates())
}

func TestFixIsSticky(t *testing.T) {
	a := NewAccumulator()
	feed(a, validRMC)
	first := a.Fix()

	// nothing new, then a void fix: keep the last good position verbatim
	assert.Equal(t, 0, feed(a, ""))
	assert.Equal(t, first, a.Fix())
	assert.Equal(t, 0, feed(a, voidRMC+noFixGGA))
	assert.Equal(t, first, a.Fix())

	feed(a, validGGA)
	assert.NotEqual(t, first, a.Fix())
	assert.Equal(t, 2, a.Updates())
}

func TestEncodeByteAtATime(t *testing.T) {
	a := NewAccumulator()
	updated := 0
	for _, c := range []byte("noise" + validRMC) {
		if a.Encode(c) {
			updated++
		}
	}
	assert.Equal(t, 1, updated)
}

func TestEncodeSplitAcrossDrains(t *testing.T) {
	a := NewAccumulator()
	half := len(validGGA) / 2
	assert.Equal(t, 0, feed(a, validGGA[:half]))
	assert.Equal(t, 1, feed(a, validGGA[half:]))
}

func TestOverlongSentenceDropped(t *testing.T) {
	a := NewAccumulator()
	long := "$" + string(bytes.Repeat([]byte("A"), 300)) + "\r\n"
	assert.Equal(t, 0, feed(a, long))
	assert.False(t, a.HasFix())
	assert.Equal(t, 1, feed(a, validRMC))
	assert.True(t, a.HasFix())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("port closed")
}

func TestDrainNilAndFailingSource(t *testing.T) {
	a := NewAccumulator()
	assert.Equal(t, 0, a.Drain(nil))
	assert.Equal(t, 0, a.Drain(failingReader{}))
}

// streamingReader never runs dry: every read returns more RMC bytes.
type streamingReader struct {
	pos   int
	bytes int
}

func (s *streamingReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		p[n] = validRMC[s.pos%len(validRMC)]
		s.pos++
		n++
	}
	s.bytes += n
	return n, nil
}

func TestDrainIsBounded(t *testing.T) {
	a := NewAccumulator()
	src := &streamingReader{}

	fixes := a.Drain(src)
	assert.Equal(t, drainBudget, src.bytes)
	assert.Equal(t, drainBudget/len(validRMC), fixes)

	a.Drain(src)
	assert.Equal(t, 2*drainBudget, src.bytes)
}

func TestDrainBufferedInput(t *testing.T) {
	a := NewAccumulator()
	src := bytes.NewBufferString(gsa + validGGA[:20])
	assert.Equal(t, 0, a.Drain(src))
	src.WriteString(validGGA[20:])
	assert.Equal(t, 1, a.Drain(src))
	assert.InDelta(t, ggaLat, a.Fix().Lat, coordDelta)
}
