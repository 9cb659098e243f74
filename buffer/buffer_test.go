package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstItemFills(t *testing.T) {
	buf := NewBuffer(5)

	buf.AddItem(1)

	assert.Equal(t, Average(1), buf.AverageLast(5))
	assert.Equal(t, 1.0, buf.GetLast())
}

func TestAverageLast(t *testing.T) {
	buf := NewBuffer(10)

	buf.AddItem(4)
	buf.AddItem(4)
	buf.AddItem(4)
	buf.AddItem(4)
	buf.AddItem(4)
	buf.AddItem(2)
	buf.AddItem(2)
	buf.AddItem(2)
	buf.AddItem(2)
	buf.AddItem(2)

	a := buf.AverageLast(2)
	assert.Equal(t, Average(2), a)
	a = buf.AverageLast(6)
	assert.Equal(t, Average(2.3333333333333335), a)

	buf.AddItem(2)
	buf.AddItem(2)
	buf.AddItem(2)
	buf.AddItem(2)

	a = buf.AverageLast(9)
	assert.Equal(t, Average(2), a)

	a = buf.AverageLast(10)
	assert.Equal(t, Average(2.2), a)
}

func TestAverageLastCapped(t *testing.T) {
	buf := NewBuffer(3)
	buf.AddItem(0)
	buf.AddItem(1)
	buf.AddItem(1)

	assert.InDelta(t, 0.6667, float64(buf.AverageLast(50)), 0.001)
	assert.Equal(t, Average(0), buf.AverageLast(0))
}

func TestZeroSizeIsOne(t *testing.T) {
	buf := NewBuffer(0)
	assert.Equal(t, 1, buf.GetSize())
	buf.AddItem(7)
	buf.AddItem(3)
	assert.Equal(t, 3.0, buf.GetLast())
}
