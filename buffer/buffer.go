package buffer

import "sync"

type Average float64

// SampleBuffer is a fixed size ring of the most recent samples. The first
// sample fills the whole ring so averages are meaningful straight away.
type SampleBuffer struct {
	position int
	size     int
	data     []float64
	lock     sync.Mutex
	first    bool
}

func NewBuffer(size int) *SampleBuffer {
	if size < 1 {
		size = 1
	}
	b := SampleBuffer{}
	b.first = true

	b.size = size
	b.data = make([]float64, size)

	return &b
}

func (b *SampleBuffer) AddItem(val float64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if b.first {
		for i := 0; i < b.size; i++ {
			b.data[i] = val
		}
		b.first = false
	}
	b.data[b.position] = val
	b.position += 1
	if b.position == b.size {
		b.position = 0
	}
}

// AverageLast averages the newest numberOfItems samples. Requests larger
// than the buffer are capped to its size.
func (b *SampleBuffer) AverageLast(numberOfItems int) Average {
	b.lock.Lock()
	defer b.lock.Unlock()
	if numberOfItems > b.size {
		numberOfItems = b.size
	}
	if numberOfItems < 1 {
		return 0
	}
	index := b.position - numberOfItems
	if index < 0 {
		// we are at the start of the array, so need to reverse wrap
		index += b.size
	}
	items := numberOfItems
	sum := 0.0
	for numberOfItems > 0 {
		sum += b.data[index]
		index += 1
		if index == b.size {
			index = 0
		}
		numberOfItems -= 1
	}
	return Average(sum / float64(items))
}

func (b *SampleBuffer) GetSize() int {
	return b.size
}

func (b *SampleBuffer) GetLast() float64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	index := b.position - 1
	if index < 0 {
		index += b.size
	}
	return b.data[index]
}
